package web

import (
	"github.com/gofiber/fiber/v2"
)

// IsAPIRequest reports whether the response should be JSON rather than a
// rendered page. Covers the /api routes and HTMX partial fetches.
func IsAPIRequest(c *fiber.Ctx) bool {
	if c == nil {
		return false
	}

	if c.Get("HX-Request") != "" {
		return true
	}

	path := c.Path()
	return len(path) >= 4 && path[:4] == "/api"
}

func isAPIRequest(c *fiber.Ctx) bool {
	return IsAPIRequest(c)
}
