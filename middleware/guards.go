package middleware

import (
	"github.com/gofiber/fiber/v2"

	"notesweb/auth"
)

// SessionKey is where the resolved session lives in ctx locals.
const SessionKey = "session"

// wantsJSON reports whether a guard rejection should be a JSON status
// rather than a redirect. Covers the /api routes and HTMX fetches.
func wantsJSON(c *fiber.Ctx) bool {
	if c.Get("HX-Request") != "" {
		return true
	}
	path := c.Path()
	return len(path) >= 4 && path[:4] == "/api"
}

// RequireAuth resolves the browser session and redirects unauthenticated
// requests to the login page (JSON callers get a 401 instead). The
// resolved session is stashed in locals so handlers never resolve twice.
func RequireAuth(m *auth.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := m.Resolve(c)
		if !sess.IsAuthenticated() {
			if wantsJSON(c) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Authentication required",
				})
			}
			if sess.Error != "" {
				m.RememberError(c, sess.Error)
			}
			return c.Redirect("/login")
		}
		c.Locals(SessionKey, sess)
		return c.Next()
	}
}

// RequireAdmin additionally requires the admin role. Non-admin sessions
// are sent back to the dashboard without rendering the protected page;
// JSON callers get a 403.
func RequireAdmin(m *auth.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionFromCtx(c)
		if !sess.IsAuthenticated() {
			sess = m.Resolve(c)
			if !sess.IsAuthenticated() {
				if wantsJSON(c) {
					return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
						"error": "Authentication required",
					})
				}
				return c.Redirect("/login")
			}
			c.Locals(SessionKey, sess)
		}
		if !sess.IsAdmin() {
			if wantsJSON(c) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "Admin access required",
				})
			}
			return c.Redirect("/dashboard")
		}
		return c.Next()
	}
}

// SessionFromCtx returns the session a guard stashed for this request.
// The zero session (unauthenticated) comes back when no guard ran.
func SessionFromCtx(c *fiber.Ctx) auth.Session {
	sess, ok := c.Locals(SessionKey).(auth.Session)
	if !ok {
		return auth.Session{State: auth.StateUnauthenticated}
	}
	return sess
}
