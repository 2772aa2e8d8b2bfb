package middleware

import (
	"notesweb/utils"

	"github.com/gofiber/fiber/v2"
)

// Supported UI languages. English is the only bundled locale for now.
var supportedLangs = map[string]bool{"en": true}

// LocaleMiddleware detects and sets the user's locale
func LocaleMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := c.Query("lang")

		if lang == "" {
			lang = c.Cookies("lang")
		}

		if !supportedLangs[lang] {
			lang = "en"
		}

		localizer := utils.GetLocalizer(lang)

		c.Locals("localizer", localizer)
		c.Locals("lang", lang)

		return c.Next()
	}
}
