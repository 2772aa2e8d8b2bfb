package web

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"notesweb/auth"
	"notesweb/middleware"
	"notesweb/models"
)

type ProfileHandler struct {
	manager  *auth.Manager
	validate *validator.Validate
}

func NewProfileHandler(manager *auth.Manager, validate *validator.Validate) *ProfileHandler {
	return &ProfileHandler{
		manager:  manager,
		validate: validate,
	}
}

// ShowProfile renders the profile page
func (h *ProfileHandler) ShowProfile(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	return c.Render("profile", fiber.Map{
		"User":      sess.User,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleUpdateProfile processes the profile form. On success the updated
// record replaces the session's copy; on failure the session is unchanged.
func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	update := models.ProfileUpdate{
		Email:    strings.TrimSpace(c.FormValue("email")),
		Username: strings.TrimSpace(c.FormValue("username")),
	}

	if err := h.validate.Struct(update); err != nil {
		return c.Status(400).Render("profile", fiber.Map{
			"User":      sess.User,
			"Error":     "A valid email and username are required",
			"CSRFToken": c.Locals("csrf"),
		})
	}

	updated, err := h.manager.UpdateProfile(c, update)
	if err != nil {
		return c.Status(400).Render("profile", fiber.Map{
			"User":      sess.User,
			"Error":     updated.Error,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	return c.Render("profile", fiber.Map{
		"User":      updated.User,
		"Success":   "Profile updated successfully",
		"CSRFToken": c.Locals("csrf"),
	})
}
