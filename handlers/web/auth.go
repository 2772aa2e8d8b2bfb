// handlers/web/auth.go
package web

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"notesweb/auth"
	"notesweb/models"
	"notesweb/utils"
)

type AuthHandler struct {
	manager  *auth.Manager
	validate *validator.Validate
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(manager *auth.Manager, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		manager:  manager,
		validate: validate,
	}
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	sess := h.manager.Resolve(c)
	if sess.IsAuthenticated() {
		return c.Redirect("/dashboard")
	}
	errMsg := sess.Error
	if errMsg != "" {
		h.manager.ClearError(c)
	}
	return c.Render("login", fiber.Map{
		"Error":     errMsg,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleLogin processes the login form
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	creds := models.Credentials{
		Email:    strings.TrimSpace(c.FormValue("email")),
		Password: c.FormValue("password"),
	}

	if err := h.validate.Struct(creds); err != nil {
		return c.Status(400).Render("login", fiber.Map{
			"Error":     "Email and password are required",
			"Email":     creds.Email,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	sess := h.manager.Login(c, creds)
	if !sess.IsAuthenticated() {
		return c.Status(401).Render("login", fiber.Map{
			"Error":     sess.Error,
			"Email":     creds.Email,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	return c.Redirect("/dashboard")
}

// ShowRegister renders the registration page
func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	sess := h.manager.Resolve(c)
	if sess.IsAuthenticated() {
		return c.Redirect("/dashboard")
	}
	return c.Render("register", fiber.Map{
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleRegister processes the registration form. Registration does not
// authenticate; on success the user lands on the login page.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	reg := models.Registration{
		Email:    strings.TrimSpace(c.FormValue("email")),
		Username: strings.TrimSpace(c.FormValue("username")),
		Password: c.FormValue("password"),
	}

	if err := h.validate.Struct(reg); err != nil {
		return c.Status(400).Render("register", fiber.Map{
			"Error":     registrationProblem(err),
			"Email":     reg.Email,
			"Username":  reg.Username,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	if err := h.manager.Register(c, reg); err != nil {
		msg := "Registration failed"
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		return c.Status(400).Render("register", fiber.Map{
			"Error":     msg,
			"Email":     reg.Email,
			"Username":  reg.Username,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	return c.Redirect("/login")
}

// HandleLogout processes user logout
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.manager.Logout(c)
	return c.Redirect("/login")
}

// registrationProblem turns the first validation failure into a form hint.
func registrationProblem(err error) string {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		switch fe.Field() {
		case "Email":
			return "A valid email address is required"
		case "Username":
			return "Username must be between 3 and 32 characters"
		case "Password":
			return "Password must be at least 8 characters"
		}
	}
	return "Please fill in all required fields"
}
