package web

import (
	"github.com/gofiber/fiber/v2"

	"notesweb/handlers/api"
	"notesweb/middleware"
	"notesweb/utils"
)

type AdminHandler struct {
	client *api.Client
}

func NewAdminHandler(client *api.Client) *AdminHandler {
	return &AdminHandler{
		client: client,
	}
}

// ShowUsers renders the user roster. The admin guard has already run;
// the service still rejects the call if the role claim was stale.
func (h *AdminHandler) ShowUsers(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	users, err := h.client.WithToken(sess.Token).Users()
	if err != nil {
		return c.Render("admin_users", fiber.Map{
			"User":      sess.User,
			"Error":     api.Message(err, "Failed to load users"),
			"CSRFToken": c.Locals("csrf"),
		})
	}

	return c.Render("admin_users", fiber.Map{
		"User":      sess.User,
		"Users":     users,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleDeleteUser removes a user from the roster.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	id := c.Params("id")

	if id == sess.User.ID {
		return utils.BadRequestError("You cannot delete your own account", nil)
	}

	if err := h.client.WithToken(sess.Token).DeleteUser(id); err != nil {
		return utils.InternalServerError(api.Message(err, "Failed to delete user"), err)
	}

	if isAPIRequest(c) {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "User deleted successfully",
		})
	}
	return c.Redirect("/admin/users")
}
