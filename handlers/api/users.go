package api

import (
	"notesweb/models"
)

// Users returns the full user roster. The API restricts this to admins.
func (c *Client) Users() ([]models.User, error) {
	var out []models.User
	if err := c.get("/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes a user from the roster. Admin only.
func (c *Client) DeleteUser(id string) error {
	return c.delete("/users/" + id)
}
