package api

import (
	"notesweb/models"
)

// Login exchanges credentials for a token and user record.
func (c *Client) Login(creds models.Credentials) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.post("/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. The API returns no body; the caller is
// expected to log in afterwards.
func (c *Client) Register(reg models.Registration) error {
	return c.post("/users/register", reg, nil)
}

// CurrentUser fetches the profile of the token's owner.
func (c *Client) CurrentUser() (*models.User, error) {
	var out models.User
	if err := c.get("/users/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile updates the editable profile fields and returns the
// record the server now holds.
func (c *Client) UpdateProfile(update models.ProfileUpdate) (*models.User, error) {
	var out models.User
	if err := c.put("/users/profile", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
