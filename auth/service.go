package auth

import (
	"notesweb/handlers/api"
	"notesweb/models"
)

// Service is the seam between the session manager and the remote notes
// service. Token-bound operations take the bearer token explicitly; the
// manager owns where that token is kept.
type Service interface {
	Login(creds models.Credentials) (*models.LoginResponse, error)
	Register(reg models.Registration) error
	CurrentUser(token string) (*models.User, error)
	UpdateProfile(token string, update models.ProfileUpdate) (*models.User, error)
}

type clientService struct {
	client *api.Client
}

// APIService wraps the remote API client as a Service.
func APIService(client *api.Client) Service {
	return &clientService{client: client}
}

func (s *clientService) Login(creds models.Credentials) (*models.LoginResponse, error) {
	return s.client.Login(creds)
}

func (s *clientService) Register(reg models.Registration) error {
	return s.client.Register(reg)
}

func (s *clientService) CurrentUser(token string) (*models.User, error) {
	return s.client.WithToken(token).CurrentUser()
}

func (s *clientService) UpdateProfile(token string, update models.ProfileUpdate) (*models.User, error) {
	return s.client.WithToken(token).UpdateProfile(update)
}
