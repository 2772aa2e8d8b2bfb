package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesweb/config"
	"notesweb/handlers/api"
	"notesweb/models"
)

// fakeAuthAPI is an in-memory Service for exercising the manager without
// a remote notes service.
type fakeAuthAPI struct {
	loginResp   *models.LoginResponse
	loginErr    error
	registerErr error
	usersByTok  map[string]*models.User
	currentErr  error
	updated     *models.User
	updateErr   error

	currentCalls int
}

func (f *fakeAuthAPI) Login(creds models.Credentials) (*models.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeAuthAPI) Register(reg models.Registration) error {
	return f.registerErr
}

func (f *fakeAuthAPI) CurrentUser(token string) (*models.User, error) {
	f.currentCalls++
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	user, ok := f.usersByTok[token]
	if !ok {
		return nil, &api.APIError{Kind: api.KindUnauthorized, Status: 401, Message: "Invalid token"}
	}
	return user, nil
}

func (f *fakeAuthAPI) UpdateProfile(token string, update models.ProfileUpdate) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updated, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "unit-test-signing-secret"
	cfg.Encryption.Key = "0123456789abcdef0123456789abcdef"
	cfg.Session.ExpirationHours = 1
	return cfg
}

func testUser() *models.User {
	return &models.User{ID: "u1", Email: "alice@example.com", Username: "alice", Role: models.RoleUser}
}

// newTestApp wires the manager behind a few routes so tests can drive it
// through real requests and carry the session cookie between them.
func newTestApp(svc Service) (*fiber.App, *Manager) {
	m := NewManager(session.New(), svc, testConfig())
	app := fiber.New()

	app.Post("/login", func(c *fiber.Ctx) error {
		s := m.Login(c, models.Credentials{Email: "alice@example.com", Password: "pw"})
		if !s.IsAuthenticated() {
			return c.Status(fiber.StatusUnauthorized).SendString(s.Error)
		}
		return c.SendString(s.User.Email)
	})
	app.Get("/state", func(c *fiber.Ctx) error {
		s := m.Resolve(c)
		body := s.State.String()
		if s.User != nil {
			body += " " + s.User.Email
		}
		if s.Error != "" {
			body += " err=" + s.Error
		}
		return c.SendString(body)
	})
	app.Post("/logout", func(c *fiber.Ctx) error {
		m.Logout(c)
		return c.SendString("bye")
	})
	app.Post("/profile", func(c *fiber.Ctx) error {
		update := models.ProfileUpdate{Email: "alice@example.com", Username: "renamed"}
		s, err := m.UpdateProfile(c, update)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).SendString(s.Error)
		}
		return c.SendString(s.User.Username)
	})

	return app, m
}

func do(t *testing.T, app *fiber.App, method, target, cookie string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c.Name + "=" + c.Value
		}
	}
	return ""
}

func TestLoginPersistsSession(t *testing.T) {
	svc := &fakeAuthAPI{
		loginResp:  &models.LoginResponse{Token: "tok-1", User: *testUser()},
		usersByTok: map[string]*models.User{"tok-1": testUser()},
	}
	app, _ := newTestApp(svc)

	resp, body := do(t, app, fiber.MethodPost, "/login", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice@example.com", body)

	cookie := sessionCookie(resp)
	require.NotEmpty(t, cookie, "login should set a session cookie")

	_, body = do(t, app, fiber.MethodGet, "/state", cookie)
	assert.Equal(t, "authenticated alice@example.com", body)
}

func TestLoginFailureStaysUnauthenticated(t *testing.T) {
	svc := &fakeAuthAPI{
		loginErr: &api.APIError{Kind: api.KindUnauthorized, Status: 401, Message: "Invalid credentials"},
	}
	app, _ := newTestApp(svc)

	resp, body := do(t, app, fiber.MethodPost, "/login", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body)

	_, body = do(t, app, fiber.MethodGet, "/state", sessionCookie(resp))
	assert.Contains(t, body, "unauthenticated")
}

func TestLoginFallbackMessage(t *testing.T) {
	svc := &fakeAuthAPI{loginErr: &api.APIError{Kind: api.KindUnknown}}
	app, _ := newTestApp(svc)

	_, body := do(t, app, fiber.MethodPost, "/login", "")
	assert.Equal(t, "Login failed", body)
}

func TestResolveReloadsPersistedToken(t *testing.T) {
	user := testUser()
	svc := &fakeAuthAPI{
		loginResp:  &models.LoginResponse{Token: "tok-1", User: *user},
		usersByTok: map[string]*models.User{"tok-1": user},
	}
	app, m := newTestApp(svc)

	resp, _ := do(t, app, fiber.MethodPost, "/login", "")
	cookie := sessionCookie(resp)

	// Drop the resolved user so only the persisted token remains, the
	// way a fresh process sees a returning browser.
	m.users.Clear()

	_, body := do(t, app, fiber.MethodGet, "/state", cookie)
	assert.Equal(t, "authenticated alice@example.com", body)
	assert.Equal(t, 1, svc.currentCalls, "reload hits the profile endpoint once")

	// The next request finds the user cached again.
	_, body = do(t, app, fiber.MethodGet, "/state", cookie)
	assert.Equal(t, "authenticated alice@example.com", body)
	assert.Equal(t, 1, svc.currentCalls)
}

func TestResolveDowngradesRejectedToken(t *testing.T) {
	user := testUser()
	svc := &fakeAuthAPI{
		loginResp:  &models.LoginResponse{Token: "tok-1", User: *user},
		usersByTok: map[string]*models.User{"tok-1": user},
	}
	app, m := newTestApp(svc)

	resp, _ := do(t, app, fiber.MethodPost, "/login", "")
	cookie := sessionCookie(resp)

	m.users.Clear()
	svc.currentErr = &api.APIError{Kind: api.KindUnauthorized, Status: 401, Message: "Token expired"}

	_, body := do(t, app, fiber.MethodGet, "/state", cookie)
	assert.Equal(t, "unauthenticated err=Token expired", body)
}

func TestLogout(t *testing.T) {
	user := testUser()
	svc := &fakeAuthAPI{
		loginResp:  &models.LoginResponse{Token: "tok-1", User: *user},
		usersByTok: map[string]*models.User{"tok-1": user},
	}
	app, _ := newTestApp(svc)

	resp, _ := do(t, app, fiber.MethodPost, "/login", "")
	cookie := sessionCookie(resp)

	resp, _ = do(t, app, fiber.MethodPost, "/logout", cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, body := do(t, app, fiber.MethodGet, "/state", cookie)
	assert.Contains(t, body, "unauthenticated")

	// Logging out again is harmless.
	resp, _ = do(t, app, fiber.MethodPost, "/logout", cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUpdateProfile(t *testing.T) {
	user := testUser()
	renamed := *user
	renamed.Username = "renamed"
	svc := &fakeAuthAPI{
		loginResp:  &models.LoginResponse{Token: "tok-1", User: *user},
		usersByTok: map[string]*models.User{"tok-1": user},
		updated:    &renamed,
	}
	app, _ := newTestApp(svc)

	resp, _ := do(t, app, fiber.MethodPost, "/login", "")
	cookie := sessionCookie(resp)

	resp, body := do(t, app, fiber.MethodPost, "/profile", cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "renamed", body)

	// Subsequent requests see the merged record.
	_, body = do(t, app, fiber.MethodGet, "/state", cookie)
	assert.Equal(t, "authenticated alice@example.com", body)
}

func TestUpdateProfileRequiresAuth(t *testing.T) {
	app, _ := newTestApp(&fakeAuthAPI{})

	resp, _ := do(t, app, fiber.MethodPost, "/profile", "")
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestUpdateProfileFailureKeepsSession(t *testing.T) {
	user := testUser()
	svc := &fakeAuthAPI{
		loginResp:  &models.LoginResponse{Token: "tok-1", User: *user},
		usersByTok: map[string]*models.User{"tok-1": user},
		updateErr:  &api.APIError{Kind: api.KindValidation, Status: 422, Message: "Username taken"},
	}
	app, _ := newTestApp(svc)

	resp, _ := do(t, app, fiber.MethodPost, "/login", "")
	cookie := sessionCookie(resp)

	resp, body := do(t, app, fiber.MethodPost, "/profile", cookie)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Username taken", body)

	_, body = do(t, app, fiber.MethodGet, "/state", cookie)
	assert.Equal(t, "authenticated alice@example.com", body)
}

func TestSessionStates(t *testing.T) {
	assert.True(t, authenticated(testUser(), "tok").IsAuthenticated())
	assert.False(t, unauthenticated("").IsAuthenticated())
	assert.False(t, loading().IsAuthenticated())
	assert.False(t, Session{State: StateAuthenticated}.IsAuthenticated(), "authenticated state without identity is invalid")

	admin := testUser()
	admin.Role = models.RoleAdmin
	assert.True(t, authenticated(admin, "tok").IsAdmin())
	assert.False(t, authenticated(testUser(), "tok").IsAdmin())

	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
}
