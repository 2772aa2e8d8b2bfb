package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"notesweb/config"
	"notesweb/handlers/api"
	"notesweb/models"
	"notesweb/utils"
)

// Session store keys.
const (
	keyToken      = "token"       // sealed API bearer token
	keySessionJWT = "session_jwt" // front-end's own signed claims
	keyAuthError  = "auth_error"  // last auth failure message
)

// Fallback messages when the API error body carries none.
const (
	msgLoginFailed    = "Login failed"
	msgRegisterFailed = "Registration failed"
	msgUpdateFailed   = "Profile update failed"
	msgAuthFailed     = "Authentication failed"
)

// userCacheTTL bounds how long a resolved user rides along without a
// fresh GET /users/profile. Role or profile changes made on the service
// side take at most this long to show up here; a revoked token is caught
// no later than the next refetch.
const userCacheTTL = 5 * time.Minute

// Manager is the single source of truth for "who is logged in" within a
// browser session. It owns the persisted token, the resolved user and the
// last auth error; handlers drive it and render what it returns.
type Manager struct {
	store  *session.Store
	svc    Service
	config *config.Config
	users  *utils.MemoryCache
}

// NewManager creates a session manager on top of the fiber session store.
func NewManager(store *session.Store, svc Service, cfg *config.Config) *Manager {
	return &Manager{
		store:  store,
		svc:    svc,
		config: cfg,
		users:  utils.NewMemoryCache(),
	}
}

// Token returns the API bearer token for the request's session, or "".
func (m *Manager) Token(c *fiber.Ctx) string {
	sess, err := m.store.Get(c)
	if err != nil {
		return ""
	}
	return m.unsealToken(sess)
}

// Current returns the session state without touching the remote service.
// A persisted token whose user is not cached yields StateLoading; Resolve
// settles it.
func (m *Manager) Current(c *fiber.Ctx) Session {
	sess, err := m.store.Get(c)
	if err != nil {
		return unauthenticated("")
	}

	errMsg, _ := sess.Get(keyAuthError).(string)

	token := m.unsealToken(sess)
	if token == "" {
		return unauthenticated(errMsg)
	}

	if cached, ok := m.users.Get(token); ok {
		if user, ok := cached.(*models.User); ok {
			s := authenticated(user, token)
			s.Error = errMsg
			return s
		}
	}
	return loading()
}

// Resolve settles the session state, fetching the current user from the
// remote service when a persisted token has not been resolved yet. A token
// the service no longer accepts downgrades the session to unauthenticated.
func (m *Manager) Resolve(c *fiber.Ctx) Session {
	current := m.Current(c)
	if current.State != StateLoading {
		return current
	}

	token := m.Token(c)
	user, err := m.svc.CurrentUser(token)
	if err != nil {
		utils.Log.Warn("Session reload failed: %v", err)
		m.clearSession(c)
		return unauthenticated(api.Message(err, msgAuthFailed))
	}

	m.users.Set(token, user, userCacheTTL)
	return authenticated(user, token)
}

// Login exchanges credentials for a token and persists both halves of the
// identity together. On failure the session stays unauthenticated and the
// returned session carries the error message.
func (m *Manager) Login(c *fiber.Ctx, creds models.Credentials) Session {
	resp, err := m.svc.Login(creds)
	if err != nil {
		utils.Log.Info("Login rejected for %s: %v", creds.Email, err)
		return unauthenticated(api.Message(err, msgLoginFailed))
	}

	user := resp.User
	if err := m.persistSession(c, resp.Token, &user); err != nil {
		utils.Log.Error("Failed to persist session: %v", err)
		return unauthenticated("Failed to create session")
	}

	m.users.Set(resp.Token, &user, userCacheTTL)
	return authenticated(&user, resp.Token)
}

// Register creates an account. Registration does not authenticate; the
// caller redirects to the login page on success.
func (m *Manager) Register(c *fiber.Ctx, reg models.Registration) error {
	if err := m.svc.Register(reg); err != nil {
		utils.Log.Info("Registration rejected for %s: %v", reg.Email, err)
		return utils.BadRequestError(api.Message(err, msgRegisterFailed), err)
	}
	return nil
}

// Logout clears the persisted token and resolved user together. Calling
// it on an unauthenticated session is a no-op.
func (m *Manager) Logout(c *fiber.Ctx) {
	m.clearSession(c)
}

// UpdateProfile sends the changed fields and merges the response into the
// session's user record. The session itself is untouched on failure.
func (m *Manager) UpdateProfile(c *fiber.Ctx, update models.ProfileUpdate) (Session, error) {
	current := m.Resolve(c)
	if !current.IsAuthenticated() {
		return current, utils.UnauthorizedError("Not logged in", nil)
	}

	user, err := m.svc.UpdateProfile(current.Token, update)
	if err != nil {
		current.Error = api.Message(err, msgUpdateFailed)
		return current, err
	}

	m.users.Set(current.Token, user, userCacheTTL)

	// Refresh the signed claims; username, email or role may have moved.
	if sess, serr := m.store.Get(c); serr == nil {
		if jwtStr, jerr := api.GenerateToken(user, m.config.JWT.Secret, m.config.Session.SessionExpiration()); jerr == nil {
			sess.Set(keySessionJWT, jwtStr)
			if err := sess.Save(); err != nil {
				utils.Log.Warn("Failed to refresh session claims: %v", err)
			}
		}
	}

	return authenticated(user, current.Token), nil
}

// ClearError drops the stored auth error without touching the rest of the
// session.
func (m *Manager) ClearError(c *fiber.Ctx) {
	sess, err := m.store.Get(c)
	if err != nil {
		return
	}
	sess.Delete(keyAuthError)
	if err := sess.Save(); err != nil {
		utils.Log.Warn("Failed to clear auth error: %v", err)
	}
}

// RememberError stores an auth error so it survives a redirect.
func (m *Manager) RememberError(c *fiber.Ctx, msg string) {
	sess, err := m.store.Get(c)
	if err != nil {
		return
	}
	sess.Set(keyAuthError, msg)
	if err := sess.Save(); err != nil {
		utils.Log.Warn("Failed to store auth error: %v", err)
	}
}

// Claims returns the front-end's signed session claims, if present and
// still valid.
func (m *Manager) Claims(c *fiber.Ctx) (*api.SessionClaims, bool) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, false
	}
	jwtStr, _ := sess.Get(keySessionJWT).(string)
	if jwtStr == "" {
		return nil, false
	}
	claims, err := api.ValidateToken(jwtStr, m.config.JWT.Secret)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (m *Manager) persistSession(c *fiber.Ctx, token string, user *models.User) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}

	sealed, err := utils.SealToken(token, m.config.Encryption.Key)
	if err != nil {
		return err
	}

	jwtStr, err := api.GenerateToken(user, m.config.JWT.Secret, m.config.Session.SessionExpiration())
	if err != nil {
		return err
	}

	sess.Set(keyToken, sealed)
	sess.Set(keySessionJWT, jwtStr)
	sess.Delete(keyAuthError)
	sess.SetExpiry(m.config.Session.SessionExpiration())

	return sess.Save()
}

func (m *Manager) clearSession(c *fiber.Ctx) {
	sess, err := m.store.Get(c)
	if err != nil {
		return
	}
	if token := m.unsealToken(sess); token != "" {
		m.users.Delete(token)
	}
	if err := sess.Destroy(); err != nil {
		utils.Log.Warn("Failed to destroy session: %v", err)
	}
}

func (m *Manager) unsealToken(sess *session.Session) string {
	sealed, _ := sess.Get(keyToken).(string)
	if sealed == "" {
		return ""
	}
	token, err := utils.OpenToken(sealed, m.config.Encryption.Key)
	if err != nil {
		utils.Log.Warn("Failed to unseal stored token: %v", err)
		return ""
	}
	return token
}
