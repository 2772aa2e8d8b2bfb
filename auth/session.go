// Package auth holds the client-side belief about who is logged in.
// All real authority lives in the remote notes service; this package only
// tracks the token it issued and the user record it returned.
package auth

import (
	"notesweb/models"
)

// State is the session lifecycle state. A session is Loading while a
// persisted token exists but the user behind it has not been resolved yet.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}

// Session is the resolved view of a browser session. User and Token are
// set and cleared together; an Authenticated session always carries both.
type Session struct {
	State State
	User  *models.User
	Token string
	Error string
}

// IsAuthenticated reports whether the session carries a verified identity.
func (s Session) IsAuthenticated() bool {
	return s.State == StateAuthenticated && s.User != nil && s.Token != ""
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.IsAdmin()
}

func loading() Session {
	return Session{State: StateLoading}
}

func unauthenticated(errMsg string) Session {
	return Session{State: StateUnauthenticated, Error: errMsg}
}

func authenticated(user *models.User, token string) Session {
	return Session{State: StateAuthenticated, User: user, Token: token}
}
