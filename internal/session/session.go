// Package session carries per-request identity as an explicit value instead
// of ambient global state. A Session is built once from the incoming request
// and handed to every command that needs it.
package session

import "strings"

type Session struct {
	UserID string
	Token  string
}

// Authenticated reports whether the session carries a usable token. Commands
// for bid and transfer operations fail before any network call when it is
// false.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.UserID != ""
}

// FromAuthorization parses a bearer Authorization header value. The user id
// travels in a companion header; token verification is the collaborators'
// concern, not the gateway's.
func FromAuthorization(authorization, userID string) Session {
	const prefix = "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		return Session{}
	}
	return Session{UserID: userID, Token: strings.TrimPrefix(authorization, prefix)}
}
