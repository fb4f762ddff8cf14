package domain

import "time"

// Session is one browser's authenticated continuity. The cookie carries a
// raw random token; only its SHA-256 fingerprint is stored here. A session
// binds exactly one username, so at most one identity exists per session.
type Session struct {
	ID        string // ULID
	TokenHash string // fingerprint of the cookie token
	Username  string // the authenticated identity
	CSRFToken string // per-session anti-forgery secret
	Flash     string // pending one-shot message, empty when none
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its TTL at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
