package service

import (
	"context"
	"errors"
	"time"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/store"
	"github.com/openbracket/notes/pkg/cryptox"
	"github.com/openbracket/notes/pkg/idx"
	"github.com/openbracket/notes/pkg/slogx"
)

// ErrNoSession is returned when a cookie token resolves to nothing: unknown,
// expired, or revoked. Callers treat the request as anonymous.
var ErrNoSession = errors.New("no valid session")

const DefaultSessionTTL = 24 * time.Hour

// SessionService maps opaque browser tokens to authenticated identities.
// A session is created only after Register or Authenticate succeeds, and is
// destroyed on logout or user deletion; those are the only transitions.
type SessionService struct {
	Store store.Store
	TTL   time.Duration
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSessionTTL
	}
	return s.TTL
}

// Create issues a fresh session for username and returns it along with the
// raw cookie token. Any previous sessions for the user are dropped in the
// same transaction, so a login supersedes older browser sessions.
func (s *SessionService) Create(ctx context.Context, username string) (domain.Session, string, error) {
	log := slogx.FromContext(ctx)

	rawToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Session{}, "", err
	}
	csrfToken, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return domain.Session{}, "", err
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(rawToken),
		Username:  username,
		CSRFToken: csrfToken,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().DeleteSessionsForUser(ctx, username); err != nil {
			return err
		}
		return tx.Sessions().CreateSession(ctx, session)
	})
	if err != nil {
		log.Error("failed to create session", "username", username, "error", err)
		return domain.Session{}, "", err
	}

	log.Debug("session created", "session_id", session.ID, "username", username)
	return session, rawToken, nil
}

// Resolve maps a raw cookie token to its session. Expired rows are deleted
// on sight and reported as ErrNoSession.
func (s *SessionService) Resolve(ctx context.Context, rawToken string) (domain.Session, error) {
	if rawToken == "" {
		return domain.Session{}, ErrNoSession
	}

	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(rawToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrNoSession
		}
		return domain.Session{}, err
	}

	if session.Expired(time.Now().UTC()) {
		_ = s.Store.Sessions().DeleteSession(ctx, session.ID)
		return domain.Session{}, ErrNoSession
	}

	return session, nil
}

// Destroy removes the session the raw token points at. Destroying an
// already-gone session is not an error; logout must be idempotent.
func (s *SessionService) Destroy(ctx context.Context, rawToken string) error {
	session, err := s.Resolve(ctx, rawToken)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil
		}
		return err
	}

	if err := s.Store.Sessions().DeleteSession(ctx, session.ID); err != nil &&
		!errors.Is(err, store.ErrNotFound) {
		return err
	}

	slogx.FromContext(ctx).Debug("session destroyed", "session_id", session.ID)
	return nil
}

// SetFlash stores a one-shot message on the session, shown on the next page
// the user renders.
func (s *SessionService) SetFlash(ctx context.Context, sessionID, message string) error {
	return s.Store.Sessions().UpdateSessionFlash(ctx, sessionID, message)
}

// TakeFlash returns the pending flash message and clears it. Returns "" when
// there is nothing to show.
func (s *SessionService) TakeFlash(ctx context.Context, session domain.Session) (string, error) {
	if session.Flash == "" {
		return "", nil
	}
	if err := s.Store.Sessions().UpdateSessionFlash(ctx, session.ID, ""); err != nil &&
		!errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	return session.Flash, nil
}

// VerifyCSRF compares a presented anti-forgery token against the session's
// token in constant time.
func (s *SessionService) VerifyCSRF(session domain.Session, presented string) bool {
	return presented != "" && cryptox.TokensEqual(session.CSRFToken, presented)
}
