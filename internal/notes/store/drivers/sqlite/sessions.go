package sqlite

import (
	"context"
	"time"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/store"
)

type sessionsRepo struct {
	q querier
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sessions (id, token_hash, username, csrf_token, flash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.TokenHash, s.Username, s.CSRFToken, s.Flash, s.ExpiresAt, s.CreatedAt,
	)
	return mapConflict(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, token_hash, username, csrf_token, flash, expires_at, created_at
		FROM sessions
		WHERE token_hash = ?`, tokenHash)

	var s domain.Session
	err := row.Scan(&s.ID, &s.TokenHash, &s.Username, &s.CSRFToken, &s.Flash, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) DeleteSessionsForUser(ctx context.Context, username string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE username = ?`, username)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, now)
	return err
}

func (r *sessionsRepo) UpdateSessionFlash(ctx context.Context, id string, flash string) error {
	res, err := r.q.ExecContext(ctx, `UPDATE sessions SET flash = ? WHERE id = ?`, flash, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
