package store

import (
	"context"
	"errors"
	"time"

	"github.com/openbracket/notes/internal/notes/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Notes() Notes
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step mutations atomically.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByUsername returns a user by its primary key.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user. Returns ErrAlreadyExists when the
	// username or email uniqueness constraint fires; that constraint is the
	// concurrency-safety mechanism for duplicate-registration races.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser removes a user; notes and sessions follow via ON DELETE
	// CASCADE. Returns ErrNotFound when no such user exists.
	DeleteUser(ctx context.Context, username string) error
}

type Notes interface {
	// CreateNote inserts a note and returns it with the assigned id.
	CreateNote(ctx context.Context, n domain.Note) (domain.Note, error)

	// GetNoteByID returns a note by id, including its owner.
	GetNoteByID(ctx context.Context, id int64) (domain.Note, error)

	// ListNotesByOwner returns the owner's notes, newest first.
	ListNotesByOwner(ctx context.Context, username string) ([]domain.Note, error)

	// UpdateNote replaces title and content and bumps updated_at.
	UpdateNote(ctx context.Context, id int64, title, content string) error

	// DeleteNote removes a note. Returns ErrNotFound when no such note exists.
	DeleteNote(ctx context.Context, id int64) error

	// CountNotesByOwner reports how many notes the owner has.
	CountNotesByOwner(ctx context.Context, username string) (int64, error)
}

type Sessions interface {
	// CreateSession inserts a new session row.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash looks up a session by cookie-token fingerprint.
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)

	// DeleteSession removes a session by id.
	DeleteSession(ctx context.Context, id string) error

	// DeleteSessionsForUser removes every session bound to the username.
	DeleteSessionsForUser(ctx context.Context, username string) error

	// DeleteExpiredSessions removes sessions whose expiry has passed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) error

	// UpdateSessionFlash sets the pending flash message (empty clears it).
	UpdateSessionFlash(ctx context.Context, id string, flash string) error
}
