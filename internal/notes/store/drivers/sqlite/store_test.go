package sqlite_test

import (
	"context"
	"testing"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/store"
	"github.com/openbracket/notes/internal/notes/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func testUser(username string) domain.User {
	return domain.User{
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
	}
}

func TestConstraintErrorMapping(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Users().CreateUser(ctx, testUser("kim")))

	t.Run("duplicate rows map to ErrAlreadyExists", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, testUser("kim"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("check violations stay internal errors", func(t *testing.T) {
		// Domain validation keeps this out in practice; if it ever reaches
		// the schema it must not masquerade as a conflict.
		err := st.Users().CreateUser(ctx, testUser("x"))
		require.Error(t, err)
		require.NotErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("foreign key violations stay internal errors", func(t *testing.T) {
		_, err := st.Notes().CreateNote(ctx, domain.Note{
			Title:         "orphan",
			Content:       "no such owner",
			OwnerUsername: "ghost",
		})
		require.Error(t, err)
		require.NotErrorIs(t, err, store.ErrAlreadyExists)
	})
}
