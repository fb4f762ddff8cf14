package service_test

import (
	"context"
	"testing"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/service"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	auth := &service.AuthService{Store: st}

	t.Run("creates user with hashed password", func(t *testing.T) {
		user, err := auth.Register(ctx, domain.RegisterParams{
			Username:  "kim",
			Password:  "hunter2",
			Email:     "k@x.com",
			FirstName: "Kim",
			LastName:  "Lee",
		})
		require.NoError(t, err)
		require.Equal(t, "kim", user.Username)
		require.NotEqual(t, "hunter2", user.PasswordHash,
			"stored credential must never equal the plaintext")
		require.Contains(t, user.PasswordHash, "$argon2id$")

		stored, err := st.Users().GetUserByUsername(ctx, "kim")
		require.NoError(t, err)
		require.Equal(t, user.PasswordHash, stored.PasswordHash)
	})

	t.Run("rejects invalid fields with per-field errors", func(t *testing.T) {
		_, err := auth.Register(ctx, domain.RegisterParams{
			Username: "x",
			Password: "hunter2",
			Email:    "not-an-email",
		})
		var fieldErrs domain.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.NotEmpty(t, fieldErrs.For("username"))
		require.NotEmpty(t, fieldErrs.For("email"))
		require.NotEmpty(t, fieldErrs.For("first_name"))
	})

	t.Run("measures field lengths in characters, not bytes", func(t *testing.T) {
		// A one-character multibyte username is a length violation, not a
		// uniqueness conflict; it must never reach the store.
		_, err := auth.Register(ctx, domain.RegisterParams{
			Username:  "愛",
			Password:  "hunter2",
			Email:     "ai@example.com",
			FirstName: "Ai",
			LastName:  "Ito",
		})
		var fieldErrs domain.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.Equal(t, "must be at least 2 characters", fieldErrs.For("username"))

		// Three multibyte characters (nine bytes) are within the 2–20 bound.
		user, err := auth.Register(ctx, domain.RegisterParams{
			Username:  "愛犬家",
			Password:  "hunter2",
			Email:     "aikenka@example.com",
			FirstName: "Ai",
			LastName:  "Ito",
		})
		require.NoError(t, err)
		require.Equal(t, "愛犬家", user.Username)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, err := auth.Register(ctx, domain.RegisterParams{
			Username:  "kim",
			Password:  "other",
			Email:     "other@x.com",
			FirstName: "Other",
			LastName:  "Person",
		})
		require.ErrorIs(t, err, service.ErrUsernameTaken)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := auth.Register(ctx, domain.RegisterParams{
			Username:  "notkim",
			Password:  "other",
			Email:     "k@x.com",
			FirstName: "Other",
			LastName:  "Person",
		})
		require.ErrorIs(t, err, service.ErrEmailTaken)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	auth := &service.AuthService{Store: st}

	registerTestUser(t, auth, "kim")

	t.Run("accepts the original plaintext", func(t *testing.T) {
		user, err := auth.Authenticate(ctx, "kim", "hunter2")
		require.NoError(t, err)
		require.Equal(t, "kim", user.Username)
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		// Wrong password for an existing user and any password for a missing
		// user must produce the identical error value.
		_, wrongPassErr := auth.Authenticate(ctx, "kim", "wrong")
		_, noUserErr := auth.Authenticate(ctx, "ghost", "hunter2")

		require.ErrorIs(t, wrongPassErr, service.ErrInvalidCredentials)
		require.ErrorIs(t, noUserErr, service.ErrInvalidCredentials)
		require.Equal(t, wrongPassErr.Error(), noUserErr.Error())
	})
}
