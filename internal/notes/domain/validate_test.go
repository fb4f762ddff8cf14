package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func validRegisterParams() RegisterParams {
	return RegisterParams{
		Username:  "kim",
		Password:  "hunter2",
		Email:     "k@x.com",
		FirstName: "Kim",
		LastName:  "Lee",
	}
}

func TestRegisterParamsValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts valid params", func(t *testing.T) {
		require.Empty(t, validRegisterParams().Validate())
	})

	t.Run("flags every missing field", func(t *testing.T) {
		errs := RegisterParams{}.Validate()
		for _, field := range []string{"username", "password", "email", "first_name", "last_name"} {
			require.Equal(t, "is required", errs.For(field))
		}
	})

	t.Run("enforces length bounds", func(t *testing.T) {
		p := validRegisterParams()
		p.Username = strings.Repeat("u", 21)
		p.Email = "a@" + strings.Repeat("x", 50)
		p.FirstName = "K"

		errs := p.Validate()
		require.Equal(t, "must be at most 20 characters", errs.For("username"))
		require.Equal(t, "must be at most 50 characters", errs.For("email"))
		require.Equal(t, "must be at least 2 characters", errs.For("first_name"))
		require.Empty(t, errs.For("password"))
	})

	t.Run("bounds count characters, not bytes", func(t *testing.T) {
		p := validRegisterParams()
		p.Username = strings.Repeat("愛", 20) // 60 bytes, 20 characters
		require.Empty(t, p.Validate().For("username"))

		p.Username = strings.Repeat("愛", 21)
		require.Equal(t, "must be at most 20 characters", p.Validate().For("username"))

		p = validRegisterParams()
		p.FirstName = "愛"
		require.Equal(t, "must be at least 2 characters", p.Validate().For("first_name"))
	})

	t.Run("rejects malformed emails", func(t *testing.T) {
		for _, bad := range []string{"nope", "@x.com", "k@", "a@b@c", "has space@x.com"} {
			p := validRegisterParams()
			p.Email = bad
			require.NotEmpty(t, p.Validate().For("email"), "email: %q", bad)
		}
	})
}

func TestNoteParamsValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts valid params", func(t *testing.T) {
		errs := NoteParams{Title: "groceries", Content: "milk"}.Validate()
		require.Empty(t, errs)
	})

	t.Run("requires title and content", func(t *testing.T) {
		errs := NoteParams{}.Validate()
		require.Equal(t, "is required", errs.For("title"))
		require.Equal(t, "is required", errs.For("content"))
	})

	t.Run("caps title length", func(t *testing.T) {
		errs := NoteParams{Title: strings.Repeat("t", 101), Content: "x"}.Validate()
		require.Equal(t, "must be at most 100 characters", errs.For("title"))
	})

	t.Run("title cap counts characters, not bytes", func(t *testing.T) {
		errs := NoteParams{Title: strings.Repeat("愛", 100), Content: "x"}.Validate()
		require.Empty(t, errs)

		errs = NoteParams{Title: strings.Repeat("愛", 101), Content: "x"}.Validate()
		require.Equal(t, "must be at most 100 characters", errs.For("title"))
	})
}
