package service_test

import (
	"context"
	"testing"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/service"
	"github.com/openbracket/notes/internal/notes/store"
	"github.com/stretchr/testify/require"
)

func TestCreateNote(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	auth := &service.AuthService{Store: st}
	notes := &service.NoteService{Store: st}

	registerTestUser(t, auth, "kim")

	t.Run("assigns id and owner", func(t *testing.T) {
		note, err := notes.CreateNote(ctx, "kim", domain.NoteParams{
			Title:   "Groceries",
			Content: "milk, eggs",
		})
		require.NoError(t, err)
		require.NotZero(t, note.ID)
		require.Equal(t, "kim", note.OwnerUsername)

		got, err := notes.GetNoteForOwner(ctx, note.ID, "kim")
		require.NoError(t, err)
		require.Equal(t, "Groceries", got.Title)
		require.Equal(t, "milk, eggs", got.Content)
	})

	t.Run("rejects empty fields", func(t *testing.T) {
		_, err := notes.CreateNote(ctx, "kim", domain.NoteParams{})
		var fieldErrs domain.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.NotEmpty(t, fieldErrs.For("title"))
		require.NotEmpty(t, fieldErrs.For("content"))
	})
}

func TestNoteOwnership(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	auth := &service.AuthService{Store: st}
	notes := &service.NoteService{Store: st}

	registerTestUser(t, auth, "kim")
	registerTestUser(t, auth, "sam")

	kimsNote, err := notes.CreateNote(ctx, "kim", domain.NoteParams{
		Title:   "Private",
		Content: "kim only",
	})
	require.NoError(t, err)

	update := domain.NoteParams{Title: "Taken over", Content: "changed"}

	t.Run("other users cannot read for editing", func(t *testing.T) {
		_, err := notes.GetNoteForOwner(ctx, kimsNote.ID, "sam")
		require.ErrorIs(t, err, service.ErrNotOwner)
	})

	t.Run("other users cannot update", func(t *testing.T) {
		_, err := notes.UpdateNote(ctx, kimsNote.ID, "sam", update)
		require.ErrorIs(t, err, service.ErrNotOwner)

		got, err := notes.GetNoteForOwner(ctx, kimsNote.ID, "kim")
		require.NoError(t, err)
		require.Equal(t, "Private", got.Title)
	})

	t.Run("other users cannot delete", func(t *testing.T) {
		err := notes.DeleteNote(ctx, kimsNote.ID, "sam")
		require.ErrorIs(t, err, service.ErrNotOwner)

		_, err = notes.GetNoteForOwner(ctx, kimsNote.ID, "kim")
		require.NoError(t, err)
	})

	t.Run("owner can update and delete", func(t *testing.T) {
		updated, err := notes.UpdateNote(ctx, kimsNote.ID, "kim", update)
		require.NoError(t, err)
		require.Equal(t, "Taken over", updated.Title)

		require.NoError(t, notes.DeleteNote(ctx, kimsNote.ID, "kim"))

		_, err = notes.GetNoteForOwner(ctx, kimsNote.ID, "kim")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("missing note reports not found", func(t *testing.T) {
		_, err := notes.GetNoteForOwner(ctx, 999999, "kim")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	auth := &service.AuthService{Store: st}
	notes := &service.NoteService{Store: st}
	users := &service.UserService{Store: st}
	sessions := &service.SessionService{Store: st}

	registerTestUser(t, auth, "kim")
	registerTestUser(t, auth, "sam")

	for _, title := range []string{"one", "two", "three"} {
		_, err := notes.CreateNote(ctx, "kim", domain.NoteParams{Title: title, Content: "body"})
		require.NoError(t, err)
	}
	samsNote, err := notes.CreateNote(ctx, "sam", domain.NoteParams{Title: "keep", Content: "body"})
	require.NoError(t, err)

	_, kimToken, err := sessions.Create(ctx, "kim")
	require.NoError(t, err)

	require.NoError(t, users.DeleteUser(ctx, "kim"))

	_, err = users.GetUserByUsername(ctx, "kim")
	require.ErrorIs(t, err, store.ErrNotFound)

	count, err := st.Notes().CountNotesByOwner(ctx, "kim")
	require.NoError(t, err)
	require.Zero(t, count, "deleting a user must delete every note they own")

	_, err = sessions.Resolve(ctx, kimToken)
	require.ErrorIs(t, err, service.ErrNoSession)

	// The other user's data is untouched.
	got, err := notes.GetNoteForOwner(ctx, samsNote.ID, "sam")
	require.NoError(t, err)
	require.Equal(t, "keep", got.Title)
}

func TestGetUserWithNotes(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	auth := &service.AuthService{Store: st}
	notes := &service.NoteService{Store: st}
	users := &service.UserService{Store: st}

	registerTestUser(t, auth, "kim")

	first, err := notes.CreateNote(ctx, "kim", domain.NoteParams{Title: "older", Content: "a"})
	require.NoError(t, err)
	second, err := notes.CreateNote(ctx, "kim", domain.NoteParams{Title: "newer", Content: "b"})
	require.NoError(t, err)

	user, list, err := users.GetUserWithNotes(ctx, "kim")
	require.NoError(t, err)
	require.Equal(t, "kim", user.Username)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID, "notes are listed newest first")
	require.Equal(t, first.ID, list[1].ID)
}
