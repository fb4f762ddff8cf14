package service

import (
	"context"
	"errors"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/store"
	"github.com/openbracket/notes/pkg/slogx"
)

// ErrNotOwner is returned when the acting identity does not own the note it
// is trying to read for editing, update, or delete.
var ErrNotOwner = errors.New("note belongs to a different user")

type NoteService struct {
	Store store.Store
}

// CreateNote validates the form fields and inserts a note owned by owner.
func (s *NoteService) CreateNote(ctx context.Context, owner string, p domain.NoteParams) (domain.Note, error) {
	log := slogx.FromContext(ctx)

	if errs := p.Validate(); len(errs) > 0 {
		return domain.Note{}, errs
	}

	note, err := s.Store.Notes().CreateNote(ctx, domain.Note{
		Title:         p.Title,
		Content:       p.Content,
		OwnerUsername: owner,
	})
	if err != nil {
		log.Error("failed to create note", "owner", owner, "error", err)
		return domain.Note{}, err
	}

	log.Info("note created", "note_id", note.ID, "owner", owner)
	return note, nil
}

// GetNoteForOwner fetches a note and enforces that actor owns it. Ownership
// is resolved from the stored owner_username, never from anything the
// request supplied, so guessing note ids gains nothing.
func (s *NoteService) GetNoteForOwner(ctx context.Context, id int64, actor string) (domain.Note, error) {
	note, err := s.Store.Notes().GetNoteByID(ctx, id)
	if err != nil {
		return domain.Note{}, err
	}
	if note.OwnerUsername != actor {
		return domain.Note{}, ErrNotOwner
	}
	return note, nil
}

// UpdateNote replaces title and content after re-checking ownership inside
// the same transaction as the write.
func (s *NoteService) UpdateNote(ctx context.Context, id int64, actor string, p domain.NoteParams) (domain.Note, error) {
	if errs := p.Validate(); len(errs) > 0 {
		return domain.Note{}, errs
	}

	var updated domain.Note
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		note, err := tx.Notes().GetNoteByID(ctx, id)
		if err != nil {
			return err
		}
		if note.OwnerUsername != actor {
			return ErrNotOwner
		}
		if err := tx.Notes().UpdateNote(ctx, id, p.Title, p.Content); err != nil {
			return err
		}
		note.Title = p.Title
		note.Content = p.Content
		updated = note
		return nil
	})
	if err != nil {
		return domain.Note{}, err
	}

	slogx.FromContext(ctx).Info("note updated", "note_id", id, "owner", actor)
	return updated, nil
}

// DeleteNote removes a note after re-checking ownership inside the
// transaction.
func (s *NoteService) DeleteNote(ctx context.Context, id int64, actor string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		note, err := tx.Notes().GetNoteByID(ctx, id)
		if err != nil {
			return err
		}
		if note.OwnerUsername != actor {
			return ErrNotOwner
		}
		return tx.Notes().DeleteNote(ctx, id)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("note deleted", "note_id", id, "owner", actor)
	return nil
}
