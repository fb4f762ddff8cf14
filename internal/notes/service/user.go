package service

import (
	"context"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/store"
	"github.com/openbracket/notes/pkg/slogx"
)

type UserService struct {
	Store store.Store
}

// GetUserByUsername fetches a user by username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.Store.Users().GetUserByUsername(ctx, username)
}

// GetUserWithNotes fetches a user together with their notes, newest first.
func (s *UserService) GetUserWithNotes(ctx context.Context, username string) (domain.User, []domain.Note, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, nil, err
	}

	notes, err := s.Store.Notes().ListNotesByOwner(ctx, username)
	if err != nil {
		return domain.User{}, nil, err
	}

	return user, notes, nil
}

// DeleteUser removes the user, revokes their sessions, and through the
// schema's cascade removes every note they own. Runs in a single transaction
// so either everything disappears or nothing does.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().DeleteSessionsForUser(ctx, username); err != nil {
			return err
		}
		return tx.Users().DeleteUser(ctx, username)
	})
	if err != nil {
		return err
	}

	log.Info("user deleted", "username", username)
	return nil
}
