package service

import (
	"context"
	"errors"
	"sync"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/store"
	"github.com/openbracket/notes/pkg/cryptox"
	"github.com/openbracket/notes/pkg/slogx"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")

	// ErrInvalidCredentials is the single failure for authentication. The
	// caller never learns whether the username exists or the password was
	// wrong, which blocks username enumeration.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService owns the password-credential lifecycle: hashing on
// registration, verification on login.
type AuthService struct {
	Store store.Store
}

// Register validates the form fields, hashes the password, and creates the
// user. The plaintext password is discarded as soon as the hash exists.
// Returns domain.FieldErrors for constraint violations and
// ErrUsernameTaken/ErrEmailTaken for uniqueness conflicts.
func (s *AuthService) Register(ctx context.Context, p domain.RegisterParams) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if errs := p.Validate(); len(errs) > 0 {
		return domain.User{}, errs
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	user := domain.User{
		Username:     p.Username,
		PasswordHash: hash,
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// The uniqueness constraint fired; figure out which field so the
			// form can say so. A lost race here still reports correctly
			// because the winning row is visible by now.
			if _, lookupErr := s.Store.Users().GetUserByUsername(ctx, p.Username); lookupErr == nil {
				return domain.User{}, ErrUsernameTaken
			}
			return domain.User{}, ErrEmailTaken
		}
		log.Error("failed to create user", "username", p.Username, "error", err)
		return domain.User{}, err
	}

	log.Info("user registered", "username", p.Username)
	return user, nil
}

// Authenticate verifies a username/password pair. On success it returns the
// user; any failure returns ErrInvalidCredentials. When the username does
// not exist a decoy hash is still verified so the response time does not
// reveal which half of the pair was wrong.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, decoyHash())
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

var decoyHash = sync.OnceValue(func() string {
	h, err := cryptox.HashPassword("decoy-password-for-timing")
	if err != nil {
		// Without a decoy we would leak user existence through timing.
		panic("service: failed to generate decoy hash: " + err.Error())
	}
	return h
})
