package domain

import (
	"strings"
	"time"
)

// Field length constraints for user registration. The schema repeats these
// as CHECK constraints so a buggy caller cannot bypass them.
const (
	UsernameMinLen  = 2
	UsernameMaxLen  = 20
	PasswordMinLen  = 2
	PasswordMaxLen  = 100
	EmailMinLen     = 2
	EmailMaxLen     = 50
	NameMinLen      = 2
	NameMaxLen      = 30
)

type User struct {
	Username     string // primary key, immutable after creation
	PasswordHash string // argon2id PHC string, never the plaintext
	Email        string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterParams carries the raw registration form fields. The plaintext
// password lives only here; it is hashed and discarded before a User exists.
type RegisterParams struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// Validate checks field constraints and returns one FieldError per violation.
// No errors means the params are acceptable; uniqueness of username/email is
// the store's job.
func (p RegisterParams) Validate() FieldErrors {
	var errs FieldErrors

	errs = appendLengthError(errs, "username", p.Username, UsernameMinLen, UsernameMaxLen)
	errs = appendLengthError(errs, "password", p.Password, PasswordMinLen, PasswordMaxLen)
	errs = appendLengthError(errs, "email", p.Email, EmailMinLen, EmailMaxLen)
	errs = appendLengthError(errs, "first_name", p.FirstName, NameMinLen, NameMaxLen)
	errs = appendLengthError(errs, "last_name", p.LastName, NameMinLen, NameMaxLen)

	if p.Email != "" && !looksLikeEmail(p.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "must be a valid email address"})
	}

	return errs
}

// looksLikeEmail applies the same loose shape check an HTML email input
// performs: something@something, no spaces.
func looksLikeEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	if strings.IndexByte(s[at+1:], '@') >= 0 {
		return false
	}
	return !strings.ContainsAny(s, " \t")
}
