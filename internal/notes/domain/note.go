package domain

import (
	"time"
	"unicode/utf8"
)

const TitleMaxLen = 100

type Note struct {
	ID            int64
	Title         string
	Content       string
	OwnerUsername string // foreign key to User.Username
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NoteParams carries the note form fields for both create and update.
type NoteParams struct {
	Title   string
	Content string
}

func (p NoteParams) Validate() FieldErrors {
	var errs FieldErrors

	if p.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "is required"})
	} else if utf8.RuneCountInString(p.Title) > TitleMaxLen {
		errs = append(errs, FieldError{Field: "title", Message: "must be at most 100 characters"})
	}

	if p.Content == "" {
		errs = append(errs, FieldError{Field: "content", Message: "is required"})
	}

	return errs
}
