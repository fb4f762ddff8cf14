package http

import (
	"errors"
	"net/http"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/service"
	"github.com/openbracket/notes/internal/notes/store"
	"github.com/openbracket/notes/pkg/httpx"
	"github.com/openbracket/notes/pkg/slogx"
)

type ProfileHandler struct {
	UserService    *service.UserService
	SessionService *service.SessionService
}

type profilePageData struct {
	baseData
	User  domain.User
	Notes []domain.Note
}

// ServeHTTP shows a user's profile and notes. Only the owner may view it.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	session, ok := authorize(w, r, h.SessionService, username)
	if !ok {
		return
	}

	user, notes, err := h.UserService.GetUserWithNotes(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slogx.FromContext(r.Context()).Error("failed to load profile", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	flash, err := h.SessionService.TakeFlash(r.Context(), session)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to take flash", "error", err)
	}

	render(w, r, http.StatusOK, "profile", profilePageData{
		baseData: baseData{
			CurrentUser: session.Username,
			CSRFToken:   session.CSRFToken,
			Flash:       flash,
		},
		User:  user,
		Notes: notes,
	})
}

type UserDeleteHandler struct {
	UserService    *service.UserService
	SessionService *service.SessionService
}

// ServeHTTP deletes the user and every note they own, then ends the
// session. Owner only, anti-forgery token required.
func (h *UserDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	session, ok := authorize(w, r, h.SessionService, username)
	if !ok {
		return
	}

	if !checkCSRF(w, r, h.SessionService, session) {
		return
	}

	// Sessions ride the same cascade as notes, so the identity is revoked
	// in the same transaction that removes the user.
	if err := h.UserService.DeleteUser(r.Context(), username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slogx.FromContext(r.Context()).Error("failed to delete user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	clearSessionCookie(w)
	httpx.SeeOther(w, r, "/")
}
