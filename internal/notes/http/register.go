package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/service"
	"github.com/openbracket/notes/pkg/httpx"
	"github.com/openbracket/notes/pkg/slogx"
)

type RegisterHandler struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService
}

type registerPageData struct {
	baseData
	Form      domain.RegisterParams
	Errors    domain.FieldErrors
	FormError string
}

// HandleGet shows the registration form. Logged-in visitors are sent to
// their own page instead.
func (h *RegisterHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if session, ok := currentSession(r, h.SessionService); ok {
		httpx.SeeOther(w, r, fmt.Sprintf("/users/%s", session.Username))
		return
	}

	render(w, r, http.StatusOK, "register", registerPageData{
		baseData: baseData{Flash: takeAnonFlash(w, r)},
	})
}

// HandlePost processes a registration submission. On success the visitor is
// logged in immediately and sent to their page.
func (h *RegisterHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if session, ok := currentSession(r, h.SessionService); ok {
		httpx.SeeOther(w, r, fmt.Sprintf("/users/%s", session.Username))
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	params := domain.RegisterParams{
		Username:  r.PostFormValue("username"),
		Password:  r.PostFormValue("password"),
		Email:     r.PostFormValue("email"),
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
	}

	user, err := h.AuthService.Register(r.Context(), params)
	if err != nil {
		data := registerPageData{Form: params}
		var fieldErrs domain.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			data.Errors = fieldErrs
		case errors.Is(err, service.ErrUsernameTaken):
			data.FormError = "That username is already taken."
		case errors.Is(err, service.ErrEmailTaken):
			data.FormError = "That email is already registered."
		default:
			slogx.FromContext(r.Context()).Error("registration failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		render(w, r, http.StatusUnprocessableEntity, "register", data)
		return
	}

	h.startSession(w, r, user.Username)
}

func (h *RegisterHandler) startSession(w http.ResponseWriter, r *http.Request, username string) {
	session, rawToken, err := h.SessionService.Create(r.Context(), username)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, rawToken, time.Until(session.ExpiresAt))
	httpx.SeeOther(w, r, fmt.Sprintf("/users/%s", username))
}
