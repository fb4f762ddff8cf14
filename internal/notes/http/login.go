package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openbracket/notes/internal/notes/service"
	"github.com/openbracket/notes/pkg/httpx"
	"github.com/openbracket/notes/pkg/slogx"
)

type LoginHandler struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService
}

type loginForm struct {
	Username string
}

type loginPageData struct {
	baseData
	Form      loginForm
	FormError string
}

// HandleGet shows the login form. Logged-in visitors are sent to their own
// page instead.
func (h *LoginHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if session, ok := currentSession(r, h.SessionService); ok {
		httpx.SeeOther(w, r, fmt.Sprintf("/users/%s", session.Username))
		return
	}

	render(w, r, http.StatusOK, "login", loginPageData{
		baseData: baseData{Flash: takeAnonFlash(w, r)},
	})
}

// HandlePost verifies credentials. Failures re-render the form with one
// generic message whether the username exists or not.
func (h *LoginHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if session, ok := currentSession(r, h.SessionService); ok {
		httpx.SeeOther(w, r, fmt.Sprintf("/users/%s", session.Username))
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.AuthService.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			render(w, r, http.StatusUnauthorized, "login", loginPageData{
				Form:      loginForm{Username: username},
				FormError: "Invalid username or password.",
			})
			return
		}
		slogx.FromContext(r.Context()).Error("login failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	session, rawToken, err := h.SessionService.Create(r.Context(), user.Username)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, rawToken, time.Until(session.ExpiresAt))
	httpx.SeeOther(w, r, fmt.Sprintf("/users/%s", user.Username))
}
