package http

import (
	"net/http"

	"github.com/openbracket/notes/internal/notes/service"
	"github.com/openbracket/notes/pkg/httpx"
	"github.com/openbracket/notes/pkg/slogx"
)

type LogoutHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP clears the session. Requires an authenticated session and a
// matching anti-forgery token; the token check happens before any mutation.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(r, h.SessionService)
	if !ok {
		setAnonFlash(w, mustLogInFlash)
		httpx.SeeOther(w, r, "/login")
		return
	}

	if !checkCSRF(w, r, h.SessionService, session) {
		return
	}

	if err := h.SessionService.Destroy(r.Context(), sessionToken(r)); err != nil {
		slogx.FromContext(r.Context()).Error("logout failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	clearSessionCookie(w)
	httpx.SeeOther(w, r, "/")
}
