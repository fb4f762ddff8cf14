package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/service"
	"github.com/openbracket/notes/pkg/httpx"
	"github.com/openbracket/notes/pkg/slogx"
)

const (
	sessionCookieName = "session_token"
	flashCookieName   = "flash"

	mustLogInFlash     = "You must be logged in to view that page."
	notAuthorizedFlash = "You are not authorized to do that."
)

func setSessionCookie(w http.ResponseWriter, rawToken string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    rawToken,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// setAnonFlash stores a one-shot message for a visitor with no session.
// Authenticated flashes live on the session row instead.
func setAnonFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeAnonFlash reads and clears the anonymous flash cookie.
func takeAnonFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:   flashCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}

// currentSession resolves the request's cookie to a session. ok is false for
// anonymous requests; unexpected store errors are logged and treated as
// anonymous rather than failing the page.
func currentSession(r *http.Request, sessions *service.SessionService) (domain.Session, bool) {
	session, err := sessions.Resolve(r.Context(), sessionToken(r))
	if err != nil {
		if !errors.Is(err, service.ErrNoSession) {
			slogx.FromContext(r.Context()).Error("session resolve failed", "error", err)
		}
		return domain.Session{}, false
	}
	return session, true
}

// authorize applies the authorization policy shared by every protected route:
// anonymous visitors go to /login with a flash; a mismatched identity goes
// back to its own page with a flash. Only an exact owner match proceeds.
func authorize(
	w http.ResponseWriter,
	r *http.Request,
	sessions *service.SessionService,
	owner string,
) (domain.Session, bool) {
	session, ok := currentSession(r, sessions)
	if !ok {
		setAnonFlash(w, mustLogInFlash)
		httpx.SeeOther(w, r, "/login")
		return domain.Session{}, false
	}

	if session.Username != owner {
		if err := sessions.SetFlash(r.Context(), session.ID, notAuthorizedFlash); err != nil {
			slogx.FromContext(r.Context()).Error("failed to set flash", "error", err)
		}
		httpx.SeeOther(w, r, fmt.Sprintf("/users/%s", session.Username))
		return domain.Session{}, false
	}

	return session, true
}

// checkCSRF enforces the anti-forgery token on state-changing submissions.
// A mismatch is fatal for the request: 401, nothing mutated.
func checkCSRF(
	w http.ResponseWriter,
	r *http.Request,
	sessions *service.SessionService,
	session domain.Session,
) bool {
	if !sessions.VerifyCSRF(session, r.PostFormValue("csrf_token")) {
		slogx.FromContext(r.Context()).Warn("anti-forgery token mismatch",
			"username", session.Username,
			"path", r.URL.Path,
		)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}
