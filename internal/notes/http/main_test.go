package http_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	httpapi "github.com/openbracket/notes/internal/notes/http"
	"github.com/openbracket/notes/internal/notes/service"
	"github.com/openbracket/notes/internal/notes/store"
	"github.com/openbracket/notes/internal/notes/store/drivers/sqlite"
	"github.com/openbracket/notes/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "notes-http-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	code := m.Run()

	os.Remove(pepperPath)
	os.Exit(code)
}

// newTestRouter wires a full router against a migrated in-memory database,
// mirroring the wiring in app.initServices/initHTTP.
func newTestRouter(t *testing.T) (*httpapi.Router, store.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter("test", st, logger)
	router.AuthService = &service.AuthService{Store: st}
	router.UserService = &service.UserService{Store: st}
	router.NoteService = &service.NoteService{Store: st}
	router.SessionService = &service.SessionService{Store: st}
	router.ApplyRoutes()

	return router, st
}

func postForm(router *httpapi.Router, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router *httpapi.Router, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerForm(username string) url.Values {
	return url.Values{
		"username":   {username},
		"password":   {"hunter2"},
		"email":      {username + "@example.com"},
		"first_name": {"Test"},
		"last_name":  {"User"},
	}
}

// signUp registers a user through the real handler and returns the session
// cookie plus the session's anti-forgery token.
func signUp(t *testing.T, router *httpapi.Router, username string) (*http.Cookie, string) {
	t.Helper()

	rec := postForm(router, "/register", registerForm(username))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/users/"+username, rec.Header().Get("Location"))

	cookie := sessionCookie(t, rec)
	session, err := router.SessionService.Resolve(t.Context(), cookie.Value)
	require.NoError(t, err)

	return cookie, session.CSRFToken
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_token" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}
