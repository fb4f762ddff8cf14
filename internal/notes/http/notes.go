package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/service"
	"github.com/openbracket/notes/internal/notes/store"
	"github.com/openbracket/notes/pkg/httpx"
	"github.com/openbracket/notes/pkg/slogx"
)

type notePageData struct {
	baseData
	Heading string
	Action  string
	Form    domain.NoteParams
	Errors  domain.FieldErrors
}

type NoteAddHandler struct {
	NoteService    *service.NoteService
	SessionService *service.SessionService
}

// HandleGet shows the add-note form for the owner of the page.
func (h *NoteAddHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	session, ok := authorize(w, r, h.SessionService, username)
	if !ok {
		return
	}

	render(w, r, http.StatusOK, "note_form", notePageData{
		baseData: baseData{CurrentUser: session.Username, CSRFToken: session.CSRFToken},
		Heading:  "Add a note",
		Action:   fmt.Sprintf("/users/%s/notes/add", username),
	})
}

// HandlePost creates the note and returns to the owner's page.
func (h *NoteAddHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	session, ok := authorize(w, r, h.SessionService, username)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	params := domain.NoteParams{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}

	if _, err := h.NoteService.CreateNote(r.Context(), username, params); err != nil {
		var fieldErrs domain.FieldErrors
		if errors.As(err, &fieldErrs) {
			render(w, r, http.StatusUnprocessableEntity, "note_form", notePageData{
				baseData: baseData{CurrentUser: session.Username, CSRFToken: session.CSRFToken},
				Heading:  "Add a note",
				Action:   fmt.Sprintf("/users/%s/notes/add", username),
				Form:     params,
				Errors:   fieldErrs,
			})
			return
		}
		slogx.FromContext(r.Context()).Error("failed to create note", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	httpx.SeeOther(w, r, fmt.Sprintf("/users/%s", username))
}

type NoteUpdateHandler struct {
	NoteService    *service.NoteService
	SessionService *service.SessionService
}

// HandleGet shows the edit form for a note. Ownership is resolved from the
// note itself, not from anything in the URL.
func (h *NoteUpdateHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	session, ok := currentSessionOrLogin(w, r, h.SessionService)
	if !ok {
		return
	}

	note, err := h.NoteService.GetNoteForOwner(r.Context(), id, session.Username)
	if err != nil {
		writeNoteError(w, r, h.SessionService, session, err)
		return
	}

	render(w, r, http.StatusOK, "note_form", notePageData{
		baseData: baseData{CurrentUser: session.Username, CSRFToken: session.CSRFToken},
		Heading:  "Edit note",
		Action:   fmt.Sprintf("/notes/%d/update", note.ID),
		Form:     domain.NoteParams{Title: note.Title, Content: note.Content},
	})
}

// HandlePost applies the edit and returns to the owner's page.
func (h *NoteUpdateHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	session, ok := currentSessionOrLogin(w, r, h.SessionService)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	params := domain.NoteParams{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}

	note, err := h.NoteService.UpdateNote(r.Context(), id, session.Username, params)
	if err != nil {
		var fieldErrs domain.FieldErrors
		if errors.As(err, &fieldErrs) {
			render(w, r, http.StatusUnprocessableEntity, "note_form", notePageData{
				baseData: baseData{CurrentUser: session.Username, CSRFToken: session.CSRFToken},
				Heading:  "Edit note",
				Action:   fmt.Sprintf("/notes/%d/update", id),
				Form:     params,
				Errors:   fieldErrs,
			})
			return
		}
		writeNoteError(w, r, h.SessionService, session, err)
		return
	}

	httpx.SeeOther(w, r, fmt.Sprintf("/users/%s", note.OwnerUsername))
}

type NoteDeleteHandler struct {
	NoteService    *service.NoteService
	SessionService *service.SessionService
}

// ServeHTTP deletes a note. Note owner only, anti-forgery token required.
func (h *NoteDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	session, ok := currentSessionOrLogin(w, r, h.SessionService)
	if !ok {
		return
	}

	if !checkCSRF(w, r, h.SessionService, session) {
		return
	}

	if err := h.NoteService.DeleteNote(r.Context(), id, session.Username); err != nil {
		writeNoteError(w, r, h.SessionService, session, err)
		return
	}

	httpx.SeeOther(w, r, fmt.Sprintf("/users/%s", session.Username))
}

func noteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

// currentSessionOrLogin resolves the session or applies the anonymous half
// of the authorization policy.
func currentSessionOrLogin(
	w http.ResponseWriter,
	r *http.Request,
	sessions *service.SessionService,
) (domain.Session, bool) {
	session, ok := currentSession(r, sessions)
	if !ok {
		setAnonFlash(w, mustLogInFlash)
		httpx.SeeOther(w, r, "/login")
		return domain.Session{}, false
	}
	return session, true
}

// writeNoteError maps note-scoped failures onto the authorization policy:
// a foreign note bounces the visitor to their own page with a flash, an
// unknown note is a 404, and anything else is a 500.
func writeNoteError(
	w http.ResponseWriter,
	r *http.Request,
	sessions *service.SessionService,
	session domain.Session,
	err error,
) {
	switch {
	case errors.Is(err, service.ErrNotOwner):
		if flashErr := sessions.SetFlash(r.Context(), session.ID, notAuthorizedFlash); flashErr != nil {
			slogx.FromContext(r.Context()).Error("failed to set flash", "error", flashErr)
		}
		httpx.SeeOther(w, r, fmt.Sprintf("/users/%s", session.Username))
	case errors.Is(err, store.ErrNotFound):
		http.NotFound(w, r)
	default:
		slogx.FromContext(r.Context()).Error("note operation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
