package http

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/openbracket/notes/pkg/httpx"
	"github.com/openbracket/notes/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages maps a page name to its parsed template set (layout + page).
var pages = mustParsePages("register", "login", "profile", "note_form")

func mustParsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.ParseFS(templateFS,
			"templates/layout.html",
			fmt.Sprintf("templates/%s.html", name),
		))
	}
	return out
}

// baseData is embedded in every page's data struct.
type baseData struct {
	CurrentUser string // "" when anonymous
	CSRFToken   string
	Flash       string
}

// render writes a full HTML page. Session-dependent pages must not be cached.
func render(w http.ResponseWriter, r *http.Request, code int, page string, data any) {
	tmpl, ok := pages[page]
	if !ok {
		slogx.FromContext(r.Context()).Error("unknown template page", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slogx.FromContext(r.Context()).Error("template render failed", "page", page, "error", err)
	}
}
