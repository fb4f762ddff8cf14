package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/openbracket/notes/internal/notes/service"
	"github.com/openbracket/notes/internal/notes/store"
	"github.com/openbracket/notes/pkg/httpx"
	"github.com/openbracket/notes/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService    *service.AuthService
	UserService    *service.UserService
	NoteService    *service.NoteService
	SessionService *service.SessionService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	r.registerHome()
	r.registerAuth()
	r.registerUsers()
	r.registerNotes()
	r.registerSystem()
}

func (r *Router) registerHome() {
	r.Mux.Handle("GET /{$}", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		httpx.SeeOther(w, req, "/register")
	}))
}

func (r *Router) registerAuth() {
	registerHandler := &RegisterHandler{
		AuthService:    r.AuthService,
		SessionService: r.SessionService,
	}
	loginHandler := &LoginHandler{
		AuthService:    r.AuthService,
		SessionService: r.SessionService,
	}
	logoutHandler := &LogoutHandler{SessionService: r.SessionService}

	// Form GETs are cheap; lenient limit by IP.
	r.Mux.Handle("GET /register",
		httpx.Chain(http.HandlerFunc(registerHandler.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /login",
		httpx.Chain(http.HandlerFunc(loginHandler.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Credential POSTs are rate limited by IP + username form field to slow
	// brute force without letting one attacker lock out a whole NAT.
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(registerHandler.HandlePost),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(loginHandler.HandlePost),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	r.Mux.Handle("POST /logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	profileHandler := &ProfileHandler{
		UserService:    r.UserService,
		SessionService: r.SessionService,
	}
	deleteHandler := &UserDeleteHandler{
		UserService:    r.UserService,
		SessionService: r.SessionService,
	}

	r.Mux.Handle("GET /users/{username}",
		httpx.Chain(profileHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /users/{username}/delete",
		httpx.Chain(deleteHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerNotes() {
	addHandler := &NoteAddHandler{
		NoteService:    r.NoteService,
		SessionService: r.SessionService,
	}
	updateHandler := &NoteUpdateHandler{
		NoteService:    r.NoteService,
		SessionService: r.SessionService,
	}
	deleteHandler := &NoteDeleteHandler{
		NoteService:    r.NoteService,
		SessionService: r.SessionService,
	}

	r.Mux.Handle("GET /users/{username}/notes/add",
		httpx.Chain(http.HandlerFunc(addHandler.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /users/{username}/notes/add",
		httpx.Chain(http.HandlerFunc(addHandler.HandlePost),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /notes/{id}/update",
		httpx.Chain(http.HandlerFunc(updateHandler.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /notes/{id}/update",
		httpx.Chain(http.HandlerFunc(updateHandler.HandlePost),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /notes/{id}/delete",
		httpx.Chain(deleteHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
