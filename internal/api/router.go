package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/starford/corkboard/internal/auth"
	"github.com/starford/corkboard/internal/noteservice"
	"github.com/starford/corkboard/internal/render"
)

// RouterOptions tunes the optional parts of the router.
type RouterOptions struct {
	// CORSOrigins enables CORS for the listed origins when non-empty.
	CORSOrigins []string
	// AuthRateLimit caps login and registration attempts per client IP per
	// minute. Zero disables the limit.
	AuthRateLimit int
	// Renderer draws GET /board.svg. Nil uses the default renderer.
	Renderer *render.Renderer
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(authSvc *auth.Service, notes *noteservice.Service, opts RouterOptions) chi.Router {
	h := NewHandler(authSvc, notes, opts.Renderer)

	r := chi.NewRouter()
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}
	r.Use(AuthMiddleware(authSvc))

	r.Group(func(r chi.Router) {
		if opts.AuthRateLimit > 0 {
			r.Use(httprate.LimitByIP(opts.AuthRateLimit, time.Minute))
		}
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
	})

	// Public reads.
	r.Get("/notes", h.ListNotes)
	r.Get("/board.svg", h.BoardSVG)

	r.Group(func(r chi.Router) {
		r.Use(RequireIdentity)
		r.Get("/auth/me", h.Me)
		r.Post("/notes", h.CreateNote)
		r.Get("/user/quota", h.Quota)
	})

	return r
}
