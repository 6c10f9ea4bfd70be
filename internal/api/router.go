package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rgault/splitpot/internal/middleware"
)

// Router builds the HTTP route tree. Identity is asserted per request
// through bearer tokens: joining needs any authenticated user, admin
// routes need the admin claim, everything else mirrors the open
// project-code access model of the app.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
	r.Use(middleware.Metrics)
	r.Use(middleware.Logging)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Post("/", h.createProject)
		r.Get("/{code}", h.getProject)
		r.Post("/{code}/expenses", h.upsertExpense)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.jwtManager))
			r.Post("/{code}/join", h.joinProject)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.jwtManager))
		r.Get("/stats", h.adminStats)
		r.Delete("/projects/{code}", h.deleteProject)
		r.Put("/users/{userID}/password", h.resetPassword)
	})

	return r
}
