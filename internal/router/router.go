package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/formbox/internal/auth"
	"github.com/parisxmas/formbox/internal/handler"
	mw "github.com/parisxmas/formbox/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Form       *handler.FormHandler
	Submission *handler.SubmissionHandler
	Analytics  *handler.AnalyticsHandler
	Search     *handler.SearchHandler
	Dashboard  *handler.DashboardHandler
	File       *handler.FileHandler
	Admin      *handler.AdminHandler
}

// New builds the API router. With an empty jwtSecret the auth middleware
// passes everything through and the whole API is open; otherwise the
// builder routes require a bearer token while form viewing and submission
// stay public.
func New(jwtSecret string, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", handler.Health)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/register", h.Auth.Register)
		r.Get("/forms/{formId}", h.Form.Get)
		r.Post("/forms/{formId}/submit", h.Submission.Submit)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))

			r.Get("/auth/me", h.Auth.Me)

			r.Get("/dashboard", h.Dashboard.Dashboard)

			r.Get("/forms", h.Form.List)
			r.Post("/forms", h.Form.Create)
			r.Put("/forms/{formId}", h.Form.Update)
			r.Delete("/forms/{formId}", h.Form.Delete)

			r.Get("/forms/{formId}/submissions", h.Submission.List)
			r.Get("/forms/{formId}/analytics", h.Analytics.Analytics)
			r.Get("/forms/{formId}/export", h.Analytics.Export)

			r.Post("/search", h.Search.Search)

			r.Get("/submissions/{submissionId}/files", h.File.BySubmission)
			r.Get("/files/{fileId}/download", h.File.Download)
			r.Delete("/files/{fileId}", h.File.Delete)

			r.Get("/admin/stats", h.Admin.Stats)
		})
	})

	return r
}
