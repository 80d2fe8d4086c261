package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(
	surveys *SurveyHandler,
	submissions *SubmissionHandler,
	health *HealthHandler,
	jwtSecret []byte,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsHeaders)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.Check)

		r.Options("/submit-survey", submissions.Preflight)
		r.Post("/submit-survey", submissions.SubmitSurvey)

		r.Route("/surveys", func(r chi.Router) {
			r.Get("/{id}", surveys.GetSurvey)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin(jwtSecret))
				r.Post("/", surveys.CreateSurvey)
				r.Get("/", surveys.ListSurveys)
			})
		})
	})

	return r
}
