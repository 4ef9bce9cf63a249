package handlers

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/jwtauth"
)

const requestTimeout = 60 * time.Second

func (h *Handler) SetRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {

		// long lived, kept out of the request timeout
		r.Get("/competitions/{competitionId}/live", h.LiveHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			// public routes here
			r.Get("/health", h.HealthHandler)
			r.Post("/auth/register", h.RegisterHandler)
			r.Post("/auth/login", h.LoginHandler)

			r.Get("/competitions", h.ListAvailableHandler)
			r.Get("/competitions/all", h.ListAllHandler)
			r.Get("/competitions/{competitionId}", h.GetCompetitionHandler)
			r.Get("/competitions/{competitionId}/results", h.ResultsHandler)

			// Secure routes
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(h.auth.TokenAuth()))
				r.Use(jwtauth.Authenticator)

				r.Get("/user", h.CurrentUserHandler)
				r.Post("/competitions/{competitionId}/enroll", h.EnrollHandler)
				r.Get("/competitions/{competitionId}/enrollment", h.EnrollmentHandler)
				r.Post("/competitions/{competitionId}/submission", h.SubmitHandler)
				r.Get("/competitions/{competitionId}/submission", h.LatestSubmissionHandler)
			})
		})
	})
}
