package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/flashforge/internal/api"
	"github.com/phrazzld/flashforge/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.TraceMiddleware(app.logger))
	r.Use(chimw.Recoverer)

	authHandler := api.NewAuthHandler(app.accountService, app.jwtService)
	profileHandler := api.NewProfileHandler(app.profileService)
	flashcardHandler := api.NewFlashcardHandler(app.generator, app.generationBudget())
	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)

			r.Get("/profiles/{id}", profileHandler.GetProfile)
			r.Put("/profiles/{id}", profileHandler.UpdateProfile)

			r.With(app.rateLimiter.Middleware).Post("/flashcards", flashcardHandler.Generate)
		})
	})

	r.Get("/health", api.NewHealthHandler(app.generatorState).Health)

	return r
}
