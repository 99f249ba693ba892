package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cramhq/cram-api/internal/api"
	apimiddleware "github.com/cramhq/cram-api/internal/api/middleware"
)

// setupRouter configures the HTTP routes and middleware stack.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService)
	deckHandler := api.NewDeckHandler(app.deckService)
	studyHandler := api.NewStudyHandler(app.studyService)
	quizHandler := api.NewQuizHandler(app.quizService)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/decks", func(r chi.Router) {
				r.Post("/", deckHandler.CreateDeck)
				r.Get("/", deckHandler.ListDecks)

				r.Route("/{deckID}", func(r chi.Router) {
					r.Get("/", deckHandler.GetDeck)
					r.Put("/", deckHandler.UpdateDeck)
					r.Delete("/", deckHandler.DeleteDeck)

					r.Post("/cards", deckHandler.CreateCard)
					r.Get("/cards", deckHandler.ListCards)
					r.Get("/due", studyHandler.GetDueCards)
					r.Get("/export", deckHandler.ExportDeck)
					r.Post("/import", deckHandler.ImportDeck)
					r.Post("/quiz", quizHandler.GenerateQuiz)
				})
			})

			r.Route("/cards/{cardID}", func(r chi.Router) {
				r.Put("/", deckHandler.UpdateCard)
				r.Delete("/", deckHandler.DeleteCard)
				r.Post("/review", studyHandler.SubmitReview)
				r.Post("/answer", quizHandler.GradeAnswer)
			})

			r.Post("/sessions", studyHandler.LogSession)
			r.Get("/sessions", studyHandler.ListSessions)
		})
	})

	return r
}
