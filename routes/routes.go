package routes

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Dosada05/petanque-manager/docs" // регистрирует описание API для /swagger
	"github.com/Dosada05/petanque-manager/handlers"
	"github.com/Dosada05/petanque-manager/middleware"
	"github.com/Dosada05/petanque-manager/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Team       *handlers.TeamHandler
	Match      *handlers.MatchHandler
	WebSocket  *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRoutes(router *chi.Mux, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// WebSocket не должен попадать под таймаут.
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

		r.Post("/auth/login", h.Auth.Login)

		r.Route("/tournaments", func(r chi.Router) {
			// Публичные маршруты
			r.Get("/", h.Tournament.ListHandler)
			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", h.Tournament.GetByIDHandler)
				r.Get("/teams", h.Team.ListTeams)
				r.Get("/matches", h.Match.ListMatches)
				r.Get("/rounds/{round}/matches", h.Match.ListRoundMatches)
				r.Get("/rounds/{round}/status", h.Match.RoundStatus)
				r.Get("/standings", h.Tournament.StandingsHandler)

				// Только организатор
				r.Group(func(r chi.Router) {
					r.Use(middleware.Authenticate(opts.JWTSecret, opts.Logger))
					r.Use(middleware.Authorize(services.RoleOrganizer))

					r.Delete("/", h.Tournament.DeleteHandler)
					r.Post("/complete", h.Tournament.CompleteHandler)
					r.Post("/teams", h.Team.AddTeam)
					r.Delete("/teams/{teamID}", h.Team.RemoveTeam)
					r.Post("/rounds", h.Match.GenerateRound)
					r.Put("/matches/{matchID}/score", h.Match.RecordScore)
					r.Post("/standings/export", h.Tournament.ExportStandingsHandler)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(opts.JWTSecret, opts.Logger))
				r.Use(middleware.Authorize(services.RoleOrganizer))
				r.Post("/", h.Tournament.CreateHandler)
			})
		})
	})
}
