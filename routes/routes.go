package routes

import (
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Config struct {
	JWTSecret          string
	CORSAllowedOrigins []string
}

func SetupRoutes(
	router *chi.Mux,
	cfg Config,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	standingsHandler *handlers.StandingsHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	authenticate := middleware.Authenticate(cfg.JWTSecret)
	adminOnly := middleware.Authorize(models.RoleAdmin)
	staff := middleware.Authorize(models.RoleAdmin, models.RoleManager)
	reporters := middleware.Authorize(models.RoleAdmin, models.RoleManager, models.RoleCommentator)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{teamID}", teamHandler.GetByID)
		r.Get("/{teamID}/players", teamHandler.ListPlayers)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Post("/", teamHandler.Create)
			r.Put("/{teamID}", teamHandler.Update)
			r.Delete("/{teamID}", teamHandler.Delete)
			r.Post("/{teamID}/crest", teamHandler.UploadCrest)
			r.Post("/{teamID}/players", teamHandler.AddPlayer)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", teamHandler.GetPlayer)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Put("/{playerID}", teamHandler.UpdatePlayer)
			r.Delete("/{playerID}", teamHandler.RemovePlayer)
			r.Post("/{playerID}/photo", teamHandler.UploadPlayerPhoto)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.GetByID)
		r.Get("/{tournamentID}/matches", matchHandler.ListByTournament)
		r.Get("/{tournamentID}/standings", standingsHandler.GetTable)
		r.Get("/{tournamentID}/top-scorers", standingsHandler.TopScorers)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staff)

			r.Post("/{tournamentID}/standings/recalculate", standingsHandler.Recalculate)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Post("/", tournamentHandler.Create)
			r.Put("/{tournamentID}", tournamentHandler.Update)
			r.Patch("/{tournamentID}/status", tournamentHandler.UpdateStatus)
			r.Delete("/{tournamentID}", tournamentHandler.Delete)
			r.Post("/{tournamentID}/teams/{teamID}", tournamentHandler.RegisterTeam)
			r.Delete("/{tournamentID}/teams/{teamID}", tournamentHandler.UnregisterTeam)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetByID)
		r.Get("/{matchID}/events", matchHandler.ListEvents)
		r.Get("/{matchID}/stats", matchHandler.GetStats)
		r.Get("/{matchID}/player-stats", matchHandler.ListPlayerStats)
		r.Get("/{matchID}/commentary", matchHandler.ListCommentary)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staff)

			r.Post("/", matchHandler.Create)
			r.Patch("/{matchID}/status", matchHandler.UpdateStatus)
			r.Patch("/{matchID}/penalties", matchHandler.SetPenalties)
			r.Delete("/{matchID}", matchHandler.Delete)
		})

		// Событийный ввод доступен и комментаторам.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(reporters)

			r.Post("/{matchID}/events", matchHandler.CreateEvent)
			r.Patch("/{matchID}/minute", matchHandler.UpdateMinute)
			r.Post("/{matchID}/commentary", matchHandler.PostCommentary)
		})
	})
}
