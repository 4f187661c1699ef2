package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/JordyAP28/sistema-deportivo/handlers"
	"github.com/JordyAP28/sistema-deportivo/middleware"
	"github.com/JordyAP28/sistema-deportivo/models"
)

// SetupRoutes собирает всю HTTP-поверхность: чтения публичные, мутации
// фактов требуют роли staff или admin, служебные операции движка - только admin.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	clubHandler *handlers.ClubHandler,
	playerHandler *handlers.PlayerHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	statisticHandler *handlers.StatisticHandler,
	standingsHandler *handlers.StandingsHandler,
	adminHandler *handlers.AdminHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	staffOnly := middleware.Authorize(models.RoleAdmin, models.RoleStaff)
	adminOnly := middleware.Authorize(models.RoleAdmin)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/clubs", func(r chi.Router) {
		r.Get("/", clubHandler.List)
		r.Get("/{clubID}", clubHandler.GetByID)
		r.Get("/{clubID}/players", playerHandler.ListByClub)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", clubHandler.Create)
			r.Put("/{clubID}", clubHandler.Update)
			r.Delete("/{clubID}", clubHandler.Delete)
			r.Post("/{clubID}/crest", clubHandler.UploadCrest)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", playerHandler.GetByID)
		r.Get("/{playerID}/statistics", standingsHandler.GetPlayerStatistics)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", playerHandler.Create)
			r.Put("/{playerID}", playerHandler.Update)
			r.Delete("/{playerID}", playerHandler.Delete)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.GetByID)
		r.Get("/{tournamentID}/matches", tournamentHandler.ListMatches)
		r.Get("/{tournamentID}/standings", standingsHandler.GetStandings)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", tournamentHandler.Create)
			r.Put("/{tournamentID}", tournamentHandler.Update)
			r.Patch("/{tournamentID}/status", tournamentHandler.UpdateStatus)
			r.Delete("/{tournamentID}", tournamentHandler.Delete)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", matchHandler.Create)
			r.Put("/{matchID}/result", matchHandler.EnterResult)
			r.Delete("/{matchID}/result", matchHandler.VoidResult)
			r.Delete("/{matchID}", matchHandler.SoftDelete)
			r.Post("/{matchID}/restore", matchHandler.Restore)

			r.Post("/{matchID}/players/{playerID}/statistics", statisticHandler.Create)
		})
	})

	router.Route("/statistics", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(staffOnly)

		r.Put("/{entryID}", statisticHandler.Update)
		r.Delete("/{entryID}", statisticHandler.Remove)
		r.Post("/{entryID}/restore", statisticHandler.Restore)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)

		r.Post("/tournaments/{tournamentID}/recompute", adminHandler.RecomputeStandings)
		r.Get("/tournaments/{tournamentID}/verify", adminHandler.VerifyStandings)
		r.Post("/reconcile", adminHandler.RunReconciliation)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Get("/swagger/*", httpSwagger.Handler())
}
