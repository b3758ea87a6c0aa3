package routes

import (
	"github.com/Aidyn07/esports-arena/handlers"
	"github.com/Aidyn07/esports-arena/middleware"
	"github.com/Aidyn07/esports-arena/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	registrationHandler *handlers.RegistrationHandler,
	dashboardHandler *handlers.DashboardHandler,
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

	router.Post("/auth/signup", authHandler.SignUp)
	router.Post("/auth/signin", authHandler.SignIn)

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты; registration-status персонализируется,
		// если клиент пришёл с токеном.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthenticate(jwtSecret))
			r.Get("/", tournamentHandler.List)
			r.Get("/{id}", tournamentHandler.Get)
			r.Get("/{id}/registration-status", tournamentHandler.RegistrationStatus)
		})

		// Регистрация — любой аутентифицированный пользователь.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Post("/{id}/registrations", registrationHandler.Register)
		})

		// Управление турниром — организаторы и staff.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))
			r.Post("/", tournamentHandler.Create)
			r.Patch("/{id}/status", tournamentHandler.UpdateStatus)
			r.Post("/{id}/banner", tournamentHandler.UploadBanner)
			r.Get("/{id}/health", dashboardHandler.TournamentHealth)
			r.Get("/{id}/participants", dashboardHandler.ParticipantBreakdown)
		})
	})

	router.Route("/registrations", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Post("/{id}/payment", registrationHandler.SubmitPayment)
		r.Post("/{id}/check-in", registrationHandler.CheckIn)
		r.Delete("/{id}", registrationHandler.Cancel)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))
			r.Post("/{id}/approve", registrationHandler.Approve)
		})
	})

	router.Route("/payments", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))
		r.Post("/{id}/verify", registrationHandler.VerifyPayment)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Get("/dashboard/stats", dashboardHandler.Stats)
	})

	router.Get("/ws/tournaments/{id}", webSocketHandler.ServeWs)
}
