package routes

import (
	"net/http"
	"time"

	_ "github.com/Dosada05/hackathon-portal/docs"
	"github.com/Dosada05/hackathon-portal/handlers"
	"github.com/Dosada05/hackathon-portal/middleware"
	"github.com/Dosada05/hackathon-portal/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Dashboard    *handlers.DashboardHandler
	Hackathon    *handlers.HackathonHandler
	Registration *handlers.RegistrationHandler
	Proposal     *handlers.ProposalHandler
	WebSocket    *handlers.WebSocketHandler
	Health       *handlers.HealthHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	// UploadDir раздаётся по /uploads/*; пусто, если файлы лежат в R2.
	UploadDir string
	// Registry для /metrics; nil отключает метрики.
	Registry *prometheus.Registry
	// RequestLogging включает chi Logger (выключается в тестах).
	RequestLogging bool
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	if opts.RequestLogging {
		router.Use(chiMiddleware.Logger)
	}
	router.Use(chiMiddleware.Recoverer)
	if opts.Registry != nil {
		router.Use(middleware.NewMetrics(opts.Registry).Middleware)
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret)
	onlyAdmin := middleware.Authorize(models.RoleAdmin)
	onlyStudent := middleware.Authorize(models.RoleStudent)
	onlyOrganizer := middleware.Authorize(models.RoleOrganizer)
	organizerOrAdmin := middleware.Authorize(models.RoleOrganizer, models.RoleAdmin)

	router.Get("/healthz", h.Health.Health)
	if opts.Registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/hackathons/{hackathonID}", h.WebSocket.ServeWs)

	if opts.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir)))
		router.Handle("/uploads/*", fs)
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/login/admin", h.Auth.AdminLogin)
		})

		r.Route("/user", func(r chi.Router) {
			r.Post("/register/student", h.User.RegisterStudent)
			r.Post("/register/organizer", h.User.RegisterOrganizer)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, onlyAdmin)
				r.Get("/students", h.User.ListStudents)
				r.Get("/organizers", h.User.ListOrganizers)
				r.Get("/user-counts", h.Dashboard.UserCounts)
				r.Get("/event-counts", h.Dashboard.EventCounts)
				r.Get("/hackathons", h.Dashboard.Hackathons)
			})
		})

		r.Route("/hackathons", func(r chi.Router) {
			r.Get("/", h.Hackathon.List)
			r.With(authenticate, onlyOrganizer).Post("/add", h.Hackathon.Add)
			r.With(authenticate, organizerOrAdmin).Get("/generate-report/{hackathonID}", h.Hackathon.GenerateReport)
			r.Get("/{hackathonID}", h.Hackathon.Get)
		})

		r.Route("/registeredhackathon", func(r chi.Router) {
			r.Use(authenticate)
			r.With(onlyStudent).Post("/register", h.Registration.Register)
			// Проверка доступна любому вошедшему пользователю; не-студент всегда получает false.
			r.Get("/check/{hackathonID}", h.Registration.Check)
			r.With(organizerOrAdmin).Get("/hackathon/{hackathonID}", h.Registration.ListByHackathon)
			r.With(organizerOrAdmin).Get("/organizer/{organizerID}", h.Registration.OrganizerHackathons)
			r.With(middleware.Authorize(models.RoleStudent, models.RoleAdmin)).Get("/registeredhackathons/{studentID}", h.Registration.StudentHackathons)
		})

		r.Route("/proposals", func(r chi.Router) {
			r.Use(authenticate, organizerOrAdmin)
			r.Get("/", h.Proposal.List)
			r.Put("/{proposalID}/approve", h.Proposal.Approve)
			r.Put("/{proposalID}/reject", h.Proposal.Reject)
		})
	})
}
