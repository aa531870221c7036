package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/hackathon-portal/config"
	"github.com/Dosada05/hackathon-portal/db"
	"github.com/Dosada05/hackathon-portal/handlers"
	"github.com/Dosada05/hackathon-portal/live"
	"github.com/Dosada05/hackathon-portal/repositories"
	"github.com/Dosada05/hackathon-portal/routes"
	"github.com/Dosada05/hackathon-portal/services"
	"github.com/Dosada05/hackathon-portal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var version = "dev"

type serverFlags struct {
	memory   bool
	logLevel string
	port     int
}

func main() {
	var flags serverFlags

	cmd := &cobra.Command{
		Use:           "hackportal-server",
		Short:         "HTTP backend for the hackathon portal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), flags)
		},
	}
	cmd.Flags().BoolVar(&flags.memory, "memory", false, "use the in-memory store even if DATABASE_URL is set")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	cmd.Flags().IntVar(&flags.port, "port", 0, "override SERVER_PORT")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		slog.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, flags serverFlags) error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if flags.memory {
		cfg.DatabaseURL = ""
	}
	if flags.port != 0 {
		cfg.ServerPort = flags.port
	}
	if flags.logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(flags.logLevel)); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	// Настройка логгера
	logger := newLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("env", cfg.Env))

	// Хранилище: Postgres или in-memory
	var (
		userRepo         repositories.UserRepository
		hackathonRepo    repositories.HackathonRepository
		registrationRepo repositories.RegistrationRepository
		dbConn           *sql.DB
	)
	if cfg.UseMemoryStore() {
		store := repositories.NewMemoryStore()
		userRepo, hackathonRepo, registrationRepo = store.Users(), store.Hackathons(), store.Registrations()
		logger.Warn("DATABASE_URL is not set, using in-memory store; data is lost on restart")
	} else {
		dbConn, err = db.Connect(ctx, cfg.DatabaseURL, db.Options{})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}()
		if err := db.Migrate(dbConn); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		userRepo = repositories.NewPostgresUserRepository(dbConn)
		hackathonRepo = repositories.NewPostgresHackathonRepository(dbConn)
		registrationRepo = repositories.NewPostgresRegistrationRepository(dbConn)
		logger.Info("database connection established, migrations applied")
	}

	// Загрузчик файлов: Cloudflare R2, если настроен, иначе локальный каталог
	var (
		uploader  storage.FileUploader
		uploadDir string
	)
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		local, err := storage.NewLocalUploader(cfg.UploadDir, cfg.PublicBaseURL+"/uploads")
		if err != nil {
			return fmt.Errorf("failed to initialize local uploader: %w", err)
		}
		uploader, uploadDir = local, local.Dir()
		logger.Info("local uploader initialized", slog.String("dir", uploadDir))
	}

	// Уведомления о решениях по заявкам
	var notifier services.Notifier = services.LogNotifier{Logger: logger}
	if cfg.SMTPConfigured() {
		emailService, err := services.NewEmailService(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize email service: %w", err)
		}
		notifier = emailService
	}

	// Инициализация live-хаба
	hub := live.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, logger)
	userService := services.NewUserService(userRepo)
	dashboardService := services.NewDashboardService(userRepo, hackathonRepo)
	hackathonService := services.NewHackathonService(hackathonRepo)
	registrationService := services.NewRegistrationService(registrationRepo, hackathonRepo, uploader, hub, logger)
	proposalService := services.NewProposalService(registrationRepo, hackathonRepo, hub, notifier, logger)
	reportService := services.NewReportService(hackathonRepo, registrationRepo)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return fmt.Errorf("failed to ensure admin account: %w", err)
		}
	}

	// Инициализация обработчиков HTTP
	var pinger handlers.Pinger
	if dbConn != nil {
		pinger = dbConn
	}
	h := routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		User:         handlers.NewUserHandler(userService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Hackathon:    handlers.NewHackathonHandler(hackathonService, reportService),
		Registration: handlers.NewRegistrationHandler(registrationService, hackathonService),
		Proposal:     handlers.NewProposalHandler(proposalService),
		WebSocket:    handlers.NewWebSocketHandler(hub, hackathonService, cfg.CORSAllowedOrigins, logger),
		Health:       handlers.NewHealthHandler(pinger, version),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := chi.NewRouter()
	routes.SetupRoutes(router, h, routes.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		UploadDir:      uploadDir,
		Registry:       registry,
		RequestLogging: true,
	})

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		stopHub()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
	}
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.Env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
