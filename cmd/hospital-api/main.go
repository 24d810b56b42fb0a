package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carebridge/hospital-api/internal/auth"
	"github.com/carebridge/hospital-api/internal/config"
	httpserver "github.com/carebridge/hospital-api/internal/http"
	"github.com/carebridge/hospital-api/internal/medication"
	"github.com/carebridge/hospital-api/internal/notification"
	"github.com/carebridge/hospital-api/internal/repository"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := repository.NewDB(repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	// Initialize repositories
	usersRepo := repository.NewUsersRepository(db)
	credsRepo := repository.NewCredentialsRepository(db)
	otpTokensRepo := repository.NewOtpTokensRepository(db)
	sessionsRepo := repository.NewSessionsRepository(db)
	patientsRepo := repository.NewPatientsRepository(db)
	allergiesRepo := repository.NewAllergiesRepository(db)
	medicationsRepo := repository.NewMedicationsRepository(db)
	notesRepo := repository.NewNotesRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// OTP delivery: SMTP when configured, log-only otherwise
	var notifier auth.Notifier
	if cfg.HasSMTP() {
		notifier = notification.NewEmailService(notification.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		})
		logger.Info("email delivery enabled")
	} else {
		notifier = notification.NewLogService(logger)
		logger.Warn("SMTP not configured, one-time codes will be logged")
	}

	// Initialize services
	tokenService := auth.NewTokenService(auth.TokenConfig{
		Secret:         []byte(cfg.JWTSecret),
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: cfg.AccessTokenTTL,
	})
	otpService := auth.NewOtpService(
		logger,
		usersRepo,
		otpTokensRepo,
		sessionsRepo,
		tokenService,
		notifier,
		cfg.SessionTTL,
	)
	authService := auth.NewAuthenticationService(
		logger,
		usersRepo,
		credsRepo,
		sessionsRepo,
		otpService,
	)
	medicationService := medication.NewService(
		logger,
		allergiesRepo,
		medicationsRepo,
		medication.NewConflictChecker(medication.DefaultInteractionTable()),
	)

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:             logger,
		AuthService:        authService,
		OtpService:         otpService,
		TokenService:       tokenService,
		MedicationService:  medicationService,
		PatientsRepo:       patientsRepo,
		AllergiesRepo:      allergiesRepo,
		MedicationsRepo:    medicationsRepo,
		NotesRepo:          notesRepo,
		HistoryRepo:        historyRepo,
		RateLimitEnabled:   cfg.RateLimitEnabled,
		AuthRequests:       cfg.AuthRequestsPerWindow,
		AuthWindow:         time.Duration(cfg.AuthWindowMinutes) * time.Minute,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
