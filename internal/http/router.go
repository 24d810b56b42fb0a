package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/carebridge/hospital-api/internal/auth"
	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/carebridge/hospital-api/internal/http/features/allergies"
	"github.com/carebridge/hospital-api/internal/http/features/authn"
	"github.com/carebridge/hospital-api/internal/http/features/history"
	"github.com/carebridge/hospital-api/internal/http/features/medications"
	"github.com/carebridge/hospital-api/internal/http/features/notes"
	"github.com/carebridge/hospital-api/internal/http/features/patients"
	"github.com/carebridge/hospital-api/internal/http/middleware"
	"github.com/carebridge/hospital-api/internal/httputil"
	"github.com/carebridge/hospital-api/internal/medication"
	"github.com/carebridge/hospital-api/internal/repository"
	"github.com/go-chi/chi/v5"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        *auth.AuthenticationService
	OtpService         *auth.OtpService
	TokenService       *auth.TokenService
	MedicationService  *medication.Service
	PatientsRepo       *repository.PatientsRepository
	AllergiesRepo      *repository.AllergiesRepository
	MedicationsRepo    *repository.MedicationsRepository
	NotesRepo          *repository.NotesRepository
	HistoryRepo        *repository.HistoryRepository
	RateLimitEnabled   bool
	AuthRequests       int
	AuthWindow         time.Duration
	MaxRequestBodySize int64
}

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authLimit := middleware.NoRateLimit()
	if cfg.RateLimitEnabled {
		authLimit = middleware.RateLimit(middleware.RateLimitConfig{
			Requests: cfg.AuthRequests,
			Window:   cfg.AuthWindow,
			Logger:   cfg.Logger,
		})
	}

	authHandler := authn.NewHandler(cfg.Logger, cfg.AuthService, cfg.OtpService)
	r.Group(func(r chi.Router) {
		r.Use(authLimit)
		r.Post("/v1/auth/login", authHandler.Login)
		r.Post("/v1/auth/otp/verify", authHandler.VerifyOtp)
		r.Post("/v1/auth/forgot-password", authHandler.ForgotPassword)
		r.Post("/v1/auth/reset-password", authHandler.ResetPassword)
	})
	r.Post("/v1/auth/logout", authHandler.Logout)

	requireAuth := middleware.Auth(cfg.TokenService)
	staffOnly := middleware.RequireRole(domain.RoleDoctor, domain.RoleNurse)
	doctorOnly := middleware.RequireRole(domain.RoleDoctor)

	patientsHandler := patients.NewHandler(cfg.Logger, cfg.PatientsRepo)
	allergiesHandler := allergies.NewHandler(cfg.Logger, cfg.AllergiesRepo)
	medicationsHandler := medications.NewHandler(cfg.Logger, cfg.MedicationService, cfg.MedicationsRepo)
	notesHandler := notes.NewHandler(cfg.Logger, cfg.NotesRepo)
	historyHandler := history.NewHandler(cfg.Logger, cfg.HistoryRepo)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/v1/patients", func(r chi.Router) {
			r.With(staffOnly).Get("/", patientsHandler.List)
			r.With(staffOnly).Post("/", patientsHandler.Create)

			r.Route("/{patientID}", func(r chi.Router) {
				r.Get("/", patientsHandler.Get)
				r.With(staffOnly).Put("/", patientsHandler.Update)
				r.With(staffOnly).Delete("/", patientsHandler.Delete)

				r.Get("/allergies", allergiesHandler.List)
				r.With(staffOnly).Post("/allergies", allergiesHandler.Create)
				r.With(staffOnly).Delete("/allergies/{allergyID}", allergiesHandler.Delete)

				r.Get("/medications", medicationsHandler.List)
				r.With(doctorOnly).Post("/medications", medicationsHandler.Create)
				r.With(doctorOnly).Put("/medications/{medicationID}", medicationsHandler.Update)

				r.Get("/notes", notesHandler.List)
				r.With(staffOnly).Post("/notes", notesHandler.Create)
				r.With(staffOnly).Delete("/notes/{noteID}", notesHandler.Delete)

				r.Get("/history", historyHandler.List)
				r.With(staffOnly).Post("/history", historyHandler.Create)
			})
		})
	})

	return r
}
