package authn

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/carebridge/hospital-api/internal/auth"
	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/carebridge/hospital-api/internal/httputil"
)

// Handler handles authentication endpoints.
type Handler struct {
	logger  *slog.Logger
	authSvc *auth.AuthenticationService
	otpSvc  *auth.OtpService
}

// NewHandler creates a new authentication handler.
func NewHandler(logger *slog.Logger, authSvc *auth.AuthenticationService, otpSvc *auth.OtpService) *Handler {
	return &Handler{
		logger:  logger,
		authSvc: authSvc,
		otpSvc:  otpSvc,
	}
}

// LoginRequest represents a first-factor login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// VerifyOtpRequest represents the second-factor verification request.
type VerifyOtpRequest struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Username string `json:"username"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Username    string `json:"username"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// Login handles the password step. On success a one-time code is sent
// and the caller must complete verification; no token is issued here.
// POST /v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	pending, err := h.authSvc.Login(r.Context(), req.Username, req.Password, r.RemoteAddr)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountLocked):
			httputil.Error(w, http.StatusLocked, "account locked due to too many failed login attempts")
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidCredentials):
			// Unknown users get the same answer as bad passwords.
			httputil.Error(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, domain.ErrMissingContactInfo):
			httputil.Error(w, http.StatusBadRequest, "no contact address on file; contact the service desk")
		default:
			h.logger.Error("login failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"message":  "verification code sent",
		"username": pending.Username,
		"name":     pending.Name,
		"role":     pending.Role,
	})
}

// VerifyOtp handles the second factor and issues tokens.
// POST /v1/auth/otp/verify
func (h *Handler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req VerifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Code == "" {
		httputil.Error(w, http.StatusBadRequest, "username and code are required")
		return
	}

	result, err := h.otpSvc.VerifyAndCompleteLogin(r.Context(), auth.VerifyOtpRequest{
		Username:  req.Username,
		Code:      req.Code,
		IPAddress: r.RemoteAddr,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOtpExpired):
			httputil.Error(w, http.StatusUnauthorized, "verification code expired")
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidOtp):
			httputil.Error(w, http.StatusUnauthorized, "invalid verification code")
		default:
			h.logger.Error("otp verification failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "verification failed")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"access_token":  result.AccessToken,
		"session_token": result.SessionToken,
		"token_type":    result.TokenType,
		"expires_in":    result.ExpiresIn,
		"expires_at":    result.ExpiresAt,
		"user": map[string]any{
			"id":       result.UserID,
			"username": result.Username,
			"name":     result.Name,
			"role":     result.Role,
		},
	})
}

// Logout deactivates the session presented in the Authorization header.
// POST /v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("Authorization")
	if err := h.authSvc.Logout(r.Context(), token); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			httputil.Error(w, http.StatusBadRequest, "no active session for token")
			return
		}
		h.logger.Error("logout failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "logout failed")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ForgotPassword sends a reset code. The response does not reveal
// whether the account exists.
// POST /v1/auth/forgot-password
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		httputil.Error(w, http.StatusBadRequest, "username is required")
		return
	}

	if err := h.authSvc.InitiateForgotPassword(r.Context(), req.Username); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) && !errors.Is(err, domain.ErrMissingContactInfo) {
			h.logger.Error("forgot password failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "request failed")
			return
		}
		h.logger.Info("forgot password for unknown or unreachable account", "username", req.Username)
	}

	httputil.JSON(w, http.StatusOK, map[string]string{
		"message": "if the account exists, a reset code has been sent",
	})
}

// ResetPassword sets a new password after a valid reset code.
// POST /v1/auth/reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Code == "" || req.NewPassword == "" {
		httputil.Error(w, http.StatusBadRequest, "username, code and new_password are required")
		return
	}

	if err := h.authSvc.ResetPassword(r.Context(), req.Username, req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrOtpExpired):
			httputil.Error(w, http.StatusUnauthorized, "verification code expired")
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidOtp):
			httputil.Error(w, http.StatusUnauthorized, "invalid verification code")
		default:
			h.logger.Error("password reset failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "reset failed")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
