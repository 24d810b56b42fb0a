package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/google/uuid"
)

// PendingLogin acknowledges a successful password check. No token is
// issued until the second factor is verified.
type PendingLogin struct {
	UserID   uuid.UUID
	Username string
	Name     string
	Role     domain.Role
}

// AuthenticationService validates credentials, enforces the lockout
// policy, triggers OTP issuance and manages logout.
type AuthenticationService struct {
	logger   *slog.Logger
	users    UserStore
	creds    CredentialStore
	sessions SessionStore
	otp      *OtpService
	now      func() time.Time
}

// NewAuthenticationService creates a new authentication service.
func NewAuthenticationService(
	logger *slog.Logger,
	users UserStore,
	creds CredentialStore,
	sessions SessionStore,
	otp *OtpService,
) *AuthenticationService {
	return &AuthenticationService{
		logger:   logger,
		users:    users,
		creds:    creds,
		sessions: sessions,
		otp:      otp,
		now:      time.Now,
	}
}

// Login verifies username and password. On success it resets the
// failed-attempt counter and sends a one-time code; the caller gets a
// pending-login acknowledgment and must complete the OTP step.
//
// Attempt bookkeeping is persisted before OTP issuance so a notifier
// failure can never mask a lockout state change.
func (s *AuthenticationService) Login(ctx context.Context, username, password, ip string) (*PendingLogin, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user.IsLocked {
		return nil, domain.ErrAccountLocked
	}

	cred, err := s.creds.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if !VerifyPassword(password, cred.PasswordHash) {
		user.RecordFailedLogin()
		if err := s.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to record login attempt: %w", err)
		}
		if user.IsLocked {
			s.logger.Warn("account locked", "user_id", user.ID, "ip", ip)
		}
		return nil, domain.ErrInvalidCredentials
	}

	user.FailedLoginAttempts = 0
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to reset login attempts: %w", err)
	}

	if err := s.otp.GenerateAndSend(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("password verified, verification code sent", "user_id", user.ID, "ip", ip)

	return &PendingLogin{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	}, nil
}

// Logout deactivates the session matching the presented token. An
// optional "Bearer " prefix is stripped before lookup.
func (s *AuthenticationService) Logout(ctx context.Context, bearerToken string) error {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(bearerToken), "Bearer "))
	if token == "" {
		return domain.ErrSessionNotFound
	}

	session, err := s.sessions.GetActiveByTokenHash(ctx, HashToken(token))
	if err != nil {
		return err
	}

	return s.sessions.Deactivate(ctx, session.ID)
}

// InitiateForgotPassword sends a one-time code for a password reset.
func (s *AuthenticationService) InitiateForgotPassword(ctx context.Context, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.otp.GenerateAndSend(ctx, user)
}

// ResetPassword replaces the password hash once a valid one-time code
// has been consumed.
func (s *AuthenticationService) ResetPassword(ctx context.Context, username, otpCode, newPassword string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.otp.ConsumeCode(ctx, user, otpCode); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.creds.Update(ctx, &domain.UserCredential{
		UserID:            user.ID,
		PasswordHash:      hash,
		PasswordUpdatedAt: s.now(),
	})
}
