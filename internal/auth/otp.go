package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/google/uuid"
)

// DefaultSessionTTL is the login session lifetime when none is
// configured.
const DefaultSessionTTL = 12 * time.Hour

// sessionTokenLen is the entropy, in bytes, of opaque session tokens.
const sessionTokenLen = 32

// VerifyOtpRequest carries the second-factor verification input.
type VerifyOtpRequest struct {
	Username  string
	Code      string
	IPAddress string
}

// LoginResult is returned once the second factor is verified.
type LoginResult struct {
	AccessToken  string
	SessionToken string
	TokenType    string
	ExpiresIn    int
	ExpiresAt    time.Time
	UserID       uuid.UUID
	Username     string
	Name         string
	Role         domain.Role
}

// OtpService generates, invalidates and verifies one-time codes, and
// finalizes login once a code is verified.
type OtpService struct {
	logger     *slog.Logger
	users      UserStore
	tokens     OtpStore
	sessions   SessionStore
	issuer     *TokenService
	notifier   Notifier
	sessionTTL time.Duration
	now        func() time.Time
}

// NewOtpService creates a new OTP service.
func NewOtpService(
	logger *slog.Logger,
	users UserStore,
	tokens OtpStore,
	sessions SessionStore,
	issuer *TokenService,
	notifier Notifier,
	sessionTTL time.Duration,
) *OtpService {
	if sessionTTL == 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &OtpService{
		logger:     logger,
		users:      users,
		tokens:     tokens,
		sessions:   sessions,
		issuer:     issuer,
		notifier:   notifier,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// GenerateAndSend invalidates any prior unused codes for the user,
// issues a fresh 6-digit code and delivers it to the user's registered
// email address. Delivery failure does not roll back the stored token.
func (s *OtpService) GenerateAndSend(ctx context.Context, user *domain.User) error {
	if strings.TrimSpace(user.Email) == "" {
		return domain.ErrMissingContactInfo
	}

	code, err := GenerateOtpCode()
	if err != nil {
		return err
	}
	codeHash, err := HashPassword(code)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}

	// At most one valid token per user: supersede before inserting.
	if err := s.tokens.InvalidateUnused(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to invalidate prior codes: %w", err)
	}

	now := s.now()
	token := &domain.OtpToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		CodeHash:  codeHash,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.OtpTokenTTL),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	// Delivery runs outside the persistence path; the token stays
	// valid even when the notifier fails.
	if err := s.notifier.SendOtp(user.Email, code); err != nil {
		s.logger.Error("failed to deliver verification code", "error", err, "user_id", user.ID)
	}

	return nil
}

// ConsumeCode verifies a one-time code for the user and marks it used.
// A mismatch increments the token's attempt counter before failing.
func (s *OtpService) ConsumeCode(ctx context.Context, user *domain.User, code string) error {
	now := s.now()

	token, err := s.tokens.FindNewestValid(ctx, user.ID, now)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOtp) {
			return domain.ErrInvalidOtp
		}
		return err
	}

	// The query filters on expiry at query time; re-check against the
	// current clock since the row may have aged in between.
	if token.IsExpired(now) {
		return domain.ErrOtpExpired
	}
	if token.Used {
		return domain.ErrInvalidOtp
	}
	if token.AttemptCount >= domain.MaxOtpAttempts {
		return domain.ErrInvalidOtp
	}

	if !VerifyPassword(code, token.CodeHash) {
		token.AttemptCount++
		if err := s.tokens.Update(ctx, token); err != nil {
			return err
		}
		return domain.ErrInvalidOtp
	}

	token.Used = true
	return s.tokens.Update(ctx, token)
}

// VerifyAndCompleteLogin checks the submitted code and, on success,
// creates a session and mints an access token.
func (s *OtpService) VerifyAndCompleteLogin(ctx context.Context, req VerifyOtpRequest) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if err := s.ConsumeCode(ctx, user, req.Code); err != nil {
		return nil, err
	}

	now := s.now()
	user.RecordSuccessfulLogin(now)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	sessionToken, err := GenerateToken(sessionTokenLen)
	if err != nil {
		return nil, err
	}
	session := &domain.UserSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: HashToken(sessionToken),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
		IsActive:  true,
		IPAddress: req.IPAddress,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, expiresAt, err := s.issuer.Mint(user, session.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to mint access token: %w", err)
	}

	s.logger.Info("login completed", "user_id", user.ID, "ip", req.IPAddress)

	return &LoginResult{
		AccessToken:  accessToken,
		SessionToken: sessionToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.issuer.AccessTokenTTL().Seconds()),
		ExpiresAt:    expiresAt,
		UserID:       user.ID,
		Username:     user.Username,
		Name:         user.Name,
		Role:         user.Role,
	}, nil
}
