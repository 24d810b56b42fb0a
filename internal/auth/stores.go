package auth

import (
	"context"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/google/uuid"
)

// UserStore is the credential-store collaborator for user lookup and
// failed-attempt/lock bookkeeping.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// CredentialStore persists password hashes separately from profiles.
type CredentialStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserCredential, error)
	Update(ctx context.Context, cred *domain.UserCredential) error
}

// OtpStore persists one-time codes. FindNewestValid is scoped to
// unused tokens with expires_at > now, newest first, and returns
// domain.ErrInvalidOtp when none match.
type OtpStore interface {
	Create(ctx context.Context, token *domain.OtpToken) error
	Update(ctx context.Context, token *domain.OtpToken) error
	InvalidateUnused(ctx context.Context, userID uuid.UUID) error
	FindNewestValid(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.OtpToken, error)
}

// SessionStore persists login sessions. GetActiveByTokenHash returns
// domain.ErrSessionNotFound when no active session matches.
type SessionStore interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetActiveByTokenHash(ctx context.Context, tokenHash string) (*domain.UserSession, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// Notifier delivers a one-time code to a user's registered address.
// Delivery failures are the caller's to recover; they must not abort
// the surrounding OTP transaction.
type Notifier interface {
	SendOtp(to, code string) error
}
