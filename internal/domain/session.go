package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserSession binds an issued access token to a user. The opaque token
// is stored hashed; lookups hash the presented token first.
type UserSession struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	TokenHash        string
	CreatedAt        time.Time
	ExpiresAt        time.Time
	IsActive         bool
	IPAddress        string
	LastActivityTime *time.Time
}

// IsUsable reports whether the session can still authenticate requests.
func (s *UserSession) IsUsable(now time.Time) bool {
	return s.IsActive && !now.After(s.ExpiresAt)
}
