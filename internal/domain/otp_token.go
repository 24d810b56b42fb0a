package domain

import (
	"time"

	"github.com/google/uuid"
)

// OtpTokenTTL is the fixed lifetime of a one-time code.
const OtpTokenTTL = 5 * time.Minute

// MaxOtpAttempts is the number of cumulative code mismatches after
// which a token stops being valid.
const MaxOtpAttempts = 3

// OtpToken is a short-lived second-factor code issued to a user.
// Only the hash of the code is stored. A token moves one way through
// its lifecycle: issued, then verified (used), superseded (also marked
// used), or expired. It is never reactivated.
type OtpToken struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	CodeHash     string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	Used         bool
	AttemptCount int
}

// IsExpired reports whether the token has expired at the given instant.
// The expiry boundary itself counts as expired.
func (t *OtpToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsValid reports whether the token can still be verified: not used,
// not expired, and under the mismatch limit.
func (t *OtpToken) IsValid(now time.Time) bool {
	return !t.Used && !t.IsExpired(now) && t.AttemptCount < MaxOtpAttempts
}
