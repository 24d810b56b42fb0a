package domain

import (
	"testing"
	"time"
)

func TestOtpToken_IsExpired(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := &OtpToken{
		CreatedAt: issued,
		ExpiresAt: issued.Add(OtpTokenTTL),
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{
			name: "just issued",
			now:  issued,
			want: false,
		},
		{
			name: "one second before expiry",
			now:  issued.Add(OtpTokenTTL - time.Second),
			want: false,
		},
		{
			name: "exactly at expiry",
			now:  issued.Add(OtpTokenTTL),
			want: true,
		},
		{
			name: "after expiry",
			now:  issued.Add(OtpTokenTTL + time.Minute),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := token.IsExpired(tt.now); got != tt.want {
				t.Errorf("IsExpired(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestOtpToken_IsValid(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		used         bool
		attemptCount int
		now          time.Time
		want         bool
	}{
		{
			name: "fresh token",
			now:  issued.Add(time.Minute),
			want: true,
		},
		{
			name: "used token",
			used: true,
			now:  issued.Add(time.Minute),
			want: false,
		},
		{
			name: "expired token",
			now:  issued.Add(OtpTokenTTL),
			want: false,
		},
		{
			name:         "two mismatches still valid",
			attemptCount: 2,
			now:          issued.Add(time.Minute),
			want:         true,
		},
		{
			name:         "three mismatches dead",
			attemptCount: 3,
			now:          issued.Add(time.Minute),
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &OtpToken{
				CreatedAt:    issued,
				ExpiresAt:    issued.Add(OtpTokenTTL),
				Used:         tt.used,
				AttemptCount: tt.attemptCount,
			}
			if got := token.IsValid(tt.now); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
