package domain

import (
	"testing"
	"time"
)

func TestUser_RecordFailedLogin(t *testing.T) {
	u := &User{}

	u.RecordFailedLogin()
	if u.FailedLoginAttempts != 1 || u.IsLocked {
		t.Fatalf("after 1 failure: attempts=%d locked=%v", u.FailedLoginAttempts, u.IsLocked)
	}

	u.RecordFailedLogin()
	if u.FailedLoginAttempts != 2 || u.IsLocked {
		t.Fatalf("after 2 failures: attempts=%d locked=%v", u.FailedLoginAttempts, u.IsLocked)
	}

	u.RecordFailedLogin()
	if u.FailedLoginAttempts != 3 {
		t.Fatalf("after 3 failures: attempts=%d", u.FailedLoginAttempts)
	}
	if !u.IsLocked {
		t.Error("account should be locked after the third failure")
	}
}

func TestUser_RecordSuccessfulLogin(t *testing.T) {
	now := time.Now()
	u := &User{FailedLoginAttempts: 2}

	u.RecordSuccessfulLogin(now)

	if u.FailedLoginAttempts != 0 {
		t.Errorf("attempts = %d, want 0", u.FailedLoginAttempts)
	}
	if u.LastLoginTime == nil || !u.LastLoginTime.Equal(now) {
		t.Errorf("last login time = %v, want %v", u.LastLoginTime, now)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleDoctor, RoleNurse, RolePatient} {
		if !r.Valid() {
			t.Errorf("Role(%q).Valid() = false", r)
		}
	}
	if Role("ADMIN").Valid() {
		t.Error(`Role("ADMIN").Valid() = true, want false`)
	}
}

func TestUserSession_IsUsable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		session UserSession
		want    bool
	}{
		{
			name:    "active and unexpired",
			session: UserSession{IsActive: true, ExpiresAt: now.Add(time.Hour)},
			want:    true,
		},
		{
			name:    "active at exact expiry instant",
			session: UserSession{IsActive: true, ExpiresAt: now},
			want:    true,
		},
		{
			name:    "deactivated",
			session: UserSession{IsActive: false, ExpiresAt: now.Add(time.Hour)},
			want:    false,
		},
		{
			name:    "expired",
			session: UserSession{IsActive: true, ExpiresAt: now.Add(-time.Second)},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.IsUsable(now); got != tt.want {
				t.Errorf("IsUsable() = %v, want %v", got, tt.want)
			}
		})
	}
}
