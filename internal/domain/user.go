package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies what a user is allowed to do.
type Role string

const (
	RoleDoctor  Role = "DOCTOR"
	RoleNurse   Role = "NURSE"
	RolePatient Role = "PATIENT"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RoleNurse, RolePatient:
		return true
	}
	return false
}

// MaxFailedLoginAttempts is the number of consecutive failed password
// checks after which an account is locked.
const MaxFailedLoginAttempts = 3

// User represents a staff or patient account.
type User struct {
	ID                  uuid.UUID
	Username            string
	Email               string
	Name                string
	Role                Role
	FailedLoginAttempts int
	IsLocked            bool
	LastLoginTime       *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// RecordFailedLogin increments the failed-attempt counter and locks the
// account when the counter reaches MaxFailedLoginAttempts.
func (u *User) RecordFailedLogin() {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= MaxFailedLoginAttempts {
		u.IsLocked = true
	}
}

// RecordSuccessfulLogin resets the failed-attempt counter.
func (u *User) RecordSuccessfulLogin(now time.Time) {
	u.FailedLoginAttempts = 0
	u.LastLoginTime = &now
}

// UserCredential stores the password hash separately from the profile.
type UserCredential struct {
	UserID            uuid.UUID
	PasswordHash      string
	PasswordUpdatedAt time.Time
}
