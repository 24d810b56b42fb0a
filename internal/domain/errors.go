package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked due to too many failed login attempts")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid token")
)

// OTP errors
var (
	ErrInvalidOtp         = errors.New("invalid or expired verification code")
	ErrOtpExpired         = errors.New("verification code expired")
	ErrMissingContactInfo = errors.New("no contact address on file for verification code delivery")
)

// Clinical record errors
var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrAllergyNotFound    = errors.New("allergy not found")
	ErrMedicationNotFound = errors.New("medication not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrValidation         = errors.New("validation failed")
)
