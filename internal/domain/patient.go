package domain

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the demographic record. Allergies, medications, notes and
// history entries reference it by ID only; there is no navigable object
// graph between them.
type Patient struct {
	ID          uuid.UUID `json:"id"`
	MRN         string    `json:"mrn"` // medical record number, unique
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      string    `json:"gender,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Allergy records a substance a patient reacts to.
type Allergy struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	Substance string    `json:"substance"`
	Severity  string    `json:"severity,omitempty"`
	Reaction  string    `json:"reaction,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MedicalNote is a free-text note on a patient chart.
type MedicalNote struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MedicalHistoryEntry records a past condition or procedure.
type MedicalHistoryEntry struct {
	ID          uuid.UUID  `json:"id"`
	PatientID   uuid.UUID  `json:"patient_id"`
	Condition   string     `json:"condition"`
	Details     string     `json:"details,omitempty"`
	DiagnosedAt *time.Time `json:"diagnosed_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
