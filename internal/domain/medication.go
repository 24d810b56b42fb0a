package domain

import (
	"time"

	"github.com/google/uuid"
)

// MedicationStatus tracks the lifecycle of a prescription or
// administration record.
type MedicationStatus string

const (
	MedicationActive    MedicationStatus = "active"
	MedicationCompleted MedicationStatus = "completed"
	MedicationStopped   MedicationStatus = "stopped"
)

// Medication is a prescribed or administered drug for a patient.
// ConflictFlag, ConflictDetails and OverrideJustification are set only
// when a conflicting prescription is force-saved by a doctor override;
// otherwise they stay zero-valued.
type Medication struct {
	ID                    uuid.UUID        `json:"id"`
	PatientID             uuid.UUID        `json:"patient_id"`
	DoctorID              uuid.UUID        `json:"doctor_id"`
	DrugName              string           `json:"drug_name"`
	Dose                  string           `json:"dose,omitempty"`
	Frequency             string           `json:"frequency,omitempty"`
	Duration              string           `json:"duration,omitempty"`
	Route                 string           `json:"route,omitempty"`
	PrescribedAt          time.Time        `json:"prescribed_at"`
	IsPrescription        bool             `json:"is_prescription"`
	Status                MedicationStatus `json:"status"`
	ConflictFlag          bool             `json:"conflict_flag"`
	ConflictDetails       string           `json:"conflict_details,omitempty"`
	OverrideJustification string           `json:"override_justification,omitempty"`
}

// IsActive reports whether the medication counts toward conflict
// evaluation of new prescriptions.
func (m *Medication) IsActive() bool {
	return m.Status == MedicationActive
}
