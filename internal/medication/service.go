package medication

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/google/uuid"
)

// AllergyStore lists a patient's recorded allergies.
type AllergyStore interface {
	FindAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*domain.Allergy, error)
}

// MedicationStore persists medication rows.
type MedicationStore interface {
	FindAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*domain.Medication, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Medication, error)
	Create(ctx context.Context, m *domain.Medication) error
	Update(ctx context.Context, m *domain.Medication) error
}

// Candidate describes a prescription to be written.
type Candidate struct {
	DrugName  string
	Dose      string
	Frequency string
	Duration  string
	Route     string
}

// Result reports the outcome of a prescription write.
type Result struct {
	Conflicts    bool
	Messages     []string
	Prescription *domain.Medication // nil when conflicts blocked the save
}

// Service writes prescriptions after conflict evaluation.
type Service struct {
	logger      *slog.Logger
	allergies   AllergyStore
	medications MedicationStore
	checker     *ConflictChecker
	now         func() time.Time
}

// NewService creates a medication service.
func NewService(logger *slog.Logger, allergies AllergyStore, medications MedicationStore, checker *ConflictChecker) *Service {
	return &Service{
		logger:      logger,
		allergies:   allergies,
		medications: medications,
		checker:     checker,
		now:         time.Now,
	}
}

// CreatePrescription evaluates the candidate against the patient's
// allergies and active medications. A clean candidate is saved. A
// conflicting candidate is saved only under an override, carrying the
// conflict details and the doctor's justification.
func (s *Service) CreatePrescription(ctx context.Context, patientID, doctorID uuid.UUID, candidate Candidate, override bool, justification string) (*Result, error) {
	if override && strings.TrimSpace(justification) == "" {
		return nil, fmt.Errorf("%w: override requires a justification", domain.ErrValidation)
	}
	if strings.TrimSpace(candidate.DrugName) == "" {
		return nil, fmt.Errorf("%w: drug name is required", domain.ErrValidation)
	}

	allergies, err := s.allergies.FindAllByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load allergies: %w", err)
	}
	current, err := s.medications.FindAllByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load medications: %w", err)
	}

	messages := s.checker.Evaluate(candidate.DrugName, allergies, current)

	m := &domain.Medication{
		ID:             uuid.New(),
		PatientID:      patientID,
		DoctorID:       doctorID,
		DrugName:       candidate.DrugName,
		Dose:           candidate.Dose,
		Frequency:      candidate.Frequency,
		Duration:       candidate.Duration,
		Route:          candidate.Route,
		PrescribedAt:   s.now(),
		IsPrescription: true,
		Status:         domain.MedicationActive,
	}

	if len(messages) == 0 {
		if err := s.medications.Create(ctx, m); err != nil {
			return nil, fmt.Errorf("failed to save prescription: %w", err)
		}
		return &Result{Prescription: m}, nil
	}

	if !override {
		s.logger.Info("prescription blocked by conflicts",
			"patient_id", patientID, "drug", candidate.DrugName, "conflicts", len(messages))
		return &Result{Conflicts: true, Messages: messages}, nil
	}

	m.ConflictFlag = true
	m.ConflictDetails = strings.Join(messages, "; ")
	m.OverrideJustification = justification
	if err := s.medications.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save prescription: %w", err)
	}

	s.logger.Warn("conflicting prescription saved under override",
		"patient_id", patientID, "doctor_id", doctorID, "drug", candidate.DrugName)

	return &Result{Conflicts: true, Messages: messages, Prescription: m}, nil
}

// UpdateMedication re-runs conflict evaluation against the patient's
// other current medications before applying the update. Override
// semantics match CreatePrescription.
func (s *Service) UpdateMedication(ctx context.Context, patientID, doctorID, medicationID uuid.UUID, candidate Candidate, override bool, justification string) (*Result, error) {
	if override && strings.TrimSpace(justification) == "" {
		return nil, fmt.Errorf("%w: override requires a justification", domain.ErrValidation)
	}

	existing, err := s.medications.GetByID(ctx, medicationID)
	if err != nil {
		return nil, err
	}
	if existing.PatientID != patientID {
		return nil, domain.ErrMedicationNotFound
	}

	allergies, err := s.allergies.FindAllByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load allergies: %w", err)
	}
	current, err := s.medications.FindAllByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load medications: %w", err)
	}

	// The row being updated does not conflict with itself.
	others := current[:0]
	for _, m := range current {
		if m.ID != medicationID {
			others = append(others, m)
		}
	}

	drug := candidate.DrugName
	if strings.TrimSpace(drug) == "" {
		drug = existing.DrugName
	}
	messages := s.checker.Evaluate(drug, allergies, others)

	existing.DrugName = drug
	if candidate.Dose != "" {
		existing.Dose = candidate.Dose
	}
	if candidate.Frequency != "" {
		existing.Frequency = candidate.Frequency
	}
	if candidate.Duration != "" {
		existing.Duration = candidate.Duration
	}
	if candidate.Route != "" {
		existing.Route = candidate.Route
	}

	if len(messages) == 0 {
		existing.ConflictFlag = false
		existing.ConflictDetails = ""
		existing.OverrideJustification = ""
		if err := s.medications.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update prescription: %w", err)
		}
		return &Result{Prescription: existing}, nil
	}

	if !override {
		return &Result{Conflicts: true, Messages: messages}, nil
	}

	existing.ConflictFlag = true
	existing.ConflictDetails = strings.Join(messages, "; ")
	existing.OverrideJustification = justification
	if err := s.medications.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update prescription: %w", err)
	}

	return &Result{Conflicts: true, Messages: messages, Prescription: existing}, nil
}
