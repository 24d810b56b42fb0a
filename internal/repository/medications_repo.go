package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/google/uuid"
)

// MedicationsRepository handles medication persistence. Medications
// reference their patient and prescriber by ID only.
type MedicationsRepository struct {
	db *sql.DB
}

// NewMedicationsRepository creates a new medications repository.
func NewMedicationsRepository(db *sql.DB) *MedicationsRepository {
	return &MedicationsRepository{db: db}
}

const medicationColumns = `id, patient_id, doctor_id, drug_name, dose, frequency, duration, route,
	prescribed_at, is_prescription, status, conflict_flag, conflict_details, override_justification`

func scanMedication(scan func(dest ...any) error) (*domain.Medication, error) {
	m := &domain.Medication{}
	err := scan(
		&m.ID, &m.PatientID, &m.DoctorID, &m.DrugName, &m.Dose, &m.Frequency,
		&m.Duration, &m.Route, &m.PrescribedAt, &m.IsPrescription, &m.Status,
		&m.ConflictFlag, &m.ConflictDetails, &m.OverrideJustification,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create stores a medication row.
func (r *MedicationsRepository) Create(ctx context.Context, m *domain.Medication) error {
	query := `
		INSERT INTO medications (` + medicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.PatientID, m.DoctorID, m.DrugName, m.Dose, m.Frequency,
		m.Duration, m.Route, m.PrescribedAt, m.IsPrescription, m.Status,
		m.ConflictFlag, m.ConflictDetails, m.OverrideJustification,
	)
	return err
}

// GetByID retrieves a medication by ID.
func (r *MedicationsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	m, err := scanMedication(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMedicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// FindAllByPatient returns all medication rows for a patient, newest
// first.
func (r *MedicationsRepository) FindAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*domain.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE patient_id = $1 ORDER BY prescribed_at DESC`
	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meds []*domain.Medication
	for rows.Next() {
		m, err := scanMedication(rows.Scan)
		if err != nil {
			return nil, err
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}

// Update persists a medication's mutable fields.
func (r *MedicationsRepository) Update(ctx context.Context, m *domain.Medication) error {
	query := `
		UPDATE medications
		SET drug_name = $2, dose = $3, frequency = $4, duration = $5, route = $6,
		    status = $7, conflict_flag = $8, conflict_details = $9, override_justification = $10
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		m.ID, m.DrugName, m.Dose, m.Frequency, m.Duration, m.Route,
		m.Status, m.ConflictFlag, m.ConflictDetails, m.OverrideJustification,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMedicationNotFound
	}
	return nil
}
