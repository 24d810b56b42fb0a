package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/google/uuid"
)

// AllergiesRepository handles allergy persistence. Allergies reference
// their patient by ID only.
type AllergiesRepository struct {
	db *sql.DB
}

// NewAllergiesRepository creates a new allergies repository.
func NewAllergiesRepository(db *sql.DB) *AllergiesRepository {
	return &AllergiesRepository{db: db}
}

// Create records an allergy.
func (r *AllergiesRepository) Create(ctx context.Context, a *domain.Allergy) error {
	query := `
		INSERT INTO allergies (id, patient_id, substance, severity, reaction, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.PatientID, a.Substance, a.Severity, a.Reaction, a.CreatedAt,
	)
	return err
}

// FindAllByPatient returns all recorded allergies for a patient.
func (r *AllergiesRepository) FindAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*domain.Allergy, error) {
	query := `
		SELECT id, patient_id, substance, severity, reaction, created_at
		FROM allergies
		WHERE patient_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var allergies []*domain.Allergy
	for rows.Next() {
		a := &domain.Allergy{}
		if err := rows.Scan(&a.ID, &a.PatientID, &a.Substance, &a.Severity, &a.Reaction, &a.CreatedAt); err != nil {
			return nil, err
		}
		allergies = append(allergies, a)
	}
	return allergies, rows.Err()
}

// GetByID retrieves an allergy by ID.
func (r *AllergiesRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Allergy, error) {
	query := `
		SELECT id, patient_id, substance, severity, reaction, created_at
		FROM allergies
		WHERE id = $1
	`
	a := &domain.Allergy{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.PatientID, &a.Substance, &a.Severity, &a.Reaction, &a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAllergyNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an allergy record.
func (r *AllergiesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM allergies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAllergyNotFound
	}
	return nil
}
