package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/google/uuid"
)

// PatientsRepository handles patient demographic persistence.
type PatientsRepository struct {
	db *sql.DB
}

// NewPatientsRepository creates a new patients repository.
func NewPatientsRepository(db *sql.DB) *PatientsRepository {
	return &PatientsRepository{db: db}
}

const patientColumns = `id, mrn, first_name, last_name, date_of_birth, gender, phone, email, address, created_at, updated_at`

// Create creates a patient record.
func (r *PatientsRepository) Create(ctx context.Context, p *domain.Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.MRN, p.FirstName, p.LastName, p.DateOfBirth, p.Gender,
		p.Phone, p.Email, p.Address, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a patient by ID.
func (r *PatientsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	p := &domain.Patient{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.MRN, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender,
		&p.Phone, &p.Email, &p.Address, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns patients ordered by last name.
func (r *PatientsRepository) List(ctx context.Context, limit, offset int) ([]*domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY last_name, first_name LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*domain.Patient
	for rows.Next() {
		p := &domain.Patient{}
		if err := rows.Scan(
			&p.ID, &p.MRN, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender,
			&p.Phone, &p.Email, &p.Address, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

// Update updates a patient record.
func (r *PatientsRepository) Update(ctx context.Context, p *domain.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $2, last_name = $3, date_of_birth = $4, gender = $5,
		    phone = $6, email = $7, address = $8, updated_at = $9
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender,
		p.Phone, p.Email, p.Address, time.Now(),
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

// Delete removes a patient record.
func (r *PatientsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}
