package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/google/uuid"
)

// NotesRepository handles chart note persistence.
type NotesRepository struct {
	db *sql.DB
}

// NewNotesRepository creates a new notes repository.
func NewNotesRepository(db *sql.DB) *NotesRepository {
	return &NotesRepository{db: db}
}

// Create stores a note.
func (r *NotesRepository) Create(ctx context.Context, n *domain.MedicalNote) error {
	query := `
		INSERT INTO medical_notes (id, patient_id, author_id, title, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.PatientID, n.AuthorID, n.Title, n.Body, n.CreatedAt, n.UpdatedAt,
	)
	return err
}

// FindAllByPatient returns a patient's notes, newest first.
func (r *NotesRepository) FindAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*domain.MedicalNote, error) {
	query := `
		SELECT id, patient_id, author_id, title, body, created_at, updated_at
		FROM medical_notes
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.MedicalNote
	for rows.Next() {
		n := &domain.MedicalNote{}
		if err := rows.Scan(&n.ID, &n.PatientID, &n.AuthorID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Update updates a note's title and body.
func (r *NotesRepository) Update(ctx context.Context, n *domain.MedicalNote) error {
	query := `UPDATE medical_notes SET title = $2, body = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, n.ID, n.Title, n.Body, time.Now())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

// Delete removes a note.
func (r *NotesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM medical_notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

// HistoryRepository handles medical history persistence.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create stores a history entry.
func (r *HistoryRepository) Create(ctx context.Context, h *domain.MedicalHistoryEntry) error {
	query := `
		INSERT INTO medical_history (id, patient_id, condition, details, diagnosed_at, resolved_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.PatientID, h.Condition, h.Details, h.DiagnosedAt, h.ResolvedAt, h.CreatedAt,
	)
	return err
}

// FindAllByPatient returns a patient's history entries, newest first.
func (r *HistoryRepository) FindAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*domain.MedicalHistoryEntry, error) {
	query := `
		SELECT id, patient_id, condition, details, diagnosed_at, resolved_at, created_at
		FROM medical_history
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.MedicalHistoryEntry
	for rows.Next() {
		h := &domain.MedicalHistoryEntry{}
		if err := rows.Scan(&h.ID, &h.PatientID, &h.Condition, &h.Details, &h.DiagnosedAt, &h.ResolvedAt, &h.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

// GetByID retrieves a history entry.
func (r *HistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MedicalHistoryEntry, error) {
	query := `
		SELECT id, patient_id, condition, details, diagnosed_at, resolved_at, created_at
		FROM medical_history
		WHERE id = $1
	`
	h := &domain.MedicalHistoryEntry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&h.ID, &h.PatientID, &h.Condition, &h.Details, &h.DiagnosedAt, &h.ResolvedAt, &h.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}
