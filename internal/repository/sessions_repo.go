package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/google/uuid"
)

// SessionsRepository handles session persistence.
type SessionsRepository struct {
	db *sql.DB
}

// NewSessionsRepository creates a new sessions repository.
func NewSessionsRepository(db *sql.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

// Create creates a new session.
func (r *SessionsRepository) Create(ctx context.Context, session *domain.UserSession) error {
	query := `
		INSERT INTO user_sessions (id, user_id, token_hash, created_at, expires_at, is_active, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.TokenHash, session.CreatedAt,
		session.ExpiresAt, session.IsActive, session.IPAddress,
	)
	return err
}

// GetActiveByTokenHash retrieves an active session by token hash.
func (r *SessionsRepository) GetActiveByTokenHash(ctx context.Context, tokenHash string) (*domain.UserSession, error) {
	query := `
		SELECT id, user_id, token_hash, created_at, expires_at, is_active, ip_address, last_activity_time
		FROM user_sessions
		WHERE token_hash = $1 AND is_active = true
	`
	session := &domain.UserSession{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&session.ID, &session.UserID, &session.TokenHash, &session.CreatedAt,
		&session.ExpiresAt, &session.IsActive, &session.IPAddress, &session.LastActivityTime,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Deactivate marks a session inactive.
func (r *SessionsRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE user_sessions SET is_active = false WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// TouchLastActivity records request activity on a session.
func (r *SessionsRepository) TouchLastActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE user_sessions SET last_activity_time = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}

// DeactivateAllByUser deactivates every session for a user.
func (r *SessionsRepository) DeactivateAllByUser(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE user_sessions SET is_active = false WHERE user_id = $1 AND is_active = true`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
