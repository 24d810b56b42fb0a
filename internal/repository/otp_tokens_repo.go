package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/google/uuid"
)

// OtpTokensRepository handles one-time code persistence.
type OtpTokensRepository struct {
	db *sql.DB
}

// NewOtpTokensRepository creates a new OTP tokens repository.
func NewOtpTokensRepository(db *sql.DB) *OtpTokensRepository {
	return &OtpTokensRepository{db: db}
}

// Create stores a new token.
func (r *OtpTokensRepository) Create(ctx context.Context, token *domain.OtpToken) error {
	query := `
		INSERT INTO otp_tokens (id, user_id, code_hash, created_at, expires_at, used, attempt_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.CodeHash, token.CreatedAt,
		token.ExpiresAt, token.Used, token.AttemptCount,
	)
	return err
}

// Update persists the used flag and attempt counter.
func (r *OtpTokensRepository) Update(ctx context.Context, token *domain.OtpToken) error {
	query := `
		UPDATE otp_tokens
		SET used = $2, attempt_count = $3
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, token.ID, token.Used, token.AttemptCount)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInvalidOtp
	}
	return nil
}

// InvalidateUnused marks every unused token for the user as used, so
// at most one valid token exists once a new one is inserted.
func (r *OtpTokensRepository) InvalidateUnused(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE otp_tokens SET used = true WHERE user_id = $1 AND used = false`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// FindNewestValid returns the newest unused, unexpired token for the
// user, or domain.ErrInvalidOtp when none exists.
func (r *OtpTokensRepository) FindNewestValid(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.OtpToken, error) {
	query := `
		SELECT id, user_id, code_hash, created_at, expires_at, used, attempt_count
		FROM otp_tokens
		WHERE user_id = $1 AND used = false AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	token := &domain.OtpToken{}
	err := r.db.QueryRowContext(ctx, query, userID, now).Scan(
		&token.ID, &token.UserID, &token.CodeHash, &token.CreatedAt,
		&token.ExpiresAt, &token.Used, &token.AttemptCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInvalidOtp
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}

// DeleteExpired removes tokens past their expiry. Optional cleanup;
// expired rows are already treated as invalid when encountered.
func (r *OtpTokensRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM otp_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
