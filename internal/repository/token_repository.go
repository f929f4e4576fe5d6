package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Dan9191/bank-cards/internal/models"
)

// TokenRepository stores refresh tokens in Postgres.
type TokenRepository struct {
	*Repository
}

// NewTokenRepository initializes a refresh token repository over db.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{Repository: NewRepository(db)}
}

// Create stores a refresh token.
func (r *TokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	query := `INSERT INTO refresh_tokens (id, token, user_id, expires_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.conn(ctx).ExecContext(ctx, query, token.ID, token.Token, token.UserID, token.ExpiresAt); err != nil {
		return mapPgError(fmt.Errorf("failed to create refresh token: %w", err))
	}
	return nil
}

// GetByToken retrieves a refresh token by its value.
func (r *TokenRepository) GetByToken(ctx context.Context, value string) (*models.RefreshToken, error) {
	token := &models.RefreshToken{}
	err := r.conn(ctx).QueryRowContext(ctx,
		`SELECT id, token, user_id, expires_at FROM refresh_tokens WHERE token = $1`, value).
		Scan(&token.ID, &token.Token, &token.UserID, &token.ExpiresAt)
	if err != nil {
		return nil, mapPgError(fmt.Errorf("failed to find refresh token: %w", err))
	}
	return token, nil
}

// Delete removes a single refresh token.
func (r *TokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id); err != nil {
		return mapPgError(fmt.Errorf("failed to delete refresh token: %w", err))
	}
	return nil
}

// DeleteByUserID removes every refresh token of a user.
func (r *TokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return mapPgError(fmt.Errorf("failed to delete refresh tokens: %w", err))
	}
	return nil
}
