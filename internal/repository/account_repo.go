package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MohammedIbrahim8887/helix/internal/models"
)

type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// GetByUserID resolves the account behind an identity-provider user id.
func (r *AccountRepo) GetByUserID(ctx context.Context, userID string) (*models.Account, error) {
	query := `
		SELECT id, user_id, created_at
		FROM accounts
		WHERE user_id = $1
	`
	var acc models.Account
	err := r.pool.QueryRow(ctx, query, userID).Scan(&acc.ID, &acc.UserID, &acc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acc, nil
}

// Ensure returns the account for userID, creating it on first sign-in.
func (r *AccountRepo) Ensure(ctx context.Context, userID string) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at
	`
	var acc models.Account
	err := r.pool.QueryRow(ctx, query, uuid.New(), userID).Scan(&acc.ID, &acc.UserID, &acc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure account: %w", err)
	}
	return &acc, nil
}
