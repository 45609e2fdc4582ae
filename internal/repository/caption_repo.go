package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MohammedIbrahim8887/helix/internal/models"
)

// DefaultPageSize matches the dashboard grid size.
const DefaultPageSize = 12

type CaptionRepo struct {
	pool *pgxpool.Pool
}

func NewCaptionRepo(pool *pgxpool.Pool) *CaptionRepo {
	return &CaptionRepo{pool: pool}
}

// Upsert inserts the caption for (accountID, key) or rewrites the existing
// row. The unique constraint on (account_id, key) guarantees one row per
// image regardless of generate/regenerate interleaving.
func (r *CaptionRepo) Upsert(ctx context.Context, accountID uuid.UUID, key, caption string) (*models.CaptionGeneration, error) {
	query := `
		INSERT INTO caption_generations (id, account_id, key, caption, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (account_id, key)
		DO UPDATE SET caption = EXCLUDED.caption, updated_at = NOW()
		RETURNING id, account_id, key, caption, created_at, updated_at
	`
	var gen models.CaptionGeneration
	err := r.pool.QueryRow(ctx, query, uuid.New(), accountID, key, caption).Scan(
		&gen.ID, &gen.AccountID, &gen.Key, &gen.Caption, &gen.CreatedAt, &gen.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert caption: %w", err)
	}
	return &gen, nil
}

// FindByAccountAndKey returns the caption for an image key, if any.
func (r *CaptionRepo) FindByAccountAndKey(ctx context.Context, accountID uuid.UUID, key string) (*models.CaptionGeneration, error) {
	query := `
		SELECT id, account_id, key, caption, created_at, updated_at
		FROM caption_generations
		WHERE account_id = $1 AND key = $2
	`
	var gen models.CaptionGeneration
	err := r.pool.QueryRow(ctx, query, accountID, key).Scan(
		&gen.ID, &gen.AccountID, &gen.Key, &gen.Caption, &gen.CreatedAt, &gen.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find caption: %w", err)
	}
	return &gen, nil
}

// GetByID returns the record only if accountID owns it.
func (r *CaptionRepo) GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.CaptionGeneration, error) {
	query := `
		SELECT id, account_id, key, caption, created_at, updated_at
		FROM caption_generations
		WHERE id = $1 AND account_id = $2
	`
	var gen models.CaptionGeneration
	err := r.pool.QueryRow(ctx, query, id, accountID).Scan(
		&gen.ID, &gen.AccountID, &gen.Key, &gen.Caption, &gen.CreatedAt, &gen.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get caption: %w", err)
	}
	return &gen, nil
}

// UpdateCaption rewrites the caption text after an ownership check.
func (r *CaptionRepo) UpdateCaption(ctx context.Context, accountID, id uuid.UUID, caption string) (*models.CaptionGeneration, error) {
	query := `
		UPDATE caption_generations
		SET caption = $1, updated_at = NOW()
		WHERE id = $2 AND account_id = $3
		RETURNING id, account_id, key, caption, created_at, updated_at
	`
	var gen models.CaptionGeneration
	err := r.pool.QueryRow(ctx, query, caption, id, accountID).Scan(
		&gen.ID, &gen.AccountID, &gen.Key, &gen.Caption, &gen.CreatedAt, &gen.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update caption: %w", err)
	}
	return &gen, nil
}

// Delete removes the record if accountID owns it.
func (r *CaptionRepo) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	query := `DELETE FROM caption_generations WHERE id = $1 AND account_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete caption: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Page is one page of caption history plus pagination totals.
type Page struct {
	Records    []models.CaptionGeneration
	Total      int
	TotalPages int
	Page       int
	Limit      int
}

// ListByAccount returns a page ordered by updated_at descending. search is a
// case-insensitive substring match on the caption text.
func (r *CaptionRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, page, limit int, search string) (*Page, error) {
	page = ClampPage(page)
	limit = ClampLimit(limit)

	where := `WHERE account_id = $1`
	args := []any{accountID}
	if search != "" {
		where += ` AND caption ILIKE $2 ESCAPE '\'`
		args = append(args, "%"+escapeLike(search)+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM caption_generations ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count captions: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, account_id, key, caption, created_at, updated_at
		FROM caption_generations
		%s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list captions: %w", err)
	}
	defer rows.Close()

	records := make([]models.CaptionGeneration, 0, limit)
	for rows.Next() {
		var gen models.CaptionGeneration
		if err := rows.Scan(&gen.ID, &gen.AccountID, &gen.Key, &gen.Caption, &gen.CreatedAt, &gen.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan caption: %w", err)
		}
		records = append(records, gen)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read captions: %w", err)
	}

	return &Page{
		Records:    records,
		Total:      total,
		TotalPages: TotalPages(total, limit),
		Page:       page,
		Limit:      limit,
	}, nil
}

// escapeLike quotes ILIKE metacharacters so search text matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ClampPage clamps a 1-based page number to at least 1.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ClampLimit clamps the page size to at least 1, defaulting when unset.
func ClampLimit(limit int) int {
	if limit == 0 {
		return DefaultPageSize
	}
	if limit < 1 {
		return 1
	}
	return limit
}

// TotalPages computes ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit < 1 {
		limit = 1
	}
	return (total + limit - 1) / limit
}
