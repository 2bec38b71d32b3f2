package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pixvault/api/internal/models"
)

var ErrLinkNotFound = errors.New("expiring link not found")

type LinkRepository struct {
	pool *pgxpool.Pool
}

func NewLinkRepository(pool *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{pool: pool}
}

func (r *LinkRepository) Create(ctx context.Context, link models.ExpiringLink) error {
	const query = `
		INSERT INTO expiring_links (id, image_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.pool.Exec(ctx, query, link.ID, link.ImageID, link.Token, link.ExpiresAt)
	return err
}

// ListByImage backs cache invalidation when an image is deleted; the rows
// themselves die in the image's cascade transaction.
func (r *LinkRepository) ListByImage(ctx context.Context, imageID string) ([]models.ExpiringLink, error) {
	const query = `
		SELECT id, image_id, token, expires_at, created_at
		FROM expiring_links WHERE image_id = $1
	`
	rows, err := r.pool.Query(ctx, query, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.ExpiringLink
	for rows.Next() {
		var link models.ExpiringLink
		if err := rows.Scan(
			&link.ID,
			&link.ImageID,
			&link.Token,
			&link.ExpiresAt,
			&link.CreatedAt,
		); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// GetByToken is the resolve-path lookup; links are never addressed by
// row id.
func (r *LinkRepository) GetByToken(ctx context.Context, token string) (models.ExpiringLink, error) {
	const query = `
		SELECT id, image_id, token, expires_at, created_at
		FROM expiring_links WHERE token = $1
	`
	row := r.pool.QueryRow(ctx, query, token)
	var link models.ExpiringLink
	if err := row.Scan(
		&link.ID,
		&link.ImageID,
		&link.Token,
		&link.ExpiresAt,
		&link.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ExpiringLink{}, ErrLinkNotFound
		}
		return models.ExpiringLink{}, err
	}
	return link, nil
}
