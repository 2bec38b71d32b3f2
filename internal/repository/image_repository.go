package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pixvault/api/internal/models"
)

var ErrImageNotFound = errors.New("image not found")

type ImageRepository struct {
	pool *pgxpool.Pool
}

func NewImageRepository(pool *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{pool: pool}
}

// CreateWithDerivatives writes the image row and all of its derivative rows
// in one transaction. Readers never observe an image with a partial
// derivative set.
func (r *ImageRepository) CreateWithDerivatives(ctx context.Context, image models.Image, derivatives []models.Derivative) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertImage = `
		INSERT INTO images (id, user_id, filename, object_key, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	if _, err := tx.Exec(ctx, insertImage,
		image.ID, image.UserID, image.Filename, image.ObjectKey, image.SizeBytes,
	); err != nil {
		return fmt.Errorf("insert image: %w", err)
	}

	const insertDerivative = `
		INSERT INTO derivatives (id, image_id, name, position, height, width, object_key, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	for _, d := range derivatives {
		if _, err := tx.Exec(ctx, insertDerivative,
			d.ID, d.ImageID, d.Name, d.Position, d.Height, d.Width, d.ObjectKey, d.SizeBytes,
		); err != nil {
			return fmt.Errorf("insert derivative %s: %w", d.Name, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *ImageRepository) GetByID(ctx context.Context, id string) (models.Image, error) {
	const query = `
		SELECT id, user_id, filename, object_key, size_bytes, created_at
		FROM images WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	var image models.Image
	if err := row.Scan(
		&image.ID,
		&image.UserID,
		&image.Filename,
		&image.ObjectKey,
		&image.SizeBytes,
		&image.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Image{}, ErrImageNotFound
		}
		return models.Image{}, err
	}
	return image, nil
}

func (r *ImageRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Image, error) {
	const query = `
		SELECT id, user_id, filename, object_key, size_bytes, created_at
		FROM images
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		var image models.Image
		if err := rows.Scan(
			&image.ID,
			&image.UserID,
			&image.Filename,
			&image.ObjectKey,
			&image.SizeBytes,
			&image.CreatedAt,
		); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

// ListDerivatives returns an image's renditions in generation order.
// Timestamps cannot carry that order (one upload writes all rows inside
// a single transaction), so the persisted position does.
func (r *ImageRepository) ListDerivatives(ctx context.Context, imageID string) ([]models.Derivative, error) {
	const query = `
		SELECT id, image_id, name, position, height, width, object_key, size_bytes, created_at
		FROM derivatives
		WHERE image_id = $1
		ORDER BY position ASC
	`
	rows, err := r.pool.Query(ctx, query, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var derivatives []models.Derivative
	for rows.Next() {
		var d models.Derivative
		if err := rows.Scan(
			&d.ID,
			&d.ImageID,
			&d.Name,
			&d.Position,
			&d.Height,
			&d.Width,
			&d.ObjectKey,
			&d.SizeBytes,
			&d.CreatedAt,
		); err != nil {
			return nil, err
		}
		derivatives = append(derivatives, d)
	}
	return derivatives, rows.Err()
}

// DeleteCascade removes the image and everything it owns (derivative rows,
// expiring links) in one transaction. Blob cleanup is the caller's job and
// happens after the commit.
func (r *ImageRepository) DeleteCascade(ctx context.Context, imageID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM expiring_links WHERE image_id = $1`, imageID); err != nil {
		return fmt.Errorf("delete links: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM derivatives WHERE image_id = $1`, imageID); err != nil {
		return fmt.Errorf("delete derivatives: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM images WHERE id = $1`, imageID)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrImageNotFound
	}

	return tx.Commit(ctx)
}

// DerivativeObjectKeyExists backs the orphaned-blob sweep.
func (r *ImageRepository) DerivativeObjectKeyExists(ctx context.Context, objectKey string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM derivatives WHERE object_key = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, objectKey).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
