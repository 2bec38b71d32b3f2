package service

import (
	"context"
	"io"

	"pixvault/api/internal/cache"
	"pixvault/api/internal/models"
)

// ImageStore is the relational index for images and their derivatives.
// Satisfied by repository.ImageRepository.
type ImageStore interface {
	CreateWithDerivatives(ctx context.Context, image models.Image, derivatives []models.Derivative) error
	GetByID(ctx context.Context, id string) (models.Image, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Image, error)
	ListDerivatives(ctx context.Context, imageID string) ([]models.Derivative, error)
	DeleteCascade(ctx context.Context, imageID string) error
}

// LinkStore persists expiring links. Satisfied by repository.LinkRepository.
type LinkStore interface {
	Create(ctx context.Context, link models.ExpiringLink) error
	GetByToken(ctx context.Context, token string) (models.ExpiringLink, error)
	ListByImage(ctx context.Context, imageID string) ([]models.ExpiringLink, error)
}

// UserStore is the identity index. Satisfied by repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// BlobStore is the durable byte store split into the originals and
// thumbnails namespaces. Satisfied by storage.ObjectStore.
type BlobStore interface {
	PutOriginal(ctx context.Context, key string, data []byte, contentType string) error
	PutThumbnail(ctx context.Context, key string, data []byte, contentType string) error
	GetOriginal(ctx context.Context, key string) (io.ReadCloser, int64, error)
	RemoveOriginal(ctx context.Context, key string) error
	RemoveThumbnail(ctx context.Context, key string) error
	OriginalURL(key string) string
	ThumbnailURL(key string) string
}

// LinkCache is the read-path cache for token resolution. Satisfied by
// cache.LinkCache; a nil implementation is a no-op.
type LinkCache interface {
	Put(ctx context.Context, token string, entry cache.LinkEntry) error
	Get(ctx context.Context, token string) (cache.LinkEntry, error)
	Del(ctx context.Context, token string) error
}
