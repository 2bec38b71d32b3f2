package service

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"pixvault/api/internal/config"
	"pixvault/api/internal/ids"
	"pixvault/api/internal/media/ingest"
	"pixvault/api/internal/media/thumbnail"
	"pixvault/api/internal/models"
	"pixvault/api/internal/tier"
)

// ImageService owns the ingest pipeline: validate, render derivatives,
// persist blobs and rows as one unit. Either every derivative the tier
// asks for lands, or nothing does.
type ImageService struct {
	images    ImageStore
	links     LinkStore
	store     BlobStore
	cache     LinkCache
	validator *ingest.Validator
	cfg       config.UploadConfig
	log       zerolog.Logger
}

func NewImageService(images ImageStore, links LinkStore, store BlobStore, linkCache LinkCache, validator *ingest.Validator, cfg config.UploadConfig, log zerolog.Logger) *ImageService {
	return &ImageService{
		images:    images,
		links:     links,
		store:     store,
		cache:     linkCache,
		validator: validator,
		cfg:       cfg,
		log:       log,
	}
}

type ThumbnailView struct {
	Name   string
	Height int
	Width  int
	URL    string
}

type UploadResult struct {
	Image       models.Image
	OriginalURL string
	Thumbnails  []ThumbnailView
}

// Upload runs the whole ingest for one file under the caller's tier
// policy. Rendering is bounded by the configured timeout; blob writes
// already made are rolled back on any later failure.
func (s *ImageService) Upload(ctx context.Context, user models.User, policy tier.Policy, filename string, data []byte) (UploadResult, error) {
	if len(data) == 0 {
		return UploadResult{}, ingest.ErrNoFile
	}
	if err := s.validator.Validate(filename); err != nil {
		return UploadResult{}, err
	}
	if s.cfg.MaxSizeBytes > 0 && int64(len(data)) > s.cfg.MaxSizeBytes {
		return UploadResult{}, ErrFileTooLarge
	}

	renderCtx := ctx
	if s.cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, s.cfg.RenderTimeout)
		defer cancel()
	}

	rendered, err := thumbnail.Render(renderCtx, data, filename, policy.ThumbnailSizes)
	if err != nil {
		return UploadResult{}, err
	}

	imageID := ids.New()
	filename = path.Base(filename)
	originalKey := imageID + "/" + filename

	if err := s.store.PutOriginal(ctx, originalKey, data, contentTypeByExt(filename)); err != nil {
		return UploadResult{}, fmt.Errorf("%w: store original: %v", ErrPersistence, err)
	}

	image := models.Image{
		ID:        imageID,
		UserID:    user.ID,
		Filename:  filename,
		ObjectKey: originalKey,
		SizeBytes: int64(len(data)),
	}

	derivatives := make([]models.Derivative, 0, len(rendered))
	written := make([]string, 0, len(rendered))
	for i, r := range rendered {
		key := imageID + "/" + r.Name
		if err := s.store.PutThumbnail(ctx, key, r.Data, r.ContentType); err != nil {
			s.rollbackBlobs(ctx, originalKey, written)
			return UploadResult{}, fmt.Errorf("%w: store thumbnail %s: %v", ErrPersistence, r.Name, err)
		}
		written = append(written, key)
		derivatives = append(derivatives, models.Derivative{
			ID:        ids.New(),
			ImageID:   imageID,
			Name:      r.Name,
			Position:  i,
			Height:    r.Height,
			Width:     r.Width,
			ObjectKey: key,
			SizeBytes: int64(len(r.Data)),
		})
	}

	if err := s.images.CreateWithDerivatives(ctx, image, derivatives); err != nil {
		s.rollbackBlobs(ctx, originalKey, written)
		return UploadResult{}, fmt.Errorf("%w: index rows: %v", ErrPersistence, err)
	}

	s.log.Info().
		Str("image_id", imageID).
		Str("user_id", user.ID).
		Int("derivatives", len(derivatives)).
		Msg("image ingested")

	return s.buildResult(image, derivatives), nil
}

func (s *ImageService) rollbackBlobs(ctx context.Context, originalKey string, thumbnailKeys []string) {
	for _, key := range thumbnailKeys {
		if err := s.store.RemoveThumbnail(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("rollback thumbnail failed")
		}
	}
	if err := s.store.RemoveOriginal(ctx, originalKey); err != nil {
		s.log.Warn().Err(err).Str("key", originalKey).Msg("rollback original failed")
	}
}

type ImageView struct {
	Image      models.Image
	Thumbnails []ThumbnailView
}

// List returns the caller's images, newest first, with their derivative
// renditions.
func (s *ImageService) List(ctx context.Context, userID string, limit, offset int) ([]ImageView, error) {
	images, err := s.images.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]ImageView, 0, len(images))
	for _, image := range images {
		derivatives, err := s.images.ListDerivatives(ctx, image.ID)
		if err != nil {
			return nil, err
		}
		result := s.buildResult(image, derivatives)
		views = append(views, ImageView{Image: image, Thumbnails: result.Thumbnails})
	}
	return views, nil
}

// Delete removes an owned image and everything hanging off it: derivative
// and link rows in one transaction, then cached link entries and blobs
// best-effort. A cached token that survives a crash here resolves against
// the database and finds no row; a leftover blob is reclaimed by the
// orphan sweep.
func (s *ImageService) Delete(ctx context.Context, userID string, imageID string) error {
	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if image.UserID != userID {
		return ErrNotOwner
	}

	derivatives, err := s.images.ListDerivatives(ctx, imageID)
	if err != nil {
		return err
	}
	links, err := s.links.ListByImage(ctx, imageID)
	if err != nil {
		return err
	}

	if err := s.images.DeleteCascade(ctx, imageID); err != nil {
		return err
	}

	for _, link := range links {
		if err := s.cache.Del(ctx, link.Token); err != nil {
			s.log.Warn().Err(err).Str("image_id", imageID).Msg("link cache del failed")
		}
	}

	for _, d := range derivatives {
		if err := s.store.RemoveThumbnail(ctx, d.ObjectKey); err != nil {
			s.log.Warn().Err(err).Str("key", d.ObjectKey).Msg("remove thumbnail blob failed")
		}
	}
	if err := s.store.RemoveOriginal(ctx, image.ObjectKey); err != nil {
		s.log.Warn().Err(err).Str("key", image.ObjectKey).Msg("remove original blob failed")
	}

	s.log.Info().Str("image_id", imageID).Str("user_id", userID).Msg("image deleted")
	return nil
}

func (s *ImageService) buildResult(image models.Image, derivatives []models.Derivative) UploadResult {
	thumbs := make([]ThumbnailView, 0, len(derivatives))
	for _, d := range derivatives {
		thumbs = append(thumbs, ThumbnailView{
			Name:   d.Name,
			Height: d.Height,
			Width:  d.Width,
			URL:    s.store.ThumbnailURL(d.ObjectKey),
		})
	}
	return UploadResult{
		Image:       image,
		OriginalURL: s.store.OriginalURL(image.ObjectKey),
		Thumbnails:  thumbs,
	}
}

// OriginalURL exposes the original's blob URL for tiers that may see it.
func (s *ImageService) OriginalURL(image models.Image) string {
	return s.store.OriginalURL(image.ObjectKey)
}

// contentTypeByExt is the write-side heuristic: the uploader's extension
// names the stored object's type. Serve paths never rely on it.
func contentTypeByExt(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
