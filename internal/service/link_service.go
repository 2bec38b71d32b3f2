package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pixvault/api/internal/cache"
	"pixvault/api/internal/ids"
	"pixvault/api/internal/media/sniffer"
	"pixvault/api/internal/models"
	"pixvault/api/internal/security"
	"pixvault/api/internal/tier"
)

// LinkService issues and resolves expiring links. Issue is gated by
// ownership and tier policy; Resolve is anonymous and read-only.
type LinkService struct {
	images  ImageStore
	links   LinkStore
	store   BlobStore
	cache   LinkCache
	baseURL string
	log     zerolog.Logger
	now     func() time.Time
}

func NewLinkService(images ImageStore, links LinkStore, store BlobStore, linkCache LinkCache, baseURL string, log zerolog.Logger) *LinkService {
	return &LinkService{
		images:  images,
		links:   links,
		store:   store,
		cache:   linkCache,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     log,
		now:     time.Now,
	}
}

type IssuedLink struct {
	Link models.ExpiringLink
	URL  string
}

// Issue mints a capability token for one owned image. The expiration is
// fixed here and never moves; two concurrent issues for the same image
// are independent and each get their own token.
//
// duration is the raw client value: absent (empty) is a distinct error
// from non-numeric or out-of-bounds input.
func (s *LinkService) Issue(ctx context.Context, user models.User, policy tier.Policy, imageID string, duration string) (IssuedLink, error) {
	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return IssuedLink{}, err
	}
	if image.UserID != user.ID {
		return IssuedLink{}, ErrNotOwner
	}
	if !policy.ExpiringLinks {
		return IssuedLink{}, ErrLinksNotPermitted
	}
	if strings.TrimSpace(duration) == "" {
		return IssuedLink{}, ErrNoDuration
	}
	durationSeconds, err := strconv.Atoi(strings.TrimSpace(duration))
	if err != nil || !policy.AllowsLinkDuration(durationSeconds) {
		return IssuedLink{}, &DurationOutOfRangeError{Min: policy.MinLinkDuration, Max: policy.MaxLinkDuration}
	}

	token, err := security.GenerateLinkToken()
	if err != nil {
		return IssuedLink{}, err
	}

	link := models.ExpiringLink{
		ID:        ids.New(),
		ImageID:   image.ID,
		Token:     token,
		ExpiresAt: s.now().Add(policy.LinkTTL(durationSeconds)).UTC(),
	}
	if err := s.links.Create(ctx, link); err != nil {
		return IssuedLink{}, fmt.Errorf("%w: link row: %v", ErrPersistence, err)
	}

	if err := s.cache.Put(ctx, token, cache.LinkEntry{
		ImageID:   image.ID,
		ObjectKey: image.ObjectKey,
		ExpiresAt: link.ExpiresAt,
	}); err != nil {
		s.log.Warn().Err(err).Str("image_id", image.ID).Msg("link cache put failed")
	}

	s.log.Info().
		Str("image_id", image.ID).
		Time("expires_at", link.ExpiresAt).
		Msg("expiring link issued")

	return IssuedLink{
		Link: link,
		URL:  fmt.Sprintf("%s/api/v1/expiring-images/%s", s.baseURL, token),
	}, nil
}

type ResolvedImage struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Resolve exchanges a token for the original's bytes. Unknown tokens and
// expired tokens are distinct failures; the content type is always sniffed
// from the stored bytes, never taken from the filename.
func (s *LinkService) Resolve(ctx context.Context, token string) (ResolvedImage, error) {
	entry, cached, err := s.lookup(ctx, token)
	if err != nil {
		return ResolvedImage{}, err
	}

	if s.now().After(entry.ExpiresAt) {
		return ResolvedImage{}, ErrLinkExpired
	}

	body, size, err := s.store.GetOriginal(ctx, entry.ObjectKey)
	if err != nil && cached {
		// A cached entry can outlive its image; the row is the truth, so
		// a failed fetch on the cache path re-checks the database before
		// being reported as a storage fault.
		if delErr := s.cache.Del(ctx, token); delErr != nil {
			s.log.Warn().Err(delErr).Msg("link cache del failed")
		}
		entry, err = s.lookupStore(ctx, token)
		if err != nil {
			return ResolvedImage{}, err
		}
		body, size, err = s.store.GetOriginal(ctx, entry.ObjectKey)
	}
	if err != nil {
		return ResolvedImage{}, fmt.Errorf("%w: fetch original: %v", ErrPersistence, err)
	}

	head := make([]byte, sniffer.SniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		body.Close()
		return ResolvedImage{}, fmt.Errorf("%w: read head: %v", ErrPersistence, err)
	}
	head = head[:n]

	contentType, err := sniffer.DetectContentType(head)
	if err != nil {
		contentType = "application/octet-stream"
	}

	return ResolvedImage{
		Body:        readCloser{io.MultiReader(bytes.NewReader(head), body), body},
		Size:        size,
		ContentType: contentType,
	}, nil
}

// lookup reports whether the entry came from the cache; cache-path
// callers may need to retry against the store.
func (s *LinkService) lookup(ctx context.Context, token string) (cache.LinkEntry, bool, error) {
	entry, err := s.cache.Get(ctx, token)
	if err == nil {
		return entry, true, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn().Err(err).Msg("link cache get failed")
	}

	entry, err = s.lookupStore(ctx, token)
	return entry, false, err
}

func (s *LinkService) lookupStore(ctx context.Context, token string) (cache.LinkEntry, error) {
	link, err := s.links.GetByToken(ctx, token)
	if err != nil {
		return cache.LinkEntry{}, err
	}
	image, err := s.images.GetByID(ctx, link.ImageID)
	if err != nil {
		return cache.LinkEntry{}, err
	}

	entry := cache.LinkEntry{
		ImageID:   image.ID,
		ObjectKey: image.ObjectKey,
		ExpiresAt: link.ExpiresAt,
	}
	if err := s.cache.Put(ctx, token, entry); err != nil {
		s.log.Warn().Err(err).Msg("link cache put failed")
	}
	return entry, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
