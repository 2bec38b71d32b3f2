package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"

	"pixvault/api/internal/cache"
	"pixvault/api/internal/models"
	"pixvault/api/internal/repository"
)

type fakeImageStore struct {
	images      map[string]models.Image
	derivatives map[string][]models.Derivative
	linkRows    *fakeLinkStore // cascade target, mirrors the FK
	createErr   error
	createCalls int
	deleted     []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{
		images:      make(map[string]models.Image),
		derivatives: make(map[string][]models.Derivative),
	}
}

func (f *fakeImageStore) CreateWithDerivatives(_ context.Context, image models.Image, derivatives []models.Derivative) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.images[image.ID] = image
	f.derivatives[image.ID] = derivatives
	return nil
}

func (f *fakeImageStore) GetByID(_ context.Context, id string) (models.Image, error) {
	image, ok := f.images[id]
	if !ok {
		return models.Image{}, repository.ErrImageNotFound
	}
	return image, nil
}

func (f *fakeImageStore) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.Image, error) {
	var out []models.Image
	for _, image := range f.images {
		if image.UserID == userID {
			out = append(out, image)
		}
	}
	return out, nil
}

// ListDerivatives returns rows sorted by position, like the repository.
func (f *fakeImageStore) ListDerivatives(_ context.Context, imageID string) ([]models.Derivative, error) {
	rows := append([]models.Derivative(nil), f.derivatives[imageID]...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	return rows, nil
}

func (f *fakeImageStore) DeleteCascade(_ context.Context, imageID string) error {
	if _, ok := f.images[imageID]; !ok {
		return repository.ErrImageNotFound
	}
	delete(f.images, imageID)
	delete(f.derivatives, imageID)
	if f.linkRows != nil {
		for token, link := range f.linkRows.links {
			if link.ImageID == imageID {
				delete(f.linkRows.links, token)
			}
		}
	}
	f.deleted = append(f.deleted, imageID)
	return nil
}

type fakeLinkStore struct {
	links     map[string]models.ExpiringLink
	createErr error
	getCalls  int
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{links: make(map[string]models.ExpiringLink)}
}

func (f *fakeLinkStore) Create(_ context.Context, link models.ExpiringLink) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.links[link.Token] = link
	return nil
}

func (f *fakeLinkStore) GetByToken(_ context.Context, token string) (models.ExpiringLink, error) {
	f.getCalls++
	link, ok := f.links[token]
	if !ok {
		return models.ExpiringLink{}, repository.ErrLinkNotFound
	}
	return link, nil
}

func (f *fakeLinkStore) ListByImage(_ context.Context, imageID string) ([]models.ExpiringLink, error) {
	var out []models.ExpiringLink
	for _, link := range f.links {
		if link.ImageID == imageID {
			out = append(out, link)
		}
	}
	return out, nil
}

type fakeBlobStore struct {
	originals       map[string][]byte
	thumbnails      map[string][]byte
	failThumbnailAt int // 1-based write index that fails; 0 = never
	removedOrig     []string
	removedThumbs   []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		originals:  make(map[string][]byte),
		thumbnails: make(map[string][]byte),
	}
}

func (f *fakeBlobStore) PutOriginal(_ context.Context, key string, data []byte, _ string) error {
	f.originals[key] = data
	return nil
}

func (f *fakeBlobStore) PutThumbnail(_ context.Context, key string, data []byte, _ string) error {
	if f.failThumbnailAt > 0 && len(f.thumbnails)+1 == f.failThumbnailAt {
		return errors.New("blob backend unavailable")
	}
	f.thumbnails[key] = data
	return nil
}

func (f *fakeBlobStore) GetOriginal(_ context.Context, key string) (io.ReadCloser, int64, error) {
	data, ok := f.originals[key]
	if !ok {
		return nil, 0, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (f *fakeBlobStore) RemoveOriginal(_ context.Context, key string) error {
	delete(f.originals, key)
	f.removedOrig = append(f.removedOrig, key)
	return nil
}

func (f *fakeBlobStore) RemoveThumbnail(_ context.Context, key string) error {
	delete(f.thumbnails, key)
	f.removedThumbs = append(f.removedThumbs, key)
	return nil
}

func (f *fakeBlobStore) OriginalURL(key string) string {
	return "https://blobs.test/originals/" + key
}

func (f *fakeBlobStore) ThumbnailURL(key string) string {
	return "https://blobs.test/thumbnails/" + key
}

type fakeLinkCache struct {
	entries map[string]cache.LinkEntry
}

func newFakeLinkCache() *fakeLinkCache {
	return &fakeLinkCache{entries: make(map[string]cache.LinkEntry)}
}

func (f *fakeLinkCache) Put(_ context.Context, token string, entry cache.LinkEntry) error {
	f.entries[token] = entry
	return nil
}

func (f *fakeLinkCache) Get(_ context.Context, token string) (cache.LinkEntry, error) {
	entry, ok := f.entries[token]
	if !ok {
		return cache.LinkEntry{}, cache.ErrCacheMiss
	}
	return entry, nil
}

func (f *fakeLinkCache) Del(_ context.Context, token string) error {
	delete(f.entries, token)
	return nil
}
