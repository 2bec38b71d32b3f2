package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pixvault/api/internal/config"
)

// ObjectStore wraps the blob backend behind the two namespaces the service
// writes to: originals and thumbnails. Object keys never dedupe by name;
// every upload gets a fresh key prefix.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ObjectStore) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{s.cfg.BucketOriginals, s.cfg.BucketThumbnails} {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("bucket exists %s: %w", bucket, err)
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}
	return nil
}

func (s *ObjectStore) PutOriginal(ctx context.Context, key string, data []byte, contentType string) error {
	return s.put(ctx, s.cfg.BucketOriginals, key, data, contentType)
}

func (s *ObjectStore) PutThumbnail(ctx context.Context, key string, data []byte, contentType string) error {
	return s.put(ctx, s.cfg.BucketThumbnails, key, data, contentType)
}

func (s *ObjectStore) put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}
	return nil
}

// GetOriginal streams an original's bytes. The caller owns closing the
// reader.
func (s *ObjectStore) GetOriginal(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	obj, err := s.client.GetObject(ctx, s.cfg.BucketOriginals, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("get %s/%s: %w", s.cfg.BucketOriginals, key, err)
	}
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, 0, fmt.Errorf("stat %s/%s: %w", s.cfg.BucketOriginals, key, err)
	}
	return obj, stat.Size, nil
}

func (s *ObjectStore) RemoveOriginal(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.cfg.BucketOriginals, key, minio.RemoveObjectOptions{})
}

func (s *ObjectStore) RemoveThumbnail(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.cfg.BucketThumbnails, key, minio.RemoveObjectOptions{})
}

// ListThumbnailKeys walks the thumbnails bucket. Used by the orphan sweep.
func (s *ObjectStore) ListThumbnailKeys(ctx context.Context) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.cfg.BucketThumbnails, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", s.cfg.BucketThumbnails, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// PublicURL builds a stable URL for a stored object.
func (s *ObjectStore) PublicURL(bucket, key string) string {
	base := strings.TrimSuffix(s.cfg.Endpoint, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return fmt.Sprintf("%s/%s/%s", base, bucket, key)
}

func (s *ObjectStore) OriginalURL(key string) string {
	return s.PublicURL(s.cfg.BucketOriginals, key)
}

func (s *ObjectStore) ThumbnailURL(key string) string {
	return s.PublicURL(s.cfg.BucketThumbnails, key)
}
