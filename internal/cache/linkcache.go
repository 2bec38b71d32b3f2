package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss means the token has no cached entry; callers fall back to
// the database.
var ErrCacheMiss = errors.New("link cache miss")

// LinkEntry is the resolve-path projection of an expiring link. The serve
// endpoint is unauthenticated and may be hit unboundedly many times per
// token, so the hot path reads from redis instead of postgres.
type LinkEntry struct {
	ImageID   string    `json:"imageId"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type LinkCache struct {
	client *redis.Client
}

func NewLinkCache(client *redis.Client) *LinkCache {
	return &LinkCache{client: client}
}

// retainAfterExpiry keeps dead entries around so expired tokens can be
// answered from cache too; the row in postgres remains authoritative.
const retainAfterExpiry = time.Hour

func (c *LinkCache) Put(ctx context.Context, token string, entry LinkEntry) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal link entry: %w", err)
	}
	ttl := time.Until(entry.ExpiresAt) + retainAfterExpiry
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, key(token), payload, ttl).Err()
}

// Del drops a token's entry; deleting an image must not leave its tokens
// resolvable from cache for the retention window.
func (c *LinkCache) Del(ctx context.Context, token string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key(token)).Err()
}

func (c *LinkCache) Get(ctx context.Context, token string) (LinkEntry, error) {
	if c == nil || c.client == nil {
		return LinkEntry{}, ErrCacheMiss
	}
	payload, err := c.client.Get(ctx, key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return LinkEntry{}, ErrCacheMiss
		}
		return LinkEntry{}, err
	}
	var entry LinkEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return LinkEntry{}, fmt.Errorf("unmarshal link entry: %w", err)
	}
	return entry, nil
}

func key(token string) string {
	return "link:" + token
}
