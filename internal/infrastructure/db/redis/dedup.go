package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "hires:delivered:"
	claimTimeout = 2 * time.Second
)

// DedupStore claims delivery keys with SET NX so that each notification or
// email goes out at most once per key and TTL window.
type DedupStore struct {
	client *redis.Client
}

// NewDedupStore creates a DedupStore wrapping the given Redis client.
func NewDedupStore(client *redis.Client) *DedupStore {
	return &DedupStore{client: client}
}

// Claim reports true only for the first caller of key within ttl.
func (d *DedupStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, claimTimeout)
	defer cancel()

	ok, err := d.client.SetNX(ctx, keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	return ok, nil
}

// Release deletes key. Releasing a key that was never claimed is a no-op.
func (d *DedupStore) Release(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, claimTimeout)
	defer cancel()

	if err := d.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("dedup release: %w", err)
	}
	return nil
}
