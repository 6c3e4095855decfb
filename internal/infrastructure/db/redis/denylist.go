package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist stores revoked refresh-token JTIs until their natural expiry.
// Key format: denylist:<jti>
type Denylist struct {
	client *redis.Client
}

// NewDenylist creates a Denylist wrapping the given Redis client.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// IsDenied reports whether the token with this JTI has been revoked.
func (d *Denylist) IsDenied(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("denylist check: %w", err)
	}
	return n > 0, nil
}

// Deny marks the JTI as revoked. The key expires when the token itself would
// have, so the denylist never outgrows the set of live tokens.
func (d *Denylist) Deny(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, d.key(jti), "1", ttl).Err()
}

func (d *Denylist) key(jti string) string {
	return "denylist:" + jti
}
