package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hyvewyre/lead-api/internal/entity"
)

const keyPrefix = "hyvewyre"

// RedisCache holds each user's lead list plus the last post-import snapshot.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func key(userID, kind string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, userID, kind)
}

func (c *RedisCache) GetLeads(ctx context.Context, userID string) ([]*entity.Lead, bool, error) {
	raw, err := c.rdb.Get(ctx, key(userID, "leads")).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var leads []*entity.Lead
	if err := json.Unmarshal(raw, &leads); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next store.
		return nil, false, nil
	}
	return leads, true, nil
}

func (c *RedisCache) StoreLeads(ctx context.Context, userID string, leads []*entity.Lead) error {
	if leads == nil {
		leads = []*entity.Lead{}
	}
	b, err := json.Marshal(leads)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(userID, "leads"), b, c.ttl).Err()
}

// StoreSnapshot writes leads, campaigns, tags and the snapshot itself in one
// MULTI so readers never see a mix of old and new lists.
func (c *RedisCache) StoreSnapshot(ctx context.Context, snap *entity.Snapshot) error {
	parts := map[string]any{
		"leads":     snap.Leads,
		"campaigns": snap.Campaigns,
		"tags":      snap.Tags,
		"snapshot":  snap,
	}
	encoded := make(map[string][]byte, len(parts))
	for kind, v := range parts {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", kind, err)
		}
		encoded[kind] = b
	}

	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for kind, b := range encoded {
			p.Set(ctx, key(snap.UserID, kind), b, c.ttl)
		}
		return nil
	})
	return err
}

func (c *RedisCache) Snapshot(ctx context.Context, userID string) (*entity.Snapshot, bool, error) {
	raw, err := c.rdb.Get(ctx, key(userID, "snapshot")).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var snap entity.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false, nil
	}
	return &snap, true, nil
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx,
		key(userID, "leads"),
		key(userID, "campaigns"),
		key(userID, "tags"),
		key(userID, "snapshot"),
	).Err()
}
