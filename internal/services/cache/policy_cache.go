// Package cache provides a read-through Redis cache for the policy catalog.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"insurance-advisor-engine/internal/models"
	"insurance-advisor-engine/internal/utils"
)

// catalogKey is the Redis key holding the serialized catalog.
const catalogKey = "policy:catalog"

// DefaultTTL is how long a cached catalog stays valid.
const DefaultTTL = 5 * time.Minute

// CatalogSource loads the policy catalog from the system of record.
type CatalogSource interface {
	GetAll(ctx context.Context) ([]*models.Policy, error)
}

// PolicyCache serves the read-only policy catalog, caching it in Redis
// between assessments. The catalog is safe to share across concurrent
// requests; every cache failure degrades to a direct source read.
type PolicyCache struct {
	client *redis.Client
	source CatalogSource
	ttl    time.Duration
}

// New creates a policy cache. A nil client disables caching and every
// Catalog call hits the source directly.
func New(client *redis.Client, source CatalogSource, ttl time.Duration) *PolicyCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PolicyCache{client: client, source: source, ttl: ttl}
}

// Catalog returns the policy catalog, from cache when possible.
func (c *PolicyCache) Catalog(ctx context.Context) ([]*models.Policy, error) {
	if c.client != nil {
		data, err := c.client.Get(ctx, catalogKey).Bytes()
		if err == nil {
			var policies []*models.Policy
			if err := json.Unmarshal(data, &policies); err == nil {
				return policies, nil
			}
			utils.GetLogger().Warn("Cached catalog is corrupt, reloading from source", zap.Error(err))
		} else if err != redis.Nil {
			utils.GetLogger().Warn("Catalog cache read failed, falling back to source", zap.Error(err))
		}
	}

	policies, err := c.source.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, policies)

	return policies, nil
}

// Invalidate drops the cached catalog, forcing the next Catalog call to
// reload from the source. Call after catalog imports.
func (c *PolicyCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		utils.GetLogger().Warn("Failed to invalidate catalog cache", zap.Error(err))
	}
}

// store writes the catalog back to the cache, best effort.
func (c *PolicyCache) store(ctx context.Context, policies []*models.Policy) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(policies)
	if err != nil {
		utils.GetLogger().Warn("Failed to encode catalog for cache", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
		utils.GetLogger().Warn("Failed to cache catalog", zap.Error(err))
	}
}
