package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bakery-service/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	catalogListPrefix = "catalog:available:v:"
	catalogVersionKey = "catalog:version"
)

// CatalogCache holds the available-product list between catalog writes.
type CatalogCache interface {
	GetAvailable(ctx context.Context) ([]models.Product, bool)
	SetAvailable(ctx context.Context, products []models.Product)
	Invalidate(ctx context.Context) error
}

// RedisCatalogCache keys the list by a version counter; bumping the counter
// orphans every older entry, which then expires by TTL.
type RedisCatalogCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCatalogCache {
	return &RedisCatalogCache{redis: client, ttl: ttl, logger: logger}
}

func (c *RedisCatalogCache) GetAvailable(ctx context.Context) ([]models.Product, bool) {
	version, err := c.version(ctx)
	if err != nil {
		c.logger.Warn("Catalog cache version unavailable", zap.Error(err))
		return nil, false
	}
	data, err := c.redis.Get(ctx, c.listKey(version)).Bytes()
	if err != nil {
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		c.logger.Warn("Failed to unmarshal cached catalog", zap.Error(err))
		return nil, false
	}
	return products, true
}

func (c *RedisCatalogCache) SetAvailable(ctx context.Context, products []models.Product) {
	version, err := c.version(ctx)
	if err != nil {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		c.logger.Warn("Failed to marshal catalog for cache", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, c.listKey(version), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache catalog", zap.Error(err))
	}
}

func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	v, err := c.redis.Incr(ctx, catalogVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	c.logger.Info("Catalog cache invalidated", zap.Int64("new_version", v))
	return nil
}

func (c *RedisCatalogCache) version(ctx context.Context) (int64, error) {
	v, err := c.redis.Get(ctx, catalogVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SETNX so concurrent first readers agree on the initial version
		if err := c.redis.SetNX(ctx, catalogVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.redis.Get(ctx, catalogVersionKey).Int64()
	}
	return v, err
}

func (c *RedisCatalogCache) listKey(version int64) string {
	return fmt.Sprintf("%s%d", catalogListPrefix, version)
}
