package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/kennelapp/dog-kennel/internal/config"
	"github.com/kennelapp/dog-kennel/internal/repository"
)

// CategoryCache is a read-through cache for the full category list, stored
// under one fixed Redis key.  On a miss the list is loaded from the
// database and cached with the configured TTL.  Historically this cache is
// never invalidated when categories change; staleness up to the TTL is the
// accepted behavior.  Deployments that prefer fresh reads set
// CACHE_INVALIDATE_ON_WRITE, which makes the write paths call Invalidate.
// With caching disabled or no Redis client every call goes to the
// database.
type CategoryCache struct {
	cfg  config.CacheConfig
	rdb  *redis.Client
	repo *repository.CategoryRepo
}

func NewCategoryCache(cfg config.CacheConfig, rdb *redis.Client, repo *repository.CategoryRepo) *CategoryCache {
	return &CategoryCache{cfg: cfg, rdb: rdb, repo: repo}
}

func (c *CategoryCache) enabled() bool {
	return c.cfg.Enabled && c.rdb != nil
}

// List returns the category list, from cache when possible.  Redis errors
// degrade to a plain database read.
func (c *CategoryCache) List(ctx context.Context) ([]repository.Category, error) {
	if !c.enabled() {
		return c.repo.List(ctx)
	}

	if bs, err := c.rdb.Get(ctx, c.cfg.Key).Bytes(); err == nil {
		var cached []repository.Category
		if err := json.Unmarshal(bs, &cached); err == nil {
			return cached, nil
		}
		// Unreadable payload: fall through and refill.
	}

	list, err := c.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if bs, err := json.Marshal(list); err == nil {
		if err := c.rdb.SetEx(ctx, c.cfg.Key, bs, c.cfg.TTL).Err(); err != nil {
			log.Printf("category-cache: fill failed: %v", err)
		}
	}
	return list, nil
}

// OnWrite is called by the category write paths.  It drops the cached list
// only when invalidation on write is configured.
func (c *CategoryCache) OnWrite(ctx context.Context) {
	if !c.enabled() || !c.cfg.InvalidateOnWrite {
		return
	}
	if err := c.rdb.Del(ctx, c.cfg.Key).Err(); err != nil {
		log.Printf("category-cache: invalidate failed: %v", err)
	}
}
