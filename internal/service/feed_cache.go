package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/postline/backend/internal/constants"
	"github.com/postline/backend/internal/dto"
	"github.com/postline/backend/pkg/logger"
	"github.com/postline/backend/pkg/redis"
	"go.uber.org/zap"
)

const feedCacheTTL = 60 * time.Second

// FeedCache is a short-lived Redis cache for rendered post feeds. Cache
// failures are logged and swallowed; the feed is always served from the
// database when the cache cannot.
type FeedCache struct {
	cache *redis.Client
}

func NewFeedCache(cache *redis.Client) *FeedCache {
	return &FeedCache{cache: cache}
}

func (f *FeedCache) Get(ctx context.Context, key string) ([]dto.PostResponse, bool) {
	if f == nil || f.cache == nil || !f.cache.IsEnabled() {
		return nil, false
	}

	data, err := f.cache.Get(ctx, constants.CacheKeyFeed+key)
	if err != nil {
		logger.GetLogger().Warn("Feed cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if data == nil {
		return nil, false
	}

	var posts []dto.PostResponse
	if err := json.Unmarshal(data, &posts); err != nil {
		logger.GetLogger().Warn("Feed cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		_ = f.cache.Delete(ctx, constants.CacheKeyFeed+key)
		return nil, false
	}
	return posts, true
}

func (f *FeedCache) Set(ctx context.Context, key string, posts []dto.PostResponse) {
	if f == nil || f.cache == nil || !f.cache.IsEnabled() {
		return
	}

	data, err := json.Marshal(posts)
	if err != nil {
		return
	}
	if err := f.cache.Set(ctx, constants.CacheKeyFeed+key, data, feedCacheTTL); err != nil {
		logger.GetLogger().Warn("Feed cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached feed. Called after any post mutation.
func (f *FeedCache) Invalidate(ctx context.Context) {
	if f == nil || f.cache == nil || !f.cache.IsEnabled() {
		return
	}
	if err := f.cache.DeleteByPattern(ctx, constants.CacheKeyFeed+"*"); err != nil {
		logger.GetLogger().Warn("Feed cache invalidation failed", zap.Error(err))
	}
}
