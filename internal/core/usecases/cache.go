package usecases

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/samirrijal/litterbugs/internal/core/ports"
)

// Cache keys. Community and nearby listings share the routes: prefix so a
// publish or delete can drop them together.
const (
	routesCachePrefix      = "routes:"
	leaderboardCachePrefix = "leaderboard:"
)

func cacheGet[T any](ctx context.Context, cache ports.CacheService, key string, out *T) bool {
	if cache == nil {
		return false
	}
	data, err := cache.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func cacheSet(ctx context.Context, cache ports.CacheService, key string, v any, ttlSeconds int) {
	if cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, key, data, ttlSeconds); err != nil {
		slog.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
}

func cacheInvalidate(ctx context.Context, cache ports.CacheService, prefixes ...string) {
	if cache == nil {
		return
	}
	for _, p := range prefixes {
		if err := cache.DeletePrefix(ctx, p); err != nil {
			slog.WarnContext(ctx, "cache invalidate failed", "prefix", p, "error", err)
		}
	}
}
