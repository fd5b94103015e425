package ports

import (
	"context"
	"io"

	"github.com/samirrijal/litterbugs/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRoutePublished(ctx context.Context, event *domain.RoutePublished) error
	PublishBadgeAwarded(ctx context.Context, event *domain.BadgeAwarded) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeRoutePublished(ctx context.Context, handler func(ctx context.Context, event *domain.RoutePublished) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// ObjectStore stores uploaded photos.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// DeletionStarter kicks off account deletion.
type DeletionStarter interface {
	StartAccountDeletion(ctx context.Context, userID string) (string, error)
}
