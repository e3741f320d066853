package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs a handler has already seen so
// re-published events are not processed twice.
type IdempotencyStore interface {
	// MarkProcessed records an event ID with a TTL. It returns true when the
	// ID was newly recorded and false when it had been seen before.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether an event ID is currently recorded.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls duplicate suppression for event handlers.
type IdempotencyConfig struct {
	// TTL bounds how long a processed event ID is remembered. After expiry
	// the same ID would be processed again.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig keeps processed IDs for a day.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
