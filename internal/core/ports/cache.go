package ports

import (
	"context"
	"time"
)

// Cache is a best-effort key/value store. Implementations never return
// errors: a failed Get is a miss and failed writes are logged and dropped.
type Cache interface {
	// Get decodes the value stored at key into dest and reports whether it
	// was found.
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	// Delete removes all keys in a single round trip.
	Delete(ctx context.Context, keys ...string)
	FlushAll(ctx context.Context)
}
