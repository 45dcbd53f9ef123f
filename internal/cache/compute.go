package cache

import (
	"context"
	"fmt"
	"time"
)

// GetOrCompute returns the value cached under key, or runs compute and stores
// its result for ttl. Concurrent misses on one key may each run compute; the
// last to finish wins. Errors are never cached.
func GetOrCompute[T any](ctx context.Context, store Store, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	if cached, ok := store.Get(key); ok {
		if v, ok := cached.(T); ok {
			return v, nil
		}
	}

	v, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	store.Set(key, v, ttl)
	return v, nil
}

// Key joins a key family and an optional qualifier: Key("summary-metrics", "")
// is "summary-metrics", Key("price-history", "audi-r8") is "price-history:audi-r8".
func Key(family, qualifier string) string {
	if qualifier == "" {
		return family
	}
	return fmt.Sprintf("%s:%s", family, qualifier)
}
