package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"MarketAtlas/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// Entry is a rendered response.
type Entry struct {
	Status int
	Body   []byte
}

// ResponseCache memoizes rendered responses and collapses concurrent loads of one key.
type ResponseCache struct {
	store BytesCache
	group singleflight.Group
	log   *logger.Logger
}

// NewResponseCache wraps store. A nil store disables caching.
func NewResponseCache(store BytesCache, log *logger.Logger) *ResponseCache {
	if log == nil {
		log = logger.Nop()
	}
	return &ResponseCache{store: store, log: log}
}

// Do returns the cached entry for key or calls load. Only successful loads are stored.
// hit reports whether the entry came from the store.
func (r *ResponseCache) Do(ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) (Entry, error)) (e Entry, hit bool, err error) {
	if r == nil || r.store == nil || ttl <= 0 {
		e, err = load(ctx)
		return e, false, err
	}

	if b, ok, gerr := r.store.GetBytes(ctx, key); gerr != nil {
		r.log.Warn("response cache read failed", logger.String("key", key), logger.Error(gerr))
	} else if ok {
		if e, derr := decodeEntry(b); derr == nil {
			return e, true, nil
		}
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		// Detached from the caller: every waiter shares this load.
		lctx := context.WithoutCancel(ctx)
		e, err := load(lctx)
		if err != nil {
			return Entry{}, err
		}
		if serr := r.store.SetBytes(lctx, key, encodeEntry(e), ttl); serr != nil {
			r.log.Warn("response cache write failed", logger.String("key", key), logger.Error(serr))
		}
		return e, nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	return v.(Entry), false, nil
}

// encodeEntry prefixes the body with a three digit status.
func encodeEntry(e Entry) []byte {
	out := make([]byte, 0, 3+len(e.Body))
	out = append(out, fmt.Sprintf("%03d", e.Status)...)
	return append(out, e.Body...)
}

func decodeEntry(b []byte) (Entry, error) {
	if len(b) < 3 {
		return Entry{}, fmt.Errorf("cache entry too short")
	}
	status, err := strconv.Atoi(string(b[:3]))
	if err != nil {
		return Entry{}, fmt.Errorf("cache entry status: %w", err)
	}
	return Entry{Status: status, Body: b[3:]}, nil
}
