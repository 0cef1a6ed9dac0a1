package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/cachekit/pkg/monitor"
)

// TwoTier is the generic two-tier cache variant: a memory tier checked
// first on every read, backed by a remote Redis tier. Remote hits are
// promoted into the memory tier; writes go to both tiers. Values above the
// compression threshold are gzip-compressed before remote storage and
// transparently decompressed on read.
//
// Remote-tier failures never surface from the hot path: a failed remote
// read degrades to a miss, and a failed remote write is logged and recorded
// as a failed measurement while the memory tier keeps serving.
type TwoTier[V any] struct {
	mem        *Memory[V]
	client     redis.UniversalClient
	marshaler  Marshaler[V]
	opts       *twoTierOptions[V]
	ownsClient bool
}

// NewTwoTier creates a two-tier cache over an established Redis client.
// The client should come from pkg/redis.Open; the factory wires this up
// from a validated config.
//
// An optional Marshaler customizes remote serialization. If nil, JSON is
// used.
func NewTwoTier[V any](client redis.UniversalClient, m Marshaler[V], opts ...TwoTierOption[V]) *TwoTier[V] {
	o := defaultTwoTierOptions[V]()
	for _, opt := range opts {
		opt(o)
	}

	if m == nil {
		m = jsonMarshaler[V]{}
	}

	memOpts := []MemoryOption[V]{
		WithDefaultTTL[V](o.defaultTTL),
		WithMaxEntries[V](o.memoryEntries),
	}
	if o.sizer != nil {
		memOpts = append(memOpts, WithSizer[V](o.sizer))
	}

	return &TwoTier[V]{
		mem:       NewMemory[V](memOpts...),
		client:    client,
		marshaler: m,
		opts:      o,
	}
}

// Get checks the memory tier first, then the remote tier. A remote hit is
// promoted into the memory tier with its remaining TTL.
func (t *TwoTier[V]) Get(ctx context.Context, key string) (V, error) {
	start := time.Now()
	var zero V

	if v, err := t.mem.Get(ctx, key); err == nil {
		t.record(monitor.CategoryGet, start, monitor.Context{Hit: true})
		return v, nil
	}

	data, err := t.client.Get(ctx, t.prefixedKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			t.opts.logger.WarnContext(ctx, "remote get failed, degrading to miss",
				slog.String("key", key), slog.String("error", err.Error()))
			t.record(monitor.CategoryGet, start, monitor.Context{Failed: true})
			return zero, ErrNotFound
		}
		t.record(monitor.CategoryGet, start, monitor.Context{})
		return zero, ErrNotFound
	}

	raw, err := decodePayload(data)
	if err != nil {
		t.opts.logger.WarnContext(ctx, "corrupt remote entry, degrading to miss",
			slog.String("key", key), slog.String("error", err.Error()))
		t.record(monitor.CategoryGet, start, monitor.Context{Failed: true})
		return zero, ErrNotFound
	}

	v, err := t.marshaler.Unmarshal(raw)
	if err != nil {
		t.record(monitor.CategoryGet, start, monitor.Context{Failed: true})
		return zero, ErrNotFound
	}

	// Promote into the memory tier with the remote entry's remaining TTL.
	_ = t.mem.Set(ctx, key, v, t.remainingTTL(ctx, key))

	t.record(monitor.CategoryGet, start, monitor.Context{Hit: true})
	return v, nil
}

// Set writes to both tiers. Marshal failures surface to the caller;
// remote write failures are absorbed so the cache stays an optimization,
// not a dependency.
func (t *TwoTier[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	start := time.Now()

	if ttl == 0 {
		ttl = t.opts.defaultTTL
	}

	if err := t.mem.Set(ctx, key, value, ttl); err != nil {
		return err
	}

	data, err := t.marshaler.Marshal(value)
	if err != nil {
		return err
	}

	compressStart := time.Now()
	payload, compressed := encodePayload(data, t.opts.compressThreshold, t.opts.compressLevel)
	if compressed {
		t.record(monitor.CategoryCompression, compressStart, monitor.Context{
			OriginalBytes:   len(data),
			CompressedBytes: len(payload),
		})
	}

	// Redis interprets 0 as no expiration; our negative "never expires"
	// maps onto that.
	redisTTL := max(ttl, 0)

	if err := t.client.Set(ctx, t.prefixedKey(key), payload, redisTTL).Err(); err != nil {
		t.opts.logger.WarnContext(ctx, "remote set failed, memory tier still serving",
			slog.String("key", key), slog.String("error", err.Error()))
		t.record(monitor.CategorySet, start, monitor.Context{Failed: true})
		return nil
	}

	t.record(monitor.CategorySet, start, monitor.Context{})
	return nil
}

// Delete removes the key from both tiers.
func (t *TwoTier[V]) Delete(ctx context.Context, key string) error {
	start := time.Now()

	if err := t.mem.Delete(ctx, key); err != nil {
		return err
	}

	if err := t.client.Del(ctx, t.prefixedKey(key)).Err(); err != nil {
		t.opts.logger.WarnContext(ctx, "remote delete failed",
			slog.String("key", key), slog.String("error", err.Error()))
		t.record(monitor.CategoryDelete, start, monitor.Context{Failed: true})
		return nil
	}

	t.record(monitor.CategoryDelete, start, monitor.Context{})
	return nil
}

// Exists checks the memory tier first, then the remote tier. Remote
// failures report the key as absent.
func (t *TwoTier[V]) Exists(ctx context.Context, key string) (bool, error) {
	if ok, _ := t.mem.Exists(ctx, key); ok {
		return true, nil
	}

	n, err := t.client.Exists(ctx, t.prefixedKey(key)).Result()
	if err != nil {
		return false, nil
	}
	return n > 0, nil
}

// InvalidatePattern removes matching keys from both tiers. The remote tier
// is scanned non-blockingly; its count is authoritative since every write
// lands there, with the memory-tier count as fallback when the remote scan
// fails.
func (t *TwoTier[V]) InvalidatePattern(ctx context.Context, pattern string) (int, error) {
	start := time.Now()

	if err := ValidatePattern(pattern); err != nil {
		return 0, err
	}

	memCount, err := t.mem.InvalidatePattern(ctx, pattern)
	if err != nil {
		return 0, err
	}

	remoteCount, remoteErr := t.scanAndDelete(ctx, t.prefixedKey(pattern))
	count := remoteCount
	if remoteErr != nil {
		t.opts.logger.WarnContext(ctx, "remote invalidation failed",
			slog.String("pattern", pattern), slog.String("error", remoteErr.Error()))
		count = memCount
	}

	t.record(monitor.CategoryInvalidation, start, monitor.Context{
		Pattern:      pattern,
		KeysAffected: count,
		Failed:       remoteErr != nil,
	})

	return count, nil
}

// Ping probes the remote tier. Health checks use this instead of a full
// get/set round trip.
func (t *TwoTier[V]) Ping(ctx context.Context) error {
	if err := t.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrInfrastructure, err)
	}
	return nil
}

// Close releases the memory tier and, when the cache owns its client, the
// remote connection pool.
func (t *TwoTier[V]) Close() error {
	if err := t.mem.Close(); err != nil {
		return err
	}
	if t.ownsClient {
		return t.client.Close()
	}
	return nil
}

// prefixedKey returns the full remote key with prefix.
func (t *TwoTier[V]) prefixedKey(key string) string {
	if t.opts.prefix == "" {
		return key
	}
	return t.opts.prefix + ":" + key
}

// remainingTTL reads the remote entry's TTL for promotion. Lookup failures
// fall back to the default TTL so promoted entries never outlive intent.
func (t *TwoTier[V]) remainingTTL(ctx context.Context, key string) time.Duration {
	ttl, err := t.client.TTL(ctx, t.prefixedKey(key)).Result()
	if err != nil || ttl == -2*time.Nanosecond {
		return 0 // memory tier resolves 0 to its default
	}
	if ttl < 0 {
		// -1: key has no expiration.
		return -1
	}
	return ttl
}

// scanAndDelete removes remote keys matching the pattern using SCAN, which
// does not block the server.
func (t *TwoTier[V]) scanAndDelete(ctx context.Context, pattern string) (int, error) {
	var cursor uint64
	var deleted int

	for {
		keys, nextCursor, err := t.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, err
		}

		if len(keys) > 0 {
			n, err := t.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += int(n)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}

func (t *TwoTier[V]) record(cat monitor.Category, start time.Time, c monitor.Context) {
	c.MemoryBytes = t.mem.Bytes()
	t.opts.recorder.Record(cat, time.Since(start), c)
}

var _ Cache[any] = (*TwoTier[any])(nil)
