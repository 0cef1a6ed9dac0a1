package cache

import (
	"context"
	"time"

	"github.com/dmitrymomot/cachekit/pkg/keygen"
)

// AIOptimized specializes a cache for AI operation workloads: per-operation
// TTLs and payload-size-aware key construction delegated to keygen. It
// wraps any Cache variant (normally TwoTier) and passes plain key
// operations straight through.
type AIOptimized[V any] struct {
	Cache[V]

	keys       *keygen.Generator
	ttls       map[string]time.Duration
	defaultTTL time.Duration
}

// NewAIOptimized wraps inner with AI-operation semantics. A nil generator
// gets default keygen settings. The ttls map overrides defaultTTL per
// operation name; operations without an override use defaultTTL.
func NewAIOptimized[V any](inner Cache[V], keys *keygen.Generator, defaultTTL time.Duration, ttls map[string]time.Duration) *AIOptimized[V] {
	if keys == nil {
		keys = keygen.New()
	}
	return &AIOptimized[V]{
		Cache:      inner,
		keys:       keys,
		ttls:       ttls,
		defaultTTL: defaultTTL,
	}
}

// OperationKey builds the cache key for an AI operation request.
func (a *AIOptimized[V]) OperationKey(operation, payload string, options map[string]any) string {
	return a.keys.Key(operation, payload, options)
}

// OperationTTL resolves the TTL for an operation, falling back to the
// default when no per-operation override exists.
func (a *AIOptimized[V]) OperationTTL(operation string) time.Duration {
	if ttl, ok := a.ttls[operation]; ok {
		return ttl
	}
	return a.defaultTTL
}

// GetOperation retrieves the cached result of an AI operation request.
func (a *AIOptimized[V]) GetOperation(ctx context.Context, operation, payload string, options map[string]any) (V, error) {
	return a.Get(ctx, a.OperationKey(operation, payload, options))
}

// SetOperation caches the result of an AI operation request under its
// generated key with the operation's TTL.
func (a *AIOptimized[V]) SetOperation(ctx context.Context, operation, payload string, options map[string]any, value V) error {
	return a.Set(ctx, a.OperationKey(operation, payload, options), value, a.OperationTTL(operation))
}

// InvalidateOperation removes every cached result for one operation.
func (a *AIOptimized[V]) InvalidateOperation(ctx context.Context, operation string) (int, error) {
	return a.InvalidatePattern(ctx, operation+":*")
}

// Unwrap exposes the wrapped variant for health inspection.
func (a *AIOptimized[V]) Unwrap() Cache[V] {
	return a.Cache
}

var _ Cache[any] = (*AIOptimized[any])(nil)
