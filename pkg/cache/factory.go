package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/cachekit/pkg/config"
	"github.com/dmitrymomot/cachekit/pkg/keygen"
	"github.com/dmitrymomot/cachekit/pkg/logger"
	"github.com/dmitrymomot/cachekit/pkg/monitor"
	rdb "github.com/dmitrymomot/cachekit/pkg/redis"
)

// Fallback is a memory-only cache standing in for an unreachable remote
// tier. It behaves exactly like Memory; IsFallback lets health reporting
// surface the degradation without call sites having to care.
type Fallback[V any] struct {
	*Memory[V]
}

// IsFallback reports whether c is serving in memory-only fallback mode
// while its configuration names a remote tier. Wrappers exposing an
// Unwrap method are looked through.
func IsFallback[V any](c Cache[V]) bool {
	for c != nil {
		if _, ok := c.(*Fallback[V]); ok {
			return true
		}
		u, ok := c.(interface{ Unwrap() Cache[V] })
		if !ok {
			return false
		}
		c = u.Unwrap()
	}
	return false
}

// FactoryOption customizes factory-built caches.
type FactoryOption[V any] func(*factoryOptions[V])

type factoryOptions[V any] struct {
	recorder  monitor.Recorder
	logger    *slog.Logger
	keys      *keygen.Generator
	marshaler Marshaler[V]
	sizer     func(V) int
	prefix    string
}

func defaultFactoryOptions[V any]() *factoryOptions[V] {
	return &factoryOptions[V]{
		recorder: monitor.NopRecorder{},
		logger:   logger.NewNope(),
	}
}

// WithRecorder sets the performance recorder wired into the built cache.
func WithRecorder[V any](r monitor.Recorder) FactoryOption[V] {
	return func(o *factoryOptions[V]) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithLogger sets the logger wired into the built cache.
func WithLogger[V any](l *slog.Logger) FactoryOption[V] {
	return func(o *factoryOptions[V]) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithKeyGenerator sets the key generator used by AI-optimized caches.
func WithKeyGenerator[V any](kg *keygen.Generator) FactoryOption[V] {
	return func(o *factoryOptions[V]) {
		o.keys = kg
	}
}

// WithMarshaler overrides remote-tier value serialization (default: JSON).
func WithMarshaler[V any](m Marshaler[V]) FactoryOption[V] {
	return func(o *factoryOptions[V]) {
		o.marshaler = m
	}
}

// WithValueSizer sets the memory-footprint estimator for stored values.
func WithValueSizer[V any](fn func(V) int) FactoryOption[V] {
	return func(o *factoryOptions[V]) {
		o.sizer = fn
	}
}

// WithKeyPrefix namespaces remote keys for caches sharing a Redis instance.
func WithKeyPrefix[V any](prefix string) FactoryOption[V] {
	return func(o *factoryOptions[V]) {
		o.prefix = prefix
	}
}

// NewFromConfig builds a fully wired cache from a validated config.
//
// With a remote URL configured, the factory probes connectivity (TLS and
// auth handshakes included) within the config's connect timeout. On
// failure it falls back to a memory-only cache — a graceful-degradation
// contract, not a partial failure: the returned cache is fully functional
// and callers need not know which tier is active. Setting
// FailOnConnectionError makes the factory surface ErrInfrastructure
// instead, for deployments where silent degradation is unacceptable.
//
// Each call returns an independently closable instance; share instances
// through the registry when a shared pool is wanted. When the config
// enables AI features the result is an *AIOptimized wrapping the base
// variant.
func NewFromConfig[V any](ctx context.Context, cfg config.Config, opts ...FactoryOption[V]) (Cache[V], error) {
	o := defaultFactoryOptions[V]()
	for _, opt := range opts {
		opt(o)
	}

	if result := cfg.Validate(); !result.Valid {
		return nil, errors.Join(config.ErrInvalidConfig,
			fmt.Errorf("%s", strings.Join(result.Messages(), "; ")))
	}

	base, err := buildBase(ctx, cfg, o)
	if err != nil {
		return nil, err
	}

	if cfg.EnableAIFeatures {
		return NewAIOptimized(base, o.keys, cfg.DefaultTTL, cfg.OperationTTLs), nil
	}
	return base, nil
}

// buildBase constructs the memory-only or two-tier variant per the config.
func buildBase[V any](ctx context.Context, cfg config.Config, o *factoryOptions[V]) (Cache[V], error) {
	if cfg.RemoteURL == "" {
		return newMemoryFromConfig(cfg, o, false), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := rdb.Open(connectCtx, cfg.RemoteURL,
		rdb.WithPoolSize(cfg.MaxConnections),
		rdb.WithTimeouts(cfg.ConnectTimeout, cfg.ConnectTimeout, cfg.ConnectTimeout),
		rdb.WithSecurity(cfg.Security),
		rdb.WithRetry(1, 100*time.Millisecond),
	)
	if err != nil {
		if cfg.FailOnConnectionError {
			return nil, errors.Join(ErrInfrastructure, err)
		}
		o.logger.WarnContext(ctx, "remote tier unreachable, falling back to memory-only cache",
			slog.String("url", cfg.RemoteURL), slog.String("error", err.Error()))
		return newMemoryFromConfig(cfg, o, true), nil
	}

	ttOpts := []TwoTierOption[V]{
		WithTwoTierDefaultTTL[V](cfg.DefaultTTL),
		WithTwoTierCompression[V](cfg.CompressionThreshold, cfg.CompressionLevel),
		WithTwoTierMemoryEntries[V](cfg.MemoryCacheSize),
		WithTwoTierRecorder[V](o.recorder),
		WithTwoTierLogger[V](o.logger),
	}
	if o.prefix != "" {
		ttOpts = append(ttOpts, WithTwoTierPrefix[V](o.prefix))
	}
	if o.sizer != nil {
		ttOpts = append(ttOpts, WithTwoTierSizer[V](o.sizer))
	}

	tt := NewTwoTier(client, o.marshaler, ttOpts...)
	tt.ownsClient = true
	return tt, nil
}

func newMemoryFromConfig[V any](cfg config.Config, o *factoryOptions[V], fallback bool) Cache[V] {
	memOpts := []MemoryOption[V]{
		WithDefaultTTL[V](cfg.DefaultTTL),
		WithMaxEntries[V](cfg.MemoryCacheSize),
		WithMemoryRecorder[V](o.recorder),
	}
	if o.sizer != nil {
		memOpts = append(memOpts, WithSizer[V](o.sizer))
	}

	mem := NewMemory[V](memOpts...)
	if fallback {
		return &Fallback[V]{Memory: mem}
	}
	return mem
}

// NewWeb builds a two-tier cache with balanced, web-friendly defaults.
func NewWeb[V any](ctx context.Context, remoteURL string, opts ...FactoryOption[V]) (Cache[V], error) {
	return NewFromConfig(ctx, config.New(config.StrategyBalanced, config.WithRemoteURL(remoteURL)), opts...)
}

// NewAI builds an AI-optimized cache from a config with AI features
// enabled, returning the concrete type so operation-level methods
// (GetOperation, SetOperation, InvalidateOperation) are available.
func NewAI[V any](ctx context.Context, cfg config.Config, opts ...FactoryOption[V]) (*AIOptimized[V], error) {
	if !cfg.EnableAIFeatures {
		return nil, ErrAIFeaturesDisabled
	}

	c, err := NewFromConfig(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}

	ai, ok := c.(*AIOptimized[V])
	if !ok {
		// EnableAIFeatures guarantees the wrap; guard anyway.
		return NewAIOptimized(c, nil, cfg.DefaultTTL, cfg.OperationTTLs), nil
	}
	return ai, nil
}

// NewTesting builds an isolated in-memory cache for tests: no remote
// dependency, no background janitor.
func NewTesting[V any](opts ...MemoryOption[V]) *Memory[V] {
	return NewMemory[V](append([]MemoryOption[V]{WithCleanupInterval[V](0)}, opts...)...)
}

// NewFromMap builds a cache from a loosely-typed configuration map
// (JSON-decoded overrides, dynamic configuration sources). The map is
// validated at this boundary; field-level problems surface before any
// connection is attempted.
func NewFromMap[V any](ctx context.Context, m map[string]any, opts ...FactoryOption[V]) (Cache[V], error) {
	cfg, err := config.FromMap(m)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(ctx, cfg, opts...)
}
