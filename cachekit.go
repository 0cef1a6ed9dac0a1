package cachekit

import (
	"context"
	"time"

	"github.com/dmitrymomot/cachekit/pkg/cache"
	"github.com/dmitrymomot/cachekit/pkg/config"
	"github.com/dmitrymomot/cachekit/pkg/health"
	"github.com/dmitrymomot/cachekit/pkg/keygen"
	"github.com/dmitrymomot/cachekit/pkg/monitor"
	"github.com/dmitrymomot/cachekit/pkg/registry"
)

// Type aliases - public API
type (
	// Cache is the capability interface shared by all cache variants.
	Cache[V any] = cache.Cache[V]

	// AIOptimized is the cache variant with per-operation TTLs and
	// keygen-delegated key construction.
	AIOptimized[V any] = cache.AIOptimized[V]

	// Config holds all cache subsystem parameters.
	Config = config.Config

	// Strategy is a named configuration profile.
	Strategy = config.Strategy

	// SecurityConfig configures remote-tier transport security.
	SecurityConfig = config.SecurityConfig

	// Monitor records operation measurements and computes statistics.
	Monitor = monitor.Monitor

	// Stats is the aggregate performance snapshot.
	Stats = monitor.Stats

	// KeyGenerator builds deterministic cache keys for operation requests.
	KeyGenerator = keygen.Generator

	// Registry tracks live cache instances for lifecycle management.
	Registry[V any] = registry.Registry[V]

	// Surface is the management entry point for one cache deployment.
	Surface[V any] = health.Surface[V]
)

// Strategy profiles.
const (
	StrategyFast        = config.StrategyFast
	StrategyBalanced    = config.StrategyBalanced
	StrategyRobust      = config.StrategyRobust
	StrategyAIOptimized = config.StrategyAIOptimized
)

// Sentinel errors - public API
var (
	ErrNotFound           = cache.ErrNotFound
	ErrClosed             = cache.ErrClosed
	ErrInvalidPattern     = cache.ErrInvalidPattern
	ErrInfrastructure     = cache.ErrInfrastructure
	ErrAIFeaturesDisabled = cache.ErrAIFeaturesDisabled
	ErrInvalidConfig      = config.ErrInvalidConfig
)

// New builds a fully wired cache from a validated config. See
// cache.NewFromConfig for the graceful-degradation contract.
func New[V any](ctx context.Context, cfg Config, opts ...cache.FactoryOption[V]) (Cache[V], error) {
	return cache.NewFromConfig[V](ctx, cfg, opts...)
}

// NewConfig builds a config from strategy defaults plus explicit overrides.
func NewConfig(strategy Strategy, opts ...config.ConfigOption) Config {
	return config.New(strategy, opts...)
}

// NewMonitor creates a performance monitor.
func NewMonitor(opts ...monitor.Option) *Monitor {
	return monitor.New(opts...)
}

// NewRegistry creates an instance registry backed by the cache factory.
func NewRegistry[V any](opts ...registry.Option[V]) *Registry[V] {
	return registry.New[V](opts...)
}

// NewSurface builds a management surface over a cache and its config.
func NewSurface[V any](c Cache[V], cfg Config, opts ...health.SurfaceOption[V]) *Surface[V] {
	return health.NewSurface[V](c, cfg, opts...)
}

// GetOrSet retrieves a value or computes and caches it on a miss,
// deduplicating concurrent computations per key.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, fn func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	return cache.GetOrSet(ctx, c, key, fn)
}
