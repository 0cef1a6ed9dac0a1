package health

import (
	"context"

	"github.com/dmitrymomot/cachekit/pkg/cache"
	cachecfg "github.com/dmitrymomot/cachekit/pkg/config"
	"github.com/dmitrymomot/cachekit/pkg/monitor"
	"github.com/dmitrymomot/cachekit/pkg/security"
)

// Surface is the management entry point for one cache deployment: health,
// metrics, invalidation, and configuration review as plain function calls.
// It never binds a network port; embedding applications expose whichever
// calls they want over their own transport.
type Surface[V any] struct {
	cache  cache.Cache[V]
	mon    *monitor.Monitor
	cfg    cachecfg.Config
	extra  Checks
	runOpt []Option
}

// SurfaceOption customizes a management surface.
type SurfaceOption[V any] func(*Surface[V])

// WithMonitor attaches the performance monitor backing metrics queries.
func WithMonitor[V any](m *monitor.Monitor) SurfaceOption[V] {
	return func(s *Surface[V]) {
		s.mon = m
	}
}

// WithCheck adds a named check to every health snapshot, alongside the
// built-in cache probe.
func WithCheck[V any](name string, fn CheckFunc) SurfaceOption[V] {
	return func(s *Surface[V]) {
		if s.extra == nil {
			s.extra = make(Checks)
		}
		s.extra[name] = fn
	}
}

// WithRunOptions sets timeout and logging for health snapshot runs.
func WithRunOptions[V any](opts ...Option) SurfaceOption[V] {
	return func(s *Surface[V]) {
		s.runOpt = opts
	}
}

// NewSurface builds a management surface over a cache and the config it was
// built from.
func NewSurface[V any](c cache.Cache[V], cfg cachecfg.Config, opts ...SurfaceOption[V]) *Surface[V] {
	s := &Surface[V]{
		cache: c,
		cfg:   cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Health runs the cache probe plus any extra checks and returns the
// aggregated snapshot.
func (s *Surface[V]) Health(ctx context.Context) *Response {
	checks := Checks{"cache": CacheCheck(s.cache)}
	for name, fn := range s.extra {
		checks[name] = fn
	}
	return Run(ctx, checks, s.runOpt...)
}

// Metrics returns the aggregate performance snapshot.
func (s *Surface[V]) Metrics() (monitor.Stats, error) {
	if s.mon == nil {
		return monitor.Stats{}, ErrNoMonitor
	}
	return s.mon.Stats(), nil
}

// SlowOperations returns measurements exceeding the per-category baseline
// by the given multiplier.
func (s *Surface[V]) SlowOperations(thresholdMultiplier float64) (map[monitor.Category][]monitor.SlowOperation, error) {
	if s.mon == nil {
		return nil, ErrNoMonitor
	}
	return s.mon.SlowOperations(thresholdMultiplier), nil
}

// Invalidate removes all keys matching the glob pattern. Overly broad
// patterns are rejected with cache.ErrInvalidPattern before touching
// either tier.
func (s *Surface[V]) Invalidate(ctx context.Context, pattern string) (int, error) {
	if err := cache.ValidatePattern(pattern); err != nil {
		return 0, err
	}
	return s.cache.InvalidatePattern(ctx, pattern)
}

// ValidateConfig re-runs configuration validation, for operational review
// of a live deployment's settings.
func (s *Surface[V]) ValidateConfig() cachecfg.ValidationResult {
	return s.cfg.Validate()
}

// SecurityStatus scores the deployment's connection security.
func (s *Surface[V]) SecurityStatus() security.Status {
	return security.NewManager(s.cfg.Security, s.cfg.RemoteURL).SecurityStatus()
}
