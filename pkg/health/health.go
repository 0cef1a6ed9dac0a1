package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/cachekit/pkg/cache"
	"github.com/dmitrymomot/cachekit/pkg/logger"
)

const (
	defaultTimeout = 5 * time.Second

	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusDegraded indicates the cache is serving with reduced capability,
	// typically memory-only operation while the config names a remote tier.
	StatusDegraded = "degraded"
	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc is the standard health check function signature. Wrapping
// ErrDegraded in the returned error reports reduced service instead of an
// outage.
type CheckFunc func(ctx context.Context) error

// Checks is a map of named health check functions.
type Checks map[string]CheckFunc

// Response represents an aggregated health snapshot.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check represents the status of a single health check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// config holds health check configuration.
type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures health check behavior.
type Option func(*config)

// WithTimeout sets the timeout for all checks.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger for failed-check logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// newConfig creates a config with defaults, modified by options.
func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: defaultTimeout,
		logger:  logger.NewNope(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes all checks in parallel and aggregates the result: any failed
// check makes the response unhealthy, any degraded check (without failures)
// makes it degraded, otherwise it is healthy.
func Run(ctx context.Context, checks Checks, opts ...Option) *Response {
	return runChecks(ctx, checks, newConfig(opts...))
}

// CacheCheck probes one cache instance. A failing Ping is unhealthy; a
// responsive cache running in memory-only fallback mode is degraded.
func CacheCheck[V any](c cache.Cache[V]) CheckFunc {
	return func(ctx context.Context) error {
		if err := c.Ping(ctx); err != nil {
			return err
		}
		if cache.IsFallback(c) {
			return fmt.Errorf("%w: remote tier unreachable, serving memory-only", ErrDegraded)
		}
		return nil
	}
}

// runChecks executes all checks in parallel and returns the aggregated result.
func runChecks(ctx context.Context, checks Checks, cfg *config) *Response {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu          sync.Mutex
		wg          sync.WaitGroup
		results     = make(map[string]Check, len(checks))
		hasError    bool
		hasDegraded bool
	)

	for name, check := range checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()

			result := Check{Status: StatusHealthy}
			if err := check(ctx); err != nil {
				if errors.Is(err, ErrDegraded) {
					result.Status = StatusDegraded
					result.Error = err.Error()
					mu.Lock()
					hasDegraded = true
					mu.Unlock()
				} else {
					result.Status = StatusUnhealthy
					result.Error = err.Error()
					cfg.logger.WarnContext(ctx, "health check failed",
						slog.String("check", name),
						slog.String("error", err.Error()),
					)
					mu.Lock()
					hasError = true
					mu.Unlock()
				}
			}

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, check)
	}

	wg.Wait()

	status := StatusHealthy
	switch {
	case hasError:
		status = StatusUnhealthy
	case hasDegraded:
		status = StatusDegraded
	}

	return &Response{
		Status: status,
		Checks: results,
	}
}
