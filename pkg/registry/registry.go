package registry

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/cachekit/pkg/cache"
	"github.com/dmitrymomot/cachekit/pkg/config"
)

// Builder constructs a cache instance for a config. The default builder is
// the cache factory; tests inject their own.
type Builder[V any] func(ctx context.Context, cfg config.Config) (cache.Cache[V], error)

// entry is one tracked cache instance.
type entry[V any] struct {
	cache       cache.Cache[V]
	cfg         config.Config
	id          string
	fingerprint string
	createdAt   time.Time
}

// Registry tracks live cache instances so deployments can enumerate, share,
// and tear them down centrally. Instances built from equivalent
// configurations share one entry; distinct configurations get distinct
// entries. Safe for concurrent use.
type Registry[V any] struct {
	entries       map[string]*entry[V]
	byFingerprint map[string]string
	builder       Builder[V]
	mu            sync.Mutex
	closed        bool
}

// New creates a registry backed by the cache factory.
func New[V any](opts ...Option[V]) *Registry[V] {
	r := &Registry[V]{
		entries:       make(map[string]*entry[V]),
		byFingerprint: make(map[string]string),
		builder: func(ctx context.Context, cfg config.Config) (cache.Cache[V], error) {
			return cache.NewFromConfig[V](ctx, cfg)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Option customizes a registry.
type Option[V any] func(*Registry[V])

// WithBuilder replaces the instance builder.
func WithBuilder[V any](b Builder[V]) Option[V] {
	return func(r *Registry[V]) {
		if b != nil {
			r.builder = b
		}
	}
}

// Register adds an externally built cache under a fresh instance ID. The
// registry takes over the instance's lifecycle: Cleanup and Remove close it.
func (r *Registry[V]) Register(c cache.Cache[V], cfg config.Config) (string, error) {
	if c == nil {
		return "", ErrNilCache
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return "", ErrRegistryClosed
	}

	e := &entry[V]{
		id:          uuid.NewString(),
		fingerprint: cfg.Fingerprint(),
		cache:       c,
		cfg:         cfg,
		createdAt:   time.Now(),
	}
	r.entries[e.id] = e
	r.byFingerprint[e.fingerprint] = e.id

	return e.id, nil
}

// Get returns the instance registered under id.
func (r *Registry[V]) Get(id string) (cache.Cache[V], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, ErrInstanceNotFound
	}
	return e.cache, nil
}

// GetOrCreate returns the instance serving cfg, building one on first use.
// Configurations with equal fingerprints share a single instance, so
// components constructing caches independently from the same settings end
// up on one connection pool.
func (r *Registry[V]) GetOrCreate(ctx context.Context, cfg config.Config) (cache.Cache[V], string, error) {
	fp := cfg.Fingerprint()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, "", ErrRegistryClosed
	}

	if id, ok := r.byFingerprint[fp]; ok {
		if e, ok := r.entries[id]; ok {
			return e.cache, e.id, nil
		}
	}

	c, err := r.builder(ctx, cfg)
	if err != nil {
		return nil, "", err
	}

	e := &entry[V]{
		id:          uuid.NewString(),
		fingerprint: fp,
		cache:       c,
		cfg:         cfg,
		createdAt:   time.Now(),
	}
	r.entries[e.id] = e
	r.byFingerprint[fp] = e.id

	return e.cache, e.id, nil
}

// Remove closes and unregisters one instance.
func (r *Registry[V]) Remove(id string) error {
	r.mu.Lock()

	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return ErrInstanceNotFound
	}

	delete(r.entries, id)
	if r.byFingerprint[e.fingerprint] == id {
		delete(r.byFingerprint, e.fingerprint)
	}
	r.mu.Unlock()

	return e.cache.Close()
}

// Info describes one registered instance.
type Info struct {
	ID          string          `json:"id"`
	Fingerprint string          `json:"fingerprint"`
	Strategy    config.Strategy `json:"strategy"`
	CreatedAt   time.Time       `json:"created_at"`
	Degraded    bool            `json:"degraded"`
}

// List returns a snapshot of all registered instances, oldest first.
func (r *Registry[V]) List() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		infos = append(infos, Info{
			ID:          e.id,
			Fingerprint: e.fingerprint,
			Strategy:    e.cfg.Strategy,
			CreatedAt:   e.createdAt,
			Degraded:    cache.IsFallback(e.cache),
		})
	}

	slices.SortFunc(infos, func(a, b Info) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return infos
}

// Len returns the number of registered instances.
func (r *Registry[V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// CleanupReport summarizes one cleanup pass.
type CleanupReport struct {
	Cleaned   int           `json:"cleaned"`
	Failed    int           `json:"failed"`
	Remaining int           `json:"remaining"`
	Duration  time.Duration `json:"duration"`
}

// Cleanup closes and unregisters every instance. One instance failing to
// close does not stop the pass; its error is joined into the returned error
// and the instance is dropped regardless, since a failed close leaves no
// usable cache behind. Concurrent Cleanup calls serialize; the second call
// sees an empty registry and reports zero work.
func (r *Registry[V]) Cleanup() (CleanupReport, error) {
	start := time.Now()

	r.mu.Lock()
	entries := make([]*entry[V], 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.entries = make(map[string]*entry[V])
	r.byFingerprint = make(map[string]string)
	r.mu.Unlock()

	report := CleanupReport{}
	var errs []error

	for _, e := range entries {
		if err := e.cache.Close(); err != nil {
			report.Failed++
			errs = append(errs, err)
			continue
		}
		report.Cleaned++
	}

	r.mu.Lock()
	report.Remaining = len(r.entries)
	r.mu.Unlock()

	report.Duration = time.Since(start)
	return report, errors.Join(errs...)
}

// Close runs a final cleanup and rejects further registrations.
func (r *Registry[V]) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	_, err := r.Cleanup()
	return err
}
