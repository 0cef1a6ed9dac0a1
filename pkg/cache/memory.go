package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"github.com/dmitrymomot/cachekit/pkg/monitor"
)

// entry holds a cached value with its expiration time, key, and size.
type entry[V any] struct {
	expiresAt time.Time // zero value = never expires
	value     V
	key       string
	size      int64
}

// isExpired reports whether the entry has passed its expiration time.
func (e *entry[V]) isExpired() bool {
	if e.expiresAt.IsZero() {
		return false
	}
	return time.Now().After(e.expiresAt)
}

// Memory is the in-memory cache variant: a bounded map with TTL-based
// expiration and LRU eviction once the entry limit is reached. It has no
// network dependency and serves as the universal fallback tier.
//
// It uses a hash map for O(1) lookups and a doubly-linked list for O(1)
// LRU ordering. The least recently used entry sits at the back of the
// list; entries that have never been accessed since insertion tie-break
// by insertion order, oldest first.
type Memory[V any] struct {
	items    map[string]*list.Element
	eviction *list.List
	opts     *memoryOptions[V]
	onEvict  func(key string, value V)
	done     chan struct{}
	bytes    int64
	mu       sync.Mutex
	closed   bool
}

// NewMemory creates a new in-memory cache.
//
// Example:
//
//	c := cache.NewMemory[string](
//	    cache.WithDefaultTTL[string](5 * time.Minute),
//	    cache.WithMaxEntries[string](10000),
//	)
//	defer c.Close()
func NewMemory[V any](opts ...MemoryOption[V]) *Memory[V] {
	o := defaultMemoryOptions[V]()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory[V]{
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		opts:     o,
		done:     make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// SetEvictCallback sets a callback invoked whenever an item leaves the
// cache: LRU eviction, TTL cleanup, manual deletion, or invalidation.
func (m *Memory[V]) SetEvictCallback(fn func(key string, value V)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = fn
}

// Get retrieves a value by key.
// Returns ErrNotFound if the key does not exist or has expired.
// Accessing a key marks it as recently used for LRU purposes.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	start := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		m.recordGetLocked(start, false)
		var zero V
		return zero, ErrNotFound
	}

	e := elem.Value.(*entry[V])

	if e.isExpired() {
		m.removeElement(elem)
		m.recordGetLocked(start, false)
		var zero V
		return zero, ErrNotFound
	}

	// Move to front: mark as recently used.
	m.eviction.MoveToFront(elem)

	m.recordGetLocked(start, true)
	return e.value, nil
}

// Set stores a value with the given TTL.
// TTL semantics: positive = expires after duration, zero = use default TTL,
// negative = never expires.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	start := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	// Resolve TTL.
	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	// ttl < 0: expiresAt stays zero (never expires)

	size := m.sizeOf(value)

	// Update existing entry.
	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*entry[V])
		m.bytes += size - e.size
		e.value = value
		e.expiresAt = expiresAt
		e.size = size
		m.eviction.MoveToFront(elem)
		m.recordSetLocked(start)
		return nil
	}

	// Evict LRU entry if at capacity.
	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		m.evictOldest()
	}

	// Insert new entry at front.
	e := &entry[V]{key: key, value: value, expiresAt: expiresAt, size: size}
	elem := m.eviction.PushFront(e)
	m.items[key] = elem
	m.bytes += size

	m.recordSetLocked(start)
	return nil
}

// Delete removes a key from the cache.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	start := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if elem, ok := m.items[key]; ok {
		m.removeElement(elem)
	}

	m.opts.recorder.Record(monitor.CategoryDelete, time.Since(start), monitor.Context{
		MemoryBytes: m.bytes,
	})
	return nil
}

// Exists checks whether a key exists and has not expired.
func (m *Memory[V]) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return false, nil
	}

	e := elem.Value.(*entry[V])
	if e.isExpired() {
		m.removeElement(elem)
		return false, nil
	}

	return true, nil
}

// InvalidatePattern removes all keys matching the glob pattern and returns
// the number of keys removed.
func (m *Memory[V]) InvalidatePattern(_ context.Context, pattern string) (int, error) {
	start := time.Now()

	if err := ValidatePattern(pattern); err != nil {
		return 0, err
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return 0, ErrInvalidPattern
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}

	var matched []*list.Element
	for key, elem := range m.items {
		if g.Match(key) {
			matched = append(matched, elem)
		}
	}
	for _, elem := range matched {
		m.removeElement(elem)
	}

	m.opts.recorder.Record(monitor.CategoryInvalidation, time.Since(start), monitor.Context{
		Pattern:      pattern,
		KeysAffected: len(matched),
		MemoryBytes:  m.bytes,
	})

	return len(matched), nil
}

// Ping always succeeds: the memory tier has no external dependency.
func (m *Memory[V]) Ping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	return nil
}

// Len returns the current entry count.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Bytes returns the approximate memory footprint of stored values, as
// measured by the configured sizer. Zero when no sizer is set.
func (m *Memory[V]) Bytes() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bytes
}

// Clear removes all entries from the cache.
func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if m.onEvict != nil {
		for _, elem := range m.items {
			e := elem.Value.(*entry[V])
			m.onEvict(e.key, e.value)
		}
	}

	m.items = make(map[string]*list.Element)
	m.eviction.Init()
	m.bytes = 0

	return nil
}

// Close stops the background janitor goroutine and marks the cache as closed.
// Close is idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)

	return nil
}

// janitor periodically removes expired entries.
func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

// deleteExpired removes all expired entries from back to front.
func (m *Memory[V]) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for elem := m.eviction.Back(); elem != nil; {
		e := elem.Value.(*entry[V])
		prev := elem.Prev()
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			m.removeElement(elem)
		}
		elem = prev
	}
}

// evictOldest removes the least recently used entry.
// Caller must hold the mutex.
func (m *Memory[V]) evictOldest() {
	elem := m.eviction.Back()
	if elem != nil {
		m.removeElement(elem)
	}
}

// removeElement removes a specific element and triggers the eviction callback.
// Caller must hold the mutex.
func (m *Memory[V]) removeElement(elem *list.Element) {
	m.eviction.Remove(elem)
	e := elem.Value.(*entry[V])
	delete(m.items, e.key)
	m.bytes -= e.size

	if m.onEvict != nil {
		m.onEvict(e.key, e.value)
	}
}

func (m *Memory[V]) sizeOf(v V) int64 {
	if m.opts.sizer == nil {
		return 0
	}
	return int64(m.opts.sizer(v))
}

// recordGetLocked reports a get measurement. Caller must hold the mutex.
func (m *Memory[V]) recordGetLocked(start time.Time, hit bool) {
	m.opts.recorder.Record(monitor.CategoryGet, time.Since(start), monitor.Context{
		Hit:         hit,
		MemoryBytes: m.bytes,
	})
}

// recordSetLocked reports a set measurement. Caller must hold the mutex.
func (m *Memory[V]) recordSetLocked(start time.Time) {
	m.opts.recorder.Record(monitor.CategorySet, time.Since(start), monitor.Context{
		MemoryBytes: m.bytes,
	})
}

var _ Cache[any] = (*Memory[any])(nil)
