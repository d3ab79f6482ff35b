// Package mounts keeps live screen instances (form controllers, verification machines) between
// HTTP requests. Each mount gets an opaque ID that the page carries in a hidden field or query
// parameter. Idle mounts are evicted and disposed.
package mounts

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Disposer is anything that must release timers or requests when it goes away.
type Disposer interface {
	Dispose()
}

type entry[T Disposer] struct {
	value    T
	lastSeen time.Time
}

// Option configures a Store.
type Option func(*config)

type config struct {
	clock  clockwork.Clock
	logger *slog.Logger
}

// WithClock sets the clock used for idle tracking.
func WithClock(c clockwork.Clock) Option {
	return func(cfg *config) { cfg.clock = c }
}

// WithLogger sets the logger used by the janitor.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// Store is a concurrency-safe map of mounts with idle eviction.
type Store[T Disposer] struct {
	name   string
	ttl    time.Duration
	clock  clockwork.Clock
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry[T]
	closed  bool
}

// New creates a store whose entries expire after ttl without access.
func New[T Disposer](name string, ttl time.Duration, opts ...Option) *Store[T] {
	cfg := config{clock: clockwork.NewRealClock(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store[T]{
		name:    name,
		ttl:     ttl,
		clock:   cfg.clock,
		logger:  cfg.logger.With("store", name),
		entries: make(map[string]*entry[T]),
	}
}

// Put stores v under a fresh ID. If the store is closed, v is disposed and "" is returned.
func (s *Store[T]) Put(v T) string {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		v.Dispose()
		return ""
	}
	id := uuid.NewString()
	s.entries[id] = &entry[T]{value: v, lastSeen: s.clock.Now()}
	s.mu.Unlock()
	return id
}

// Get returns the mount for id and marks it as recently used.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		var zero T
		return zero, false
	}
	e.lastSeen = s.clock.Now()
	return e.value, true
}

// Delete removes and disposes the mount for id.
func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()
	if ok {
		e.value.Dispose()
	}
}

// Len returns the number of live mounts.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep evicts and disposes every mount idle for longer than the TTL.
func (s *Store[T]) Sweep() int {
	cutoff := s.clock.Now().Add(-s.ttl)

	s.mu.Lock()
	var expired []T
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.value)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, v := range expired {
		v.Dispose()
	}
	if len(expired) > 0 {
		s.logger.Debug("Evicted idle mounts", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is cancelled.
func (s *Store[T]) Run(ctx context.Context, interval time.Duration) error {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			s.Sweep()
		}
	}
}

// Close disposes every mount; later Puts dispose their value immediately.
func (s *Store[T]) Close() {
	s.mu.Lock()
	s.closed = true
	entries := s.entries
	s.entries = make(map[string]*entry[T])
	s.mu.Unlock()

	for _, e := range entries {
		e.value.Dispose()
	}
}
