// Package store keeps finished sweep runs in memory for the API.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"pvs-dispatch/internal/analysis"
	"pvs-dispatch/internal/sweep"
)

// Run is one finished sweep.
type Run struct {
	ID        string
	CreatedAt time.Time
	// Start is the first hour of the simulated horizon.
	Start     time.Time
	Summaries []analysis.CaseSummary
	Cases     sweep.Results
}

type entry struct {
	run       *Run
	expiresAt time.Time
}

// RunStore is a TTL map of runs keyed by run ID. Hourly case output is
// large, so entries expire and are swept periodically.
type RunStore struct {
	mu    sync.RWMutex
	store map[string]*entry
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRunStore creates a store and starts its cleanup goroutine. Call Close
// to stop it.
func NewRunStore(ttl, sweepEvery time.Duration) *RunStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if sweepEvery <= 0 {
		sweepEvery = 5 * time.Minute
	}
	s := &RunStore{
		store: make(map[string]*entry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go s.cleanup(sweepEvery)
	return s
}

// Put stores a copy of run under a fresh ID and returns it.
func (s *RunStore) Put(r Run) *Run {
	run := &r
	run.ID = uuid.NewString()
	run.CreatedAt = s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[run.ID] = &entry{run: run, expiresAt: run.CreatedAt.Add(s.ttl)}
	return run
}

// Get returns a run if present and not expired.
func (s *RunStore) Get(id string) (*Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.store[id]
	if !ok || s.now().After(e.expiresAt) {
		return nil, false
	}
	return e.run, true
}

// Len is the number of stored runs, expired or not.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}

// Clear removes all runs.
func (s *RunStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = make(map[string]*entry)
}

// Close stops the cleanup goroutine.
func (s *RunStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *RunStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.store {
		if now.After(e.expiresAt) {
			delete(s.store, id)
		}
	}
}

func (s *RunStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stop:
			return
		}
	}
}
