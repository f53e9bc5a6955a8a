package api

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/mdview/internal/pipeline"
)

// Store holds loaded documents for the HTTP API, keyed by document ID.
// Entries expire after a TTL of inactivity, and the store evicts the
// least recently used entry when full.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	max     int
}

type entry struct {
	res        *pipeline.Result
	storedAt   time.Time
	lastAccess time.Time
}

// NewStore creates a store bounded by max entries and ttl inactivity.
func NewStore(ttl time.Duration, max int) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if max <= 0 {
		max = 128
	}
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		max:     max,
	}
}

// Put stores a result under its model ID, evicting the least recently
// used entry if the store is full.
func (s *Store) Put(res *pipeline.Result) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[res.Model.ID]; !exists && len(s.entries) >= s.max {
		s.evictOldestLocked()
	}
	s.entries[res.Model.ID] = &entry{res: res, storedAt: now, lastAccess: now}
}

// Get returns the stored result and refreshes its access time, or nil.
func (s *Store) Get(id string) *pipeline.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	e.lastAccess = time.Now()
	return e.res
}

// Delete removes a document; it reports whether one was present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// List returns the stored results ordered most recently stored first.
func (s *Store) List() []*pipeline.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	ordered := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		ordered = append(ordered, e)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].storedAt.After(ordered[j].storedAt)
	})
	out := make([]*pipeline.Result, len(ordered))
	for i, e := range ordered {
		out[i] = e.res
	}
	return out
}

// Len reports the number of stored documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.entries {
		if oldestID == "" || e.lastAccess.Before(oldest) {
			oldestID = id
			oldest = e.lastAccess
		}
	}
	if oldestID != "" {
		delete(s.entries, oldestID)
	}
}

// StartCleanup prunes expired entries every interval until ctx is done.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.pruneExpired(); n > 0 {
					log.Info("expired documents removed", "count", n)
				}
			}
		}
	}()
}

func (s *Store) pruneExpired() int {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		if e.lastAccess.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}
