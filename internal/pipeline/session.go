package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dgallion1/mdview/internal/document"
)

// Session owns the "currently displayed document" slot for one viewer.
// Loads are last-request-wins: issuing a new load cancels the in-flight
// one, and a stale load never publishes its result. Readers always see a
// complete Result or nil, never a half-updated model.
type Session struct {
	loader *Loader

	generation atomic.Uint64

	mu        sync.Mutex
	cancel    context.CancelFunc
	cancelGen uint64
	current   *Result
}

// NewSession creates an empty session backed by loader.
func NewSession(loader *Loader) *Session {
	return &Session{loader: loader}
}

// Load parses content and, if this request is still the latest when the
// pipeline finishes, publishes the result. A superseded request returns
// context.Canceled.
func (s *Session) Load(ctx context.Context, content string, ref document.Reference) (*Result, error) {
	gen := s.generation.Add(1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if gen < s.cancelGen {
		// Already superseded before starting any work.
		s.mu.Unlock()
		return nil, context.Canceled
	}
	if s.cancel != nil {
		s.cancel() // supersede the in-flight load
	}
	s.cancel = cancel
	s.cancelGen = gen
	s.mu.Unlock()

	res, err := s.loader.Load(ctx, content, ref)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation.Load() != gen {
		// A newer request won the race; drop this result unpublished.
		return nil, context.Canceled
	}
	s.current = res
	return res, nil
}

// Current returns the published result, or nil before the first
// successful load.
func (s *Session) Current() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
