package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/dgallion1/mdview/internal/config"
	"github.com/dgallion1/mdview/internal/document"
)

func TestSession_PublishesLatest(t *testing.T) {
	s := NewSession(testLoader())

	res, err := s.Load(context.Background(), "# One\n", document.Reference{Path: "a.md"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Current(); got != res {
		t.Error("expected Current to return the published result")
	}

	res2, err := s.Load(context.Background(), "# Two\n", document.Reference{Path: "a.md"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Current() != res2 {
		t.Error("expected second load to supersede the first")
	}
	if s.Current().Model.Metadata.Title != "Two" {
		t.Errorf("expected title %q, got %q", "Two", s.Current().Model.Metadata.Title)
	}
}

func TestSession_CurrentNilBeforeFirstLoad(t *testing.T) {
	s := NewSession(testLoader())
	if s.Current() != nil {
		t.Error("expected nil before the first load")
	}
}

func TestSession_FailedLoadDoesNotPublish(t *testing.T) {
	cfg := config.Load()
	cfg.MaxDocumentBytes = 8
	s := NewSession(NewLoader(cfg, nil, nil))

	if _, err := s.Load(context.Background(), "way more than eight bytes", document.Reference{}); err == nil {
		t.Fatal("expected oversize load to fail")
	}
	if s.Current() != nil {
		t.Error("expected no published result after a failed load")
	}
}

func TestSession_ConcurrentLoadsPublishExactlyOne(t *testing.T) {
	s := NewSession(testLoader())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Stale loads may return context.Canceled; that is the contract.
			s.Load(context.Background(), "# Race\n\ntext\n", document.Reference{})
		}()
	}
	wg.Wait()

	cur := s.Current()
	if cur == nil {
		t.Fatal("expected some load to publish")
	}
	if cur.Model.Metadata.Title != "Race" {
		t.Errorf("expected a complete model, got title %q", cur.Model.Metadata.Title)
	}
}
