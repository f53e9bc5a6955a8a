// Package viewport decides which partitioned sections are live (fully
// rendered) versus placeholders (height-reserving stand-ins). It runs on
// every scroll update, so the hot path is O(number of sections) with no
// per-call allocation beyond the result set.
package viewport

import (
	"sync"

	"github.com/dgallion1/mdview/internal/document"
)

// Bounds is the visible region in the host's coordinate space.
type Bounds struct {
	Top    float64
	Width  float64
	Height float64
}

// degenerate bounds mean the host has not measured yet; rendering
// everything beats a blank first frame.
func (b Bounds) degenerate() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Config controls buffering and fast-scroll detection.
type Config struct {
	Buffer              int     // sections added on each side of the visible set
	FastScrollThreshold float64 // scroll delta that force-enables optimization
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{Buffer: 1, FastScrollThreshold: 100}
}

// Renderer tracks scroll state and layout overrides across visibility
// recomputations. Safe for use from one goroutine per document view.
type Renderer struct {
	cfg Config

	mu        sync.Mutex
	lastTop   float64
	hasLast   bool
	overrides map[int]bool // index -> live, authoritative from real layout
}

// New builds a renderer; zero config fields fall back to defaults.
func New(cfg Config) *Renderer {
	d := DefaultConfig()
	if cfg.Buffer < 0 {
		cfg.Buffer = 0
	} else if cfg.Buffer == 0 {
		cfg.Buffer = d.Buffer
	}
	if cfg.FastScrollThreshold <= 0 {
		cfg.FastScrollThreshold = d.FastScrollThreshold
	}
	return &Renderer{cfg: cfg, overrides: make(map[int]bool)}
}

// Visible returns the set of section indices to render live. When
// optimize is false every section is live; a scroll delta above the
// fast-scroll threshold force-enables optimization for this update.
func (r *Renderer) Visible(sections []document.RenderedSection, bounds Bounds, optimize bool) map[int]struct{} {
	live := make(map[int]struct{}, len(sections))
	if len(sections) == 0 {
		return live
	}

	r.mu.Lock()
	if r.hasLast {
		delta := bounds.Top - r.lastTop
		if delta < 0 {
			delta = -delta
		}
		if delta > r.cfg.FastScrollThreshold {
			optimize = true
		}
	}
	r.lastTop = bounds.Top
	r.hasLast = true
	overrides := r.overrides
	r.mu.Unlock()

	if !optimize || bounds.degenerate() {
		for i := range sections {
			live[i] = struct{}{}
		}
		return live
	}

	// Estimated frames are a running height sum; the appeared/disappeared
	// overrides below correct for estimation error.
	top, bottom := bounds.Top, bounds.Top+bounds.Height
	offset := 0.0
	lo, hi := -1, -1
	for i, s := range sections {
		end := offset + s.EstimatedHeight
		if end > top && offset < bottom {
			if lo == -1 {
				lo = i
			}
			hi = i
		}
		offset = end
	}
	if lo == -1 {
		// Scrolled past every estimate; keep the nearest edge section.
		lo, hi = len(sections)-1, len(sections)-1
	}

	lo -= r.cfg.Buffer
	hi += r.cfg.Buffer
	if lo < 0 {
		lo = 0
	}
	if hi > len(sections)-1 {
		hi = len(sections) - 1
	}
	for i := lo; i <= hi; i++ {
		live[i] = struct{}{}
	}

	r.mu.Lock()
	for i, isLive := range overrides {
		if i < 0 || i >= len(sections) {
			continue
		}
		if isLive {
			live[i] = struct{}{}
		} else {
			delete(live, i)
		}
	}
	r.mu.Unlock()

	return live
}

// SectionAppeared records that the host's layout actually displayed a
// section, overriding the estimate until the next Reset.
func (r *Renderer) SectionAppeared(index int) {
	r.mu.Lock()
	r.overrides[index] = true
	r.mu.Unlock()
}

// SectionDisappeared records that a section left the real viewport.
func (r *Renderer) SectionDisappeared(index int) {
	r.mu.Lock()
	r.overrides[index] = false
	r.mu.Unlock()
}

// Reset clears scroll history and overrides; call when the document (and
// its section set) is replaced.
func (r *Renderer) Reset() {
	r.mu.Lock()
	r.hasLast = false
	r.lastTop = 0
	r.overrides = make(map[int]bool)
	r.mu.Unlock()
}
