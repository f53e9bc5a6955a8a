package viewport

import (
	"github.com/dgallion1/mdview/internal/document"
)

// Highlight is one search-match instruction from the search service: a
// byte range over the document content plus whether it is the current
// match.
type Highlight struct {
	Span      document.Range `json:"span"`
	IsCurrent bool           `json:"is_current"`
}

// SectionOverlay is the overlay state for one live section: highlights
// rebased to the section's content slice and the syntax errors whose
// lines fall inside the section. Info-severity errors are never included.
type SectionOverlay struct {
	Highlights []Highlight
	Errors     []document.SyntaxError
}

// MergeOverlays derives overlay state for live sections only. Placeholders
// never carry overlays: a section toggling back to live re-derives them
// from the current query and error set, so nothing here is cached.
func MergeOverlays(
	sections []document.RenderedSection,
	live map[int]struct{},
	highlights []Highlight,
	errs []document.SyntaxError,
) map[int]SectionOverlay {
	out := make(map[int]SectionOverlay)
	for i := range sections {
		if _, ok := live[i]; !ok {
			continue
		}
		ov := overlayFor(&sections[i], highlights, errs)
		if len(ov.Highlights) > 0 || len(ov.Errors) > 0 {
			out[i] = ov
		}
	}
	return out
}

func overlayFor(s *document.RenderedSection, highlights []Highlight, errs []document.SyntaxError) SectionOverlay {
	var ov SectionOverlay

	lo, hi := s.Span.Offset, s.Span.End()
	for _, h := range highlights {
		hLo, hHi := h.Span.Offset, h.Span.End()
		if hHi <= lo || hLo >= hi {
			continue
		}
		if hLo < lo {
			hLo = lo
		}
		if hHi > hi {
			hHi = hi
		}
		ov.Highlights = append(ov.Highlights, Highlight{
			Span:      document.Range{Offset: hLo - lo, Length: hHi - hLo},
			IsCurrent: h.IsCurrent,
		})
	}

	for _, e := range errs {
		if e.Severity == document.SeverityInfo {
			continue
		}
		line := e.Line - 1 // errors are 1-based, line ranges 0-based
		if line >= s.Lines.Start && line < s.Lines.End {
			ov.Errors = append(ov.Errors, e)
		}
	}
	return ov
}
