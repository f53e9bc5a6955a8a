package document

// Run is a contiguous span of styled text. Attributes are toolkit-neutral;
// hosts map them onto whatever text system they draw with.
type Run struct {
	Span      Range  `json:"span"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Strike    bool   `json:"strike,omitempty"`
	Monospace bool   `json:"monospace,omitempty"`
	PointSize int    `json:"point_size,omitempty"` // 0 means body size
	Link      string `json:"link,omitempty"`
}

// StyledText is rendered document content: the display text plus an ordered,
// non-overlapping list of attribute runs over it. Immutable once built.
type StyledText struct {
	Text string `json:"text"`
	Runs []Run  `json:"runs"`
}

// Slice returns the styled content covering text[start:end). Runs are
// clipped to the window and rebased to offset 0. The returned value shares
// the underlying string storage; it never copies the whole document.
func (s StyledText) Slice(start, end int) StyledText {
	if start < 0 {
		start = 0
	}
	if end > len(s.Text) {
		end = len(s.Text)
	}
	if start >= end {
		return StyledText{}
	}
	out := StyledText{Text: s.Text[start:end]}
	for _, r := range s.Runs {
		lo, hi := r.Span.Offset, r.Span.End()
		if hi <= start || lo >= end {
			continue
		}
		if lo < start {
			lo = start
		}
		if hi > end {
			hi = end
		}
		r.Span = Range{Offset: lo - start, Length: hi - lo}
		out.Runs = append(out.Runs, r)
	}
	return out
}
