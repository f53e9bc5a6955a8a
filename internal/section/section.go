// Package section partitions assembled content into fixed line-count
// sections for viewport virtualization. Line count is known synchronously
// from the text; pixel height is only estimated here and corrected later
// by the host's real layout, so the chunk size stays a heuristic.
package section

import (
	"github.com/dgallion1/mdview/internal/document"
)

// Config controls partitioning.
type Config struct {
	Lines      int     // lines per section
	LineHeight float64 // estimated height of one line
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{Lines: 25, LineHeight: 18}
}

// defaultSectionHeight is the estimate used when the content has no line
// structure to estimate from.
const defaultSectionHeight = 200

// Partition slices content into sections. The union of the returned line
// ranges always covers 0..lineCount contiguously with no gaps or overlaps;
// degenerate content (empty, or a single line) yields exactly one section
// spanning the whole document.
func Partition(content document.StyledText, cfg Config) []document.RenderedSection {
	if cfg.Lines <= 0 {
		cfg.Lines = 25
	}
	if cfg.LineHeight <= 0 {
		cfg.LineHeight = 18
	}

	starts, lineCount := lineStarts(content.Text)

	if lineCount <= 1 {
		return []document.RenderedSection{{
			ID:              document.NewID(),
			Span:            document.Range{Offset: 0, Length: len(content.Text)},
			Content:         content.Slice(0, len(content.Text)),
			EstimatedHeight: defaultSectionHeight,
			Priority:        document.PriorityHigh,
			Lines:           document.LineRange{Start: 0, End: lineCount},
		}}
	}

	byteEnd := func(line int) int {
		if line < len(starts) {
			return starts[line]
		}
		return len(content.Text)
	}

	var sections []document.RenderedSection
	for lo := 0; lo < lineCount; lo += cfg.Lines {
		hi := lo + cfg.Lines
		if hi > lineCount {
			hi = lineCount
		}
		from, to := starts[lo], byteEnd(hi)

		priority := document.PriorityNormal
		if lo == 0 {
			priority = document.PriorityHigh
		}
		sections = append(sections, document.RenderedSection{
			ID:              document.NewID(),
			Span:            document.Range{Offset: from, Length: to - from},
			Content:         content.Slice(from, to),
			EstimatedHeight: float64(hi-lo) * cfg.LineHeight,
			Priority:        priority,
			Lines:           document.LineRange{Start: lo, End: hi},
		})
	}
	return sections
}

// lineStarts records the byte index immediately after every newline,
// plus the leading 0. lineCount excludes a phantom line after a trailing
// newline.
func lineStarts(text string) (starts []int, lineCount int) {
	starts = []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	lineCount = len(starts)
	if len(text) == 0 || starts[len(starts)-1] == len(text) {
		lineCount--
	}
	return starts, lineCount
}
