package document

import "time"

// FormatVersion tags the model layout so persisted projections can detect
// a stale shape.
const FormatVersion = "1"

// Model is the assembled result of a parse. Immutable once constructed:
// any source change produces a new Model via re-parse, never an in-place
// edit. Ownership stays with whichever caller holds the pointer.
type Model struct {
	ID           string         `json:"id"`
	Ref          Reference      `json:"ref"`
	Raw          string         `json:"-"`
	Styled       StyledText     `json:"-"`
	Metadata     Metadata       `json:"metadata"`
	Outline      []*HeadingItem `json:"outline"`      // nested
	FlatOutline  []*HeadingItem `json:"flat_outline"` // in document order
	ParsedAt     time.Time      `json:"parsed_at"`
	Version      string         `json:"format_version"`
	SyntaxErrors []SyntaxError  `json:"syntax_errors"`
}

// Statistics projects the model's metadata for display.
func (m *Model) Statistics() Statistics {
	return Statistics{
		Title:              m.Metadata.Title,
		WordCount:          m.Metadata.WordCount,
		CharacterCount:     m.Metadata.CharacterCount,
		LineCount:          m.Metadata.LineCount,
		ReadingTimeMinutes: m.Metadata.ReadingTimeMinutes,
		HeadingCount:       len(m.FlatOutline),
		SyntaxErrorCount:   len(m.SyntaxErrors),
		LanguageHints:      m.Metadata.LanguageHints,
	}
}

// HasBlockingErrors reports whether any collected error carries
// error severity. The model still carries best-effort content either way.
func (m *Model) HasBlockingErrors() bool {
	for _, e := range m.SyntaxErrors {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}
