package document

import "time"

// Metadata is derived purely from the parsed tree; never mutated after
// creation. Title is empty when the document has no heading and no front
// matter title.
type Metadata struct {
	Title              string    `json:"title,omitempty"`
	WordCount          int       `json:"word_count"`
	CharacterCount     int       `json:"character_count"`
	LineCount          int       `json:"line_count"`
	ReadingTimeMinutes int       `json:"reading_time_minutes"`
	LastModified       time.Time `json:"last_modified"`
	FileSize           int64     `json:"file_size"`
	Encoding           string    `json:"encoding"`
	HasImages          bool      `json:"has_images"`
	HasTables          bool      `json:"has_tables"`
	HasCodeBlocks      bool      `json:"has_code_blocks"`
	LanguageHints      []string  `json:"language_hints,omitempty"` // lowercase, sorted
}

// HeadingItem is one outline entry. Children carries best-effort nesting
// built from heading levels; the flat in-order list is preserved on the
// Model so hosts can choose either shape.
type HeadingItem struct {
	ID       string         `json:"id"`
	Level    int            `json:"level"` // 1-6
	Title    string         `json:"title"`
	Span     Range          `json:"span"`
	Position float64        `json:"position"` // estimated vertical offset
	Children []*HeadingItem `json:"children,omitempty"`
}

// Statistics is the read-only projection of metadata handed to UI layers.
type Statistics struct {
	Title              string   `json:"title,omitempty"`
	WordCount          int      `json:"word_count"`
	CharacterCount     int      `json:"character_count"`
	LineCount          int      `json:"line_count"`
	ReadingTimeMinutes int      `json:"reading_time_minutes"`
	HeadingCount       int      `json:"heading_count"`
	SyntaxErrorCount   int      `json:"syntax_error_count"`
	LanguageHints      []string `json:"language_hints,omitempty"`
}
