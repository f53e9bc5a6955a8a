// Package search produces highlight instructions for the viewport
// renderer: ordered match ranges over the current document's content plus
// a current-match marker. Ranking and indexing live outside the core;
// this is the plain substring fallback the viewer ships with.
package search

import (
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/mdview/internal/document"
	"github.com/dgallion1/mdview/internal/viewport"
)

// Find returns every case-insensitive match of query in content, in
// document order. current selects which match is marked IsCurrent;
// pass a negative index for none. Spans are byte ranges into content
// itself: matching compares rune-wise in place, so case pairs whose
// UTF-8 encodings differ in length (Kelvin sign vs 'k') still yield
// spans that slice the original text exactly.
func Find(content, query string, current int) []viewport.Highlight {
	if query == "" {
		return nil
	}

	var out []viewport.Highlight
	for i := 0; i < len(content); {
		end, ok := foldMatch(content, i, query)
		if !ok {
			_, size := utf8.DecodeRuneInString(content[i:])
			i += size
			continue
		}
		out = append(out, viewport.Highlight{
			Span:      document.Range{Offset: i, Length: end - i},
			IsCurrent: len(out) == current,
		})
		i = end
	}
	return out
}

// foldMatch reports whether query matches content at start under simple
// case folding, and where the matched region ends in content.
func foldMatch(content string, start int, query string) (end int, ok bool) {
	i := start
	for j := 0; j < len(query); {
		if i >= len(content) {
			return 0, false
		}
		cr, cw := utf8.DecodeRuneInString(content[i:])
		qr, qw := utf8.DecodeRuneInString(query[j:])
		if unicode.ToLower(cr) != unicode.ToLower(qr) {
			return 0, false
		}
		i += cw
		j += qw
	}
	return i, true
}
