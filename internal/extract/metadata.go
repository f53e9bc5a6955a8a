// Package extract walks the parsed tree to derive document metadata and
// the heading outline.
package extract

import (
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/dgallion1/mdview/internal/document"
)

// Metadata derives counts, feature flags and language hints from the tree.
// Word counting excludes code blocks and inline code: counts reflect prose,
// not source snippets.
func Metadata(tree *document.Node, raw string, ref document.Reference, wordsPerMinute int) document.Metadata {
	if wordsPerMinute <= 0 {
		wordsPerMinute = 200
	}

	meta := document.Metadata{
		CharacterCount: len([]rune(raw)),
		LineCount:      countLines(raw),
		LastModified:   ref.ModTime,
		FileSize:       ref.Size,
		Encoding:       "UTF-8",
	}

	// Prose accumulates text nodes verbatim, with a separator at block
	// boundaries so "world" and a trailing "." stay one word while words
	// in adjacent blocks do not merge.
	var prose strings.Builder
	hints := map[string]bool{}
	tree.Walk(func(n *document.Node) bool {
		switch n.Kind {
		case document.KindText:
			prose.WriteString(n.Text)
		case document.KindHeading, document.KindParagraph, document.KindListItem,
			document.KindTableCell, document.KindBlockquote:
			prose.WriteByte('\n')
		case document.KindCodeBlock:
			meta.HasCodeBlocks = true
			if lang := strings.ToLower(n.Language); lang != "" {
				hints[lang] = true
			} else if lang := detectLanguage(n.Text); lang != "" {
				hints[lang] = true
			}
			return false
		case document.KindCodeSpan:
			return false
		case document.KindTable:
			meta.HasTables = true
		case document.KindImage:
			meta.HasImages = true
		}
		return true
	})

	meta.WordCount = len(strings.Fields(prose.String()))
	meta.LanguageHints = sortedKeys(hints)
	meta.Title = Title(tree)
	meta.ReadingTimeMinutes = ReadingTime(meta.WordCount, wordsPerMinute)
	return meta
}

// ReadingTime is ceil(words/wpm), floored at one minute.
func ReadingTime(words, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = 200
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Title returns the first level-1 heading, falling back to the first
// heading of any level. Empty when the document has no headings.
func Title(tree *document.Node) string {
	var first, firstH1 string
	tree.Walk(func(n *document.Node) bool {
		if n.Kind != document.KindHeading {
			return true
		}
		title := strings.TrimSpace(n.PlainText())
		if title == "" {
			return true
		}
		if first == "" {
			first = title
		}
		if n.Level == 1 && firstH1 == "" {
			firstH1 = title
		}
		return true
	})
	if firstH1 != "" {
		return firstH1
	}
	return first
}

// detectLanguage guesses the language of an unlabeled code block from its
// content. Best effort; empty when chroma has no confident match.
func detectLanguage(code string) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}
	lexer := lexers.Analyse(code)
	if lexer == nil {
		return ""
	}
	return strings.ToLower(lexer.Config().Name)
}

func countLines(raw string) int {
	if raw == "" {
		return 0
	}
	n := strings.Count(raw, "\n")
	if !strings.HasSuffix(raw, "\n") {
		n++
	}
	return n
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
