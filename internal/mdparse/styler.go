package mdparse

import (
	"sort"

	"github.com/dgallion1/mdview/internal/document"
)

// Heading point-size tiers for levels 1-6.
var headingSizes = [6]int{24, 20, 18, 16, 14, 12}

// HeadingPointSize returns the display size for a heading level.
func HeadingPointSize(level int) int {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return headingSizes[level-1]
}

// Style builds the toolkit-neutral styled representation: the source text
// itself plus attribute runs over the spans the tree identifies. Keeping
// the display text identical to the source keeps section line ranges and
// error line numbers aligned without a separate mapping table.
func Style(tree *document.Node, raw string) document.StyledText {
	st := document.StyledText{Text: raw}
	var emit func(n *document.Node, inherited document.Run)

	emit = func(n *document.Node, inherited document.Run) {
		run := inherited
		switch n.Kind {
		case document.KindHeading:
			run.Bold = true
			run.PointSize = HeadingPointSize(n.Level)
		case document.KindStrong:
			run.Bold = true
		case document.KindEmphasis:
			run.Italic = true
		case document.KindStrikethrough:
			run.Strike = true
		case document.KindCodeSpan, document.KindCodeBlock:
			run.Monospace = true
		case document.KindLink:
			run.Link = n.Destination
		}

		if n.Kind == document.KindText || n.Kind == document.KindCodeSpan ||
			n.Kind == document.KindCodeBlock {
			if n.Span.Length > 0 && !plainRun(run) {
				run.Span = n.Span
				st.Runs = append(st.Runs, run)
			}
			return
		}
		for _, c := range n.Children {
			emit(c, run)
		}
	}

	emit(tree, document.Run{})
	sort.Slice(st.Runs, func(i, j int) bool {
		return st.Runs[i].Span.Offset < st.Runs[j].Span.Offset
	})
	return st
}

func plainRun(r document.Run) bool {
	return !r.Bold && !r.Italic && !r.Strike && !r.Monospace &&
		r.PointSize == 0 && r.Link == ""
}
