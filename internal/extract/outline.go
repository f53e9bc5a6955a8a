package extract

import (
	"strings"

	"github.com/dgallion1/mdview/internal/document"
)

// Headings builds the document outline. The nested shape comes from a
// level-tracking stack: a new heading pops the stack until the top has a
// strictly lower level, then attaches as its child. The flat in-order
// slice is returned alongside so hosts can pick either representation.
//
// Position is an estimate (source line times lineHeight); the host's
// layout corrects it when it scrolls a heading into view.
func Headings(tree *document.Node, lineHeight float64) (nested, flat []*document.HeadingItem) {
	if lineHeight <= 0 {
		lineHeight = 18
	}

	type stackEntry struct {
		item  *document.HeadingItem
		level int
	}
	root := &document.HeadingItem{}
	stack := []stackEntry{{item: root, level: 0}}

	tree.Walk(func(n *document.Node) bool {
		if n.Kind != document.KindHeading {
			return true
		}
		item := &document.HeadingItem{
			ID:       document.NewID(),
			Level:    n.Level,
			Title:    strings.TrimSpace(n.PlainText()),
			Span:     n.Span,
			Position: float64(n.Line-1) * lineHeight,
		}
		flat = append(flat, item)

		for len(stack) > 1 && stack[len(stack)-1].level >= n.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].item
		parent.Children = append(parent.Children, item)
		stack = append(stack, stackEntry{item: item, level: n.Level})
		return false
	})

	return root.Children, flat
}
