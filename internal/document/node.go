package document

// NodeKind identifies a parsed Markdown construct. The set is closed:
// consumers switch over it exhaustively instead of type-asserting.
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindHeading
	KindParagraph
	KindList
	KindListItem
	KindCodeBlock
	KindBlockquote
	KindTable
	KindTableRow
	KindTableCell
	KindText
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindCodeSpan
	KindLink
	KindImage
	KindTaskCheckbox
	KindThematicBreak
	KindHTMLBlock
	KindLineBreak
)

var kindNames = map[NodeKind]string{
	KindDocument:      "document",
	KindHeading:       "heading",
	KindParagraph:     "paragraph",
	KindList:          "list",
	KindListItem:      "list_item",
	KindCodeBlock:     "code_block",
	KindBlockquote:    "blockquote",
	KindTable:         "table",
	KindTableRow:      "table_row",
	KindTableCell:     "table_cell",
	KindText:          "text",
	KindEmphasis:      "emphasis",
	KindStrong:        "strong",
	KindStrikethrough: "strikethrough",
	KindCodeSpan:      "code_span",
	KindLink:          "link",
	KindImage:         "image",
	KindTaskCheckbox:  "task_checkbox",
	KindThematicBreak: "thematic_break",
	KindHTMLBlock:     "html_block",
	KindLineBreak:     "line_break",
}

func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Range is a contiguous byte span in the source text.
type Range struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// End returns the offset one past the last byte of the range.
func (r Range) End() int { return r.Offset + r.Length }

// Node is one construct in the parsed document tree. Fields beyond Kind,
// Span and Children are populated per kind: Level for headings, Text for
// text/code content, Language for fenced code, Destination for links and
// images, Ordered/Checked for lists and task items.
type Node struct {
	Kind NodeKind
	Span Range
	Line int // 1-based source line of the construct start

	Level       int    // headings: 1-6
	Text        string // text, code spans, code block content
	Language    string // code blocks: fence info string, may be empty
	Destination string // links, images
	Ordered     bool   // lists
	Checked     bool   // task checkboxes

	Children []*Node
}

// Walk visits n and every descendant in document order. The visitor
// returns false to skip the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// PlainText concatenates the text content of n and its descendants.
func (n *Node) PlainText() string {
	var out []byte
	n.Walk(func(c *Node) bool {
		if c.Kind == KindText || c.Kind == KindCodeSpan {
			out = append(out, c.Text...)
		}
		return true
	})
	return string(out)
}
