// Package mdparse adapts goldmark's CommonMark+GFM parser to the viewer's
// closed node tree. Nothing outside this package touches goldmark types.
package mdparse

import (
	"bytes"
	"sort"
	"strings"

	"github.com/dgallion1/mdview/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Config selects the GFM extensions honored by the parser.
type Config struct {
	Tables        bool
	Strikethrough bool
	TaskLists     bool
}

// DefaultConfig enables every supported extension.
func DefaultConfig() Config {
	return Config{Tables: true, Strikethrough: true, TaskLists: true}
}

// Parser converts raw Markdown into a document.Node tree.
type Parser struct {
	md goldmark.Markdown
}

// New builds a parser with the configured extension set.
func New(cfg Config) *Parser {
	var exts []goldmark.Extender
	if cfg.Tables {
		exts = append(exts, extension.Table)
	}
	if cfg.Strikethrough {
		exts = append(exts, extension.Strikethrough)
	}
	if cfg.TaskLists {
		exts = append(exts, extension.TaskList)
	}
	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(gparser.WithAutoHeadingID()),
	)
	return &Parser{md: md}
}

// Tree parses content into the closed node tree. goldmark itself never
// fails on well-formed UTF-8; recoverable issues are the validator's job.
func (p *Parser) Tree(content string) *document.Node {
	src := []byte(content)
	reader := text.NewReader(src)
	doc := p.md.Parser().Parse(reader)

	lines := lineIndex(src)
	root := &document.Node{
		Kind: document.KindDocument,
		Span: document.Range{Offset: 0, Length: len(src)},
		Line: 1,
	}
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		if n := convert(c, src, lines); n != nil {
			root.Children = append(root.Children, n)
		}
	}
	return root
}

// lineIndex records the byte offset of every line start.
func lineIndex(src []byte) []int {
	idx := []int{0}
	for i, b := range src {
		if b == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// lineAt maps a byte offset to a 1-based line number.
func lineAt(lines []int, offset int) int {
	return sort.Search(len(lines), func(i int) bool { return lines[i] > offset })
}

func convert(n ast.Node, src []byte, lines []int) *document.Node {
	out := &document.Node{}

	switch v := n.(type) {
	case *ast.Heading:
		out.Kind = document.KindHeading
		out.Level = v.Level
	case *ast.Paragraph, *ast.TextBlock:
		out.Kind = document.KindParagraph
	case *ast.List:
		out.Kind = document.KindList
		out.Ordered = v.IsOrdered()
	case *ast.ListItem:
		out.Kind = document.KindListItem
	case *ast.FencedCodeBlock:
		out.Kind = document.KindCodeBlock
		if v.Info != nil {
			out.Language = strings.TrimSpace(string(v.Info.Value(src)))
		}
		out.Text = blockContent(v, src)
	case *ast.CodeBlock:
		out.Kind = document.KindCodeBlock
		out.Text = blockContent(v, src)
	case *ast.Blockquote:
		out.Kind = document.KindBlockquote
	case *ast.ThematicBreak:
		out.Kind = document.KindThematicBreak
	case *ast.HTMLBlock:
		out.Kind = document.KindHTMLBlock
		out.Text = blockContent(v, src)
	case *east.Table:
		out.Kind = document.KindTable
	case *east.TableHeader, *east.TableRow:
		out.Kind = document.KindTableRow
	case *east.TableCell:
		out.Kind = document.KindTableCell
	case *ast.Text:
		out.Kind = document.KindText
		out.Span = document.Range{Offset: v.Segment.Start, Length: v.Segment.Len()}
		out.Text = string(v.Segment.Value(src))
		out.Line = lineAt(lines, v.Segment.Start)
		if v.HardLineBreak() || v.SoftLineBreak() {
			out.Children = append(out.Children, &document.Node{
				Kind: document.KindLineBreak,
				Span: document.Range{Offset: v.Segment.Stop, Length: 0},
				Line: out.Line,
			})
		}
		return out
	case *ast.String:
		out.Kind = document.KindText
		out.Text = string(v.Value)
	case *ast.Emphasis:
		if v.Level >= 2 {
			out.Kind = document.KindStrong
		} else {
			out.Kind = document.KindEmphasis
		}
	case *east.Strikethrough:
		out.Kind = document.KindStrikethrough
	case *ast.CodeSpan:
		out.Kind = document.KindCodeSpan
		out.Text = codeSpanText(v, src)
	case *ast.Link:
		out.Kind = document.KindLink
		out.Destination = string(v.Destination)
	case *ast.AutoLink:
		out.Kind = document.KindLink
		out.Destination = string(v.URL(src))
		out.Text = string(v.Label(src))
	case *ast.Image:
		out.Kind = document.KindImage
		out.Destination = string(v.Destination)
	case *east.TaskCheckBox:
		out.Kind = document.KindTaskCheckbox
		out.Checked = v.IsChecked
	case *ast.RawHTML:
		out.Kind = document.KindHTMLBlock
	default:
		// Unknown extension nodes degrade to a paragraph-like container so
		// their inline text still flows through extraction.
		out.Kind = document.KindParagraph
	}

	if n.Type() != ast.TypeInline {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if child := convert(c, src, lines); child != nil {
				out.Children = append(out.Children, child)
			}
		}
	} else if out.Kind != document.KindCodeSpan {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if child := convert(c, src, lines); child != nil {
				out.Children = append(out.Children, child)
			}
		}
	}

	out.Span = nodeSpan(n, out)
	if out.Line == 0 {
		out.Line = lineAt(lines, out.Span.Offset)
	}
	return out
}

// nodeSpan computes the source byte range of a node: block nodes report
// their line segments, inline containers the hull of their children.
func nodeSpan(n ast.Node, converted *document.Node) document.Range {
	if n.Type() == ast.TypeBlock {
		segs := n.Lines()
		if segs != nil && segs.Len() > 0 {
			start := segs.At(0).Start
			stop := segs.At(segs.Len() - 1).Stop
			return document.Range{Offset: start, Length: stop - start}
		}
	}
	// Hull of child spans, covering both inline containers and blocks
	// without their own line segments (lists, tables, blockquotes).
	lo, hi := -1, -1
	for _, c := range converted.Children {
		if c.Span.Length == 0 && c.Span.Offset == 0 {
			continue
		}
		if lo == -1 || c.Span.Offset < lo {
			lo = c.Span.Offset
		}
		if c.Span.End() > hi {
			hi = c.Span.End()
		}
	}
	if lo >= 0 {
		return document.Range{Offset: lo, Length: hi - lo}
	}
	return converted.Span
}

// blockContent joins a block node's line segments.
func blockContent(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

// codeSpanText collects the literal text inside a code span.
func codeSpanText(n *ast.CodeSpan, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
		}
	}
	return buf.String()
}
