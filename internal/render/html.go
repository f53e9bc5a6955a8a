// Package render exports a document as sanitized HTML. Rendering goes
// through goldmark with the same extension set as the viewer's parser,
// then through a bluemonday policy so exported output carries none of the
// raw HTML the validator merely flags.
package render

import (
	"bytes"
	"fmt"

	"github.com/dgallion1/mdview/internal/config"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gparser "github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// HTMLRenderer converts Markdown to sanitized HTML with syntax-highlighted
// code blocks.
type HTMLRenderer struct {
	md  goldmark.Markdown
	pol *bluemonday.Policy
}

// NewHTMLRenderer builds a renderer honoring the configured extensions.
func NewHTMLRenderer(cfg config.Config) *HTMLRenderer {
	exts := []goldmark.Extender{
		highlighting.NewHighlighting(highlighting.WithStyle("github")),
	}
	if cfg.EnableTables {
		exts = append(exts, extension.Table)
	}
	if cfg.EnableStrikethrough {
		exts = append(exts, extension.Strikethrough)
	}
	if cfg.EnableTaskLists {
		exts = append(exts, extension.TaskList)
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(gparser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(ghtml.WithHardWraps()),
	)

	pol := bluemonday.UGCPolicy()
	// chroma emits inline styles and class names on highlighted code.
	pol.AllowAttrs("style").OnElements("span", "pre", "code")
	pol.AllowAttrs("class").OnElements("span", "pre", "code", "div")

	return &HTMLRenderer{md: md, pol: pol}
}

// Render converts src and sanitizes the result.
func (r *HTMLRenderer) Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return r.pol.SanitizeReader(&buf).Bytes(), nil
}
