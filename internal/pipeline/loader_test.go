package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/mdview/internal/config"
	"github.com/dgallion1/mdview/internal/document"
)

func testLoader() *Loader {
	return NewLoader(config.Load(), nil, nil)
}

func TestLoad_EndToEnd(t *testing.T) {
	input := "# Title\n\nHello **world**.\n\n```js\nlet x=1;\n```\n"
	res, err := testLoader().Load(context.Background(), input, document.Reference{Path: "doc.md"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := res.Model
	if m.Metadata.Title != "Title" {
		t.Errorf("expected title %q, got %q", "Title", m.Metadata.Title)
	}
	if m.Metadata.WordCount != 3 {
		t.Errorf("expected word count 3, got %d", m.Metadata.WordCount)
	}
	if !m.Metadata.HasCodeBlocks {
		t.Error("expected HasCodeBlocks")
	}
	if len(m.Metadata.LanguageHints) != 1 || m.Metadata.LanguageHints[0] != "js" {
		t.Errorf("expected language hints [js], got %v", m.Metadata.LanguageHints)
	}
	if len(m.FlatOutline) != 1 || m.FlatOutline[0].Level != 1 || m.FlatOutline[0].Title != "Title" {
		t.Errorf("expected outline [level-1 Title], got %+v", m.FlatOutline)
	}
	if len(m.SyntaxErrors) != 0 {
		t.Errorf("expected no syntax errors, got %v", m.SyntaxErrors)
	}
	if m.ID == "" || m.Version != document.FormatVersion {
		t.Errorf("expected id and format version to be set, got id=%q version=%q", m.ID, m.Version)
	}
	if len(res.Sections) == 0 {
		t.Error("expected at least one section")
	}
}

func TestLoad_MalformedTableIsTolerated(t *testing.T) {
	res, err := testLoader().Load(context.Background(), "| not a table", document.Reference{})
	if err != nil {
		t.Fatalf("expected tolerant load to succeed, got %v", err)
	}
	if res.Model == nil {
		t.Fatal("expected a model despite the malformed table")
	}
	if len(res.Model.SyntaxErrors) != 1 {
		t.Fatalf("expected 1 syntax error, got %d", len(res.Model.SyntaxErrors))
	}
	e := res.Model.SyntaxErrors[0]
	if e.Kind != document.ErrMalformedTable || e.Severity != document.SeverityWarning {
		t.Errorf("expected malformed_table warning, got %+v", e)
	}
}

func TestLoad_OversizeIsFatal(t *testing.T) {
	cfg := config.Load()
	cfg.MaxDocumentBytes = 32
	loader := NewLoader(cfg, nil, nil)

	_, err := loader.Load(context.Background(), strings.Repeat("a", 64), document.Reference{})
	if err == nil {
		t.Fatal("expected oversize document to fail")
	}
	var le *document.LoadError
	if !errors.As(err, &le) || le.Kind != document.FailFileTooLarge {
		t.Errorf("expected file_too_large load error, got %v", err)
	}
}

func TestLoad_SizeCapIncludesFrontMatter(t *testing.T) {
	cfg := config.Load()
	cfg.MaxDocumentBytes = 32
	loader := NewLoader(cfg, nil, nil)

	// Body alone fits; the front matter pushes the total over the cap.
	input := "---\ntitle: " + strings.Repeat("x", 32) + "\n---\nhi\n"
	_, err := loader.Load(context.Background(), input, document.Reference{})
	if err == nil {
		t.Fatal("expected oversize document to fail despite a small body")
	}
	var le *document.LoadError
	if !errors.As(err, &le) || le.Kind != document.FailFileTooLarge {
		t.Errorf("expected file_too_large load error, got %v", err)
	}

	if err := loader.ValidateOnly(input); err == nil {
		t.Error("expected strict pre-check to fail on the same document")
	}

	// A document exactly at the cap still loads.
	exact := strings.Repeat("a", 32)
	if _, err := loader.Load(context.Background(), exact, document.Reference{}); err != nil {
		t.Errorf("expected document at the cap to load, got %v", err)
	}
}

func TestLoad_InvalidUTF8(t *testing.T) {
	_, err := testLoader().Load(context.Background(), "ok \xff\xfe bad", document.Reference{})
	if err == nil {
		t.Fatal("expected invalid UTF-8 to fail")
	}
	var le *document.LoadError
	if !errors.As(err, &le) || le.Kind != document.FailUnsupportedEncoding {
		t.Errorf("expected unsupported_encoding load error, got %v", err)
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testLoader().Load(ctx, "# Doc\n\ntext\n", document.Reference{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoad_FrontMatterTitleFallback(t *testing.T) {
	input := "---\ntitle: From Front Matter\n---\nplain text, no headings\n"
	res, err := testLoader().Load(context.Background(), input, document.Reference{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Model.Metadata.Title != "From Front Matter" {
		t.Errorf("expected front matter title, got %q", res.Model.Metadata.Title)
	}

	// A heading still wins over front matter.
	input = "---\ntitle: Ignored\n---\n# Real Title\n"
	res, err = testLoader().Load(context.Background(), input, document.Reference{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Model.Metadata.Title != "Real Title" {
		t.Errorf("expected heading title to win, got %q", res.Model.Metadata.Title)
	}
}

func TestLoad_ErrorLinesAddressSanitizedText(t *testing.T) {
	// A stripped multi-line script must not shift later error markers.
	input := "# T\n\n<script>\nbad()\n</script>\n\n| broken\n"
	res, err := testLoader().Load(context.Background(), input, document.Reference{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var tableErr *document.SyntaxError
	for i := range res.Model.SyntaxErrors {
		if res.Model.SyntaxErrors[i].Kind == document.ErrMalformedTable {
			tableErr = &res.Model.SyntaxErrors[i]
		}
	}
	if tableErr == nil {
		t.Fatalf("expected a malformed_table error, got %+v", res.Model.SyntaxErrors)
	}

	lines := strings.Split(res.Model.Styled.Text, "\n")
	idx := tableErr.Line - 1
	if idx < 0 || idx >= len(lines) {
		t.Fatalf("error line %d out of range for %d lines", tableErr.Line, len(lines))
	}
	if lines[idx] != "| broken" {
		t.Errorf("expected error line to address %q, got %q", "| broken", lines[idx])
	}
}

func TestLoad_Idempotent(t *testing.T) {
	input := "# A\n\nsome **text** here\n\n- one\n- two\n"
	loader := testLoader()

	a, err := loader.Load(context.Background(), input, document.Reference{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := loader.Load(context.Background(), input, document.Reference{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Model.Metadata.WordCount != b.Model.Metadata.WordCount ||
		a.Model.Metadata.Title != b.Model.Metadata.Title ||
		a.Model.Metadata.LineCount != b.Model.Metadata.LineCount {
		t.Error("expected identical metadata across parses")
	}
	if len(a.Model.FlatOutline) != len(b.Model.FlatOutline) {
		t.Error("expected identical outline size across parses")
	}
	if len(a.Sections) != len(b.Sections) {
		t.Error("expected identical section count across parses")
	}
	for i := range a.Sections {
		if a.Sections[i].Lines != b.Sections[i].Lines {
			t.Errorf("section %d: expected identical line range", i)
		}
	}
}

func TestValidateOnly(t *testing.T) {
	loader := testLoader()
	if err := loader.ValidateOnly("# Fine\n\ntext\n"); err != nil {
		t.Errorf("expected clean document to validate, got %v", err)
	}
	if err := loader.ValidateOnly("<script>x</script>"); err == nil {
		t.Error("expected dangerous document to fail strict validation")
	}
}

func TestStatistics_Projection(t *testing.T) {
	input := "# Title\n\nHello world\n\n| bad"
	res, err := testLoader().Load(context.Background(), input, document.Reference{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats := res.Model.Statistics()
	if stats.Title != "Title" {
		t.Errorf("expected title %q, got %q", "Title", stats.Title)
	}
	if stats.HeadingCount != 1 {
		t.Errorf("expected 1 heading, got %d", stats.HeadingCount)
	}
	if stats.SyntaxErrorCount != 1 {
		t.Errorf("expected 1 syntax error, got %d", stats.SyntaxErrorCount)
	}
}
