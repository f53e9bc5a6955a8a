package render

import (
	"strings"
	"testing"

	"github.com/dgallion1/mdview/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		EnableTables:        true,
		EnableStrikethrough: true,
		EnableTaskLists:     true,
	}
}

func TestRender_Basic(t *testing.T) {
	r := NewHTMLRenderer(testConfig())
	out, err := r.Render([]byte("# Hello\n\nSome **bold** text."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Hello") {
		t.Errorf("expected rendered heading, got %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("expected bold emphasis, got %q", html)
	}
}

func TestRender_StripsScript(t *testing.T) {
	r := NewHTMLRenderer(testConfig())
	out, err := r.Render([]byte("text\n\n<script>alert(1)</script>\n\nmore"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(out), "<script") {
		t.Errorf("expected script stripped, got %q", out)
	}
}

func TestRender_StripsJavascriptLink(t *testing.T) {
	r := NewHTMLRenderer(testConfig())
	out, err := r.Render([]byte(`[click](javascript:alert(1))`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(out), "javascript:") {
		t.Errorf("expected javascript href stripped, got %q", out)
	}
}

func TestRender_Table(t *testing.T) {
	r := NewHTMLRenderer(testConfig())
	out, err := r.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "<table") {
		t.Errorf("expected table markup, got %q", out)
	}
}

func TestRender_TablesDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.EnableTables = false
	r := NewHTMLRenderer(cfg)
	out, err := r.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(out), "<table") {
		t.Errorf("expected no table markup when disabled, got %q", out)
	}
}

func TestRender_HighlightedCode(t *testing.T) {
	r := NewHTMLRenderer(testConfig())
	out, err := r.Render([]byte("```go\npackage main\n```"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<pre") || !strings.Contains(html, "package main") {
		t.Errorf("expected code block output, got %q", html)
	}
}
