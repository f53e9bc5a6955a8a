package extract

import (
	"strings"
	"testing"
)

func TestFrontMatter_Parsed(t *testing.T) {
	input := "---\ntitle: My Document\ntags: [a, b]\n---\n# Heading\n\nbody\n"
	meta, body, ok := FrontMatter(input)
	if !ok {
		t.Fatal("expected front matter to be detected")
	}
	if got := FrontMatterTitle(meta); got != "My Document" {
		t.Errorf("expected title %q, got %q", "My Document", got)
	}
	if !strings.HasPrefix(body, "# Heading") {
		t.Errorf("expected body to start at the heading, got %q", body)
	}
}

func TestFrontMatter_Absent(t *testing.T) {
	input := "# Heading\n\nbody\n"
	meta, body, ok := FrontMatter(input)
	if ok {
		t.Error("expected no front matter")
	}
	if meta != nil {
		t.Errorf("expected nil meta, got %v", meta)
	}
	if body != input {
		t.Errorf("expected body unchanged, got %q", body)
	}
}

func TestFrontMatter_Unclosed(t *testing.T) {
	input := "---\ntitle: oops\nno closing fence\n"
	_, body, ok := FrontMatter(input)
	if ok {
		t.Error("expected unclosed front matter to be ignored")
	}
	if body != input {
		t.Errorf("expected body unchanged, got %q", body)
	}
}

func TestFrontMatter_MalformedYAML(t *testing.T) {
	input := "---\n: : not yaml : :\n\t\tbad\n---\nbody\n"
	_, body, ok := FrontMatter(input)
	if ok {
		t.Error("expected malformed YAML to be treated as no front matter")
	}
	if body != input {
		t.Errorf("expected body unchanged, got %q", body)
	}
}

func TestFrontMatter_ThematicBreakNotMistaken(t *testing.T) {
	// A horizontal rule mid-document must not trigger front matter handling.
	input := "text\n\n---\n\nmore\n"
	_, body, ok := FrontMatter(input)
	if ok {
		t.Error("expected no front matter for mid-document rule")
	}
	if body != input {
		t.Errorf("expected body unchanged, got %q", body)
	}
}

func TestFrontMatterTitle_MissingKey(t *testing.T) {
	if got := FrontMatterTitle(map[string]any{"author": "x"}); got != "" {
		t.Errorf("expected empty title, got %q", got)
	}
	if got := FrontMatterTitle(nil); got != "" {
		t.Errorf("expected empty title for nil meta, got %q", got)
	}
}
