package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/mdview/internal/config"
	"github.com/dgallion1/mdview/internal/pipeline"
)

func testConfig() config.Config {
	return config.Config{
		MaxDocumentBytes:    2 * 1024 * 1024,
		MaxNestingLevel:     16,
		EnableTables:        true,
		EnableStrikethrough: true,
		EnableTaskLists:     true,
		BlockedElements:     []string{"script", "iframe", "object", "embed", "form"},
		AllowedSchemes:      []string{"http", "https", "mailto", "file"},
		SectionLines:        25,
		LineHeight:          18,
		ViewportBuffer:      1,
		FastScrollThreshold: 100,
		WordsPerMinute:      200,
		StoreTTL:            time.Hour,
		MaxDocuments:        16,
	}
}

func newTestServer(cfg config.Config) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	stats := pipeline.NewStats(time.Hour)
	loader := pipeline.NewLoader(cfg, stats, log)
	store := NewStore(cfg.StoreTTL, cfg.MaxDocuments)
	return NewServer(loader, store, stats, log, cfg)
}

func postDocument(t *testing.T, s *Server, content string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"content": content, "path": "test.md"})
	req := httptest.NewRequest("POST", "/api/documents", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("expected non-empty document id")
	}
	return resp.ID
}

func TestLoadDocument(t *testing.T) {
	s := newTestServer(testConfig())

	body, _ := json.Marshal(map[string]string{
		"content": "# Title\n\nHello **world**.",
		"path":    "notes.md",
	})
	req := httptest.NewRequest("POST", "/api/documents", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID       string `json:"id"`
		Metadata struct {
			Title     string `json:"title"`
			WordCount int    `json:"word_count"`
		} `json:"metadata"`
		SectionCount int `json:"section_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Metadata.Title != "Title" {
		t.Errorf("expected title %q, got %q", "Title", resp.Metadata.Title)
	}
	if resp.Metadata.WordCount != 3 {
		t.Errorf("expected word count 3, got %d", resp.Metadata.WordCount)
	}
	if resp.SectionCount != 1 {
		t.Errorf("expected 1 section, got %d", resp.SectionCount)
	}
}

func TestLoadDocument_MissingContent(t *testing.T) {
	s := newTestServer(testConfig())
	req := httptest.NewRequest("POST", "/api/documents", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestLoadDocument_TooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDocumentBytes = 64
	s := newTestServer(cfg)

	body, _ := json.Marshal(map[string]string{"content": strings.Repeat("a", 65)})
	req := httptest.NewRequest("POST", "/api/documents", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetDocument(t *testing.T) {
	s := newTestServer(testConfig())
	id := postDocument(t, s, "# Doc\n\nsome text here")

	req := httptest.NewRequest("GET", "/api/documents/"+id, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Statistics struct {
			HeadingCount int `json:"heading_count"`
		} `json:"statistics"`
		Blocking bool `json:"blocking"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Statistics.HeadingCount != 1 {
		t.Errorf("expected 1 heading, got %d", resp.Statistics.HeadingCount)
	}
	if resp.Blocking {
		t.Error("expected no blocking errors")
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	s := newTestServer(testConfig())
	req := httptest.NewRequest("GET", "/api/documents/missing", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteDocument(t *testing.T) {
	s := newTestServer(testConfig())
	id := postDocument(t, s, "# Doc")

	req := httptest.NewRequest("DELETE", "/api/documents/"+id, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/documents/"+id, nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestOutline(t *testing.T) {
	s := newTestServer(testConfig())
	id := postDocument(t, s, "# A\n\n## B\n\n## C")

	req := httptest.NewRequest("GET", "/api/documents/"+id+"/outline", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var nested struct {
		Outline []struct {
			Title    string `json:"title"`
			Children []any  `json:"children"`
		} `json:"outline"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &nested); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(nested.Outline) != 1 || len(nested.Outline[0].Children) != 2 {
		t.Errorf("expected 1 root with 2 children, got %+v", nested.Outline)
	}

	req = httptest.NewRequest("GET", "/api/documents/"+id+"/outline?flat=true", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	var flat struct {
		Outline []struct {
			Title string `json:"title"`
		} `json:"outline"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &flat); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(flat.Outline) != 3 {
		t.Errorf("expected 3 flat entries, got %d", len(flat.Outline))
	}
}

func TestSections_ViewportLimitsLive(t *testing.T) {
	cfg := testConfig()
	cfg.SectionLines = 5
	s := newTestServer(cfg)
	id := postDocument(t, s, strings.Repeat("line\n", 50))

	req := httptest.NewRequest("GET", "/api/documents/"+id+"/sections?top=0&height=90", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Sections []struct {
			Live    bool            `json:"live"`
			Content json.RawMessage `json:"content"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Sections) != 10 {
		t.Fatalf("expected 10 sections, got %d", len(resp.Sections))
	}
	liveCount := 0
	for _, sec := range resp.Sections {
		if sec.Live {
			liveCount++
			if len(sec.Content) == 0 {
				t.Error("expected content on live section")
			}
		} else if len(sec.Content) != 0 {
			t.Error("expected no content on placeholder section")
		}
	}
	if liveCount >= len(resp.Sections) {
		t.Errorf("expected viewport to limit live sections, got %d of %d", liveCount, len(resp.Sections))
	}
}

func TestSections_NoViewportAllLive(t *testing.T) {
	cfg := testConfig()
	cfg.SectionLines = 5
	s := newTestServer(cfg)
	id := postDocument(t, s, strings.Repeat("line\n", 50))

	req := httptest.NewRequest("GET", "/api/documents/"+id+"/sections", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	var resp struct {
		Sections []struct {
			Live bool `json:"live"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for i, sec := range resp.Sections {
		if !sec.Live {
			t.Errorf("section %d: expected live without viewport params", i)
		}
	}
}

func TestSearch(t *testing.T) {
	s := newTestServer(testConfig())
	id := postDocument(t, s, "alpha beta alpha")

	req := httptest.NewRequest("GET", "/api/documents/"+id+"/search?q=alpha&current=1", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Matches []struct {
			IsCurrent bool `json:"is_current"`
		} `json:"matches"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(resp.Matches))
	}
	if resp.Matches[0].IsCurrent || !resp.Matches[1].IsCurrent {
		t.Errorf("expected second match current, got %+v", resp.Matches)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	s := newTestServer(testConfig())
	id := postDocument(t, s, "text")
	req := httptest.NewRequest("GET", "/api/documents/"+id+"/search", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestExportHTML(t *testing.T) {
	s := newTestServer(testConfig())
	id := postDocument(t, s, "# Hello\n\n<script>alert(1)</script>\n\nbody text")

	req := httptest.NewRequest("GET", "/api/documents/"+id+"/html", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := rec.Body.String()
	if !strings.Contains(out, "<h1") {
		t.Errorf("expected rendered heading, got %q", out)
	}
	if strings.Contains(out, "<script") {
		t.Errorf("expected script stripped from export, got %q", out)
	}
}

func TestValidate(t *testing.T) {
	s := newTestServer(testConfig())

	body, _ := json.Marshal(map[string]string{"content": "# Fine\n\nplain paragraph"})
	req := httptest.NewRequest("POST", "/api/validate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Kind string `json:"kind"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Valid {
		t.Error("expected clean document to validate")
	}
	if len(resp.Errors) != 0 {
		t.Errorf("expected no tolerant errors, got %+v", resp.Errors)
	}
}

func TestValidate_MalformedTable(t *testing.T) {
	s := newTestServer(testConfig())
	body, _ := json.Marshal(map[string]string{"content": "# Fine\n\n|bad|\n|table"})
	req := httptest.NewRequest("POST", "/api/validate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	var resp struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Kind     string `json:"kind"`
			Severity string `json:"severity"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Valid {
		t.Error("expected malformed table to fail strict validation")
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Kind != "malformed_table" {
		t.Errorf("expected one malformed_table error, got %+v", resp.Errors)
	}
	if resp.Errors[0].Severity != "warning" {
		t.Errorf("expected warning severity, got %q", resp.Errors[0].Severity)
	}
}

func TestValidate_Dangerous(t *testing.T) {
	s := newTestServer(testConfig())
	body, _ := json.Marshal(map[string]string{"content": "<script>x</script>"})
	req := httptest.NewRequest("POST", "/api/validate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Valid {
		t.Error("expected script content to fail strict validation")
	}
}

func TestPipelineStats(t *testing.T) {
	s := newTestServer(testConfig())
	postDocument(t, s, "# Doc\n\ntext")

	req := httptest.NewRequest("GET", "/api/stats/pipeline", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Phases map[string]struct {
			Count int `json:"count"`
		} `json:"phases"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Phases["parse"].Count == 0 {
		t.Errorf("expected parse phase samples, got %+v", resp.Phases)
	}
}

func TestAuth(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "secret"
	s := newTestServer(cfg)

	req := httptest.NewRequest("GET", "/api/documents", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with correct key, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/health", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected health to stay public, got %d", rec.Code)
	}
}
