package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dgallion1/mdview/internal/document"
	"github.com/dgallion1/mdview/internal/pipeline"
	"github.com/dgallion1/mdview/internal/search"
	"github.com/dgallion1/mdview/internal/viewport"
	"github.com/go-chi/chi/v5"
)

type loadRequest struct {
	Content string `json:"content"`
	Path    string `json:"path"`
}

// handleLoadDocument runs the pipeline on the posted content and stores
// the result. Recoverable syntax issues come back on the model; an
// unrecoverable failure maps to an HTTP error.
func (s *Server) handleLoadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes+1024*1024)

	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		jsonError(w, "content is required", http.StatusBadRequest)
		return
	}

	ref := document.Reference{
		Path:    req.Path,
		ModTime: time.Now(),
		Size:    int64(len(req.Content)),
	}
	res, err := s.loader.Load(r.Context(), req.Content, ref)
	if err != nil {
		jsonLoadError(w, err)
		return
	}
	s.store.Put(res)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"id":            res.Model.ID,
		"metadata":      res.Model.Metadata,
		"section_count": len(res.Sections),
		"syntax_errors": res.Model.SyntaxErrors,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	results := s.store.List()
	docs := make([]map[string]any, 0, len(results))
	for _, res := range results {
		docs = append(docs, map[string]any{
			"id":        res.Model.ID,
			"path":      res.Model.Ref.Path,
			"title":     res.Model.Metadata.Title,
			"parsed_at": res.Model.ParsedAt,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	res := s.lookup(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"model":      res.Model,
		"statistics": res.Model.Statistics(),
		"blocking":   res.Model.HasBlockingErrors(),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if !s.store.Delete(docID) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": docID})
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	res := s.lookup(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("flat") == "true" {
		json.NewEncoder(w).Encode(map[string]any{"outline": res.Model.FlatOutline})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"outline": res.Model.Outline})
}

// handleSections returns the section partition. With top and height query
// parameters it marks which sections are live for that viewport and only
// inlines content for those; without them every section is live.
func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	res := s.lookup(w, r)
	if res == nil {
		return
	}

	q := r.URL.Query()
	top, topErr := strconv.ParseFloat(q.Get("top"), 64)
	height, heightErr := strconv.ParseFloat(q.Get("height"), 64)
	optimize := topErr == nil && heightErr == nil

	rend := viewport.New(viewport.Config{
		Buffer:              s.cfg.ViewportBuffer,
		FastScrollThreshold: s.cfg.FastScrollThreshold,
	})
	bounds := viewport.Bounds{Top: top, Width: 1, Height: height}
	live := rend.Visible(res.Sections, bounds, optimize)

	type sectionView struct {
		Index           int                     `json:"index"`
		ID              string                  `json:"id"`
		Span            document.Range          `json:"span"`
		Lines           document.LineRange      `json:"lines"`
		EstimatedHeight float64                 `json:"estimated_height"`
		Priority        document.RenderPriority `json:"priority"`
		Live            bool                    `json:"live"`
		Content         *document.StyledText    `json:"content,omitempty"`
	}
	views := make([]sectionView, len(res.Sections))
	for i, sec := range res.Sections {
		v := sectionView{
			Index:           i,
			ID:              sec.ID,
			Span:            sec.Span,
			Lines:           sec.Lines,
			EstimatedHeight: sec.EstimatedHeight,
			Priority:        sec.Priority,
		}
		if _, ok := live[i]; ok {
			v.Live = true
			content := sec.Content
			v.Content = &content
		}
		views[i] = v
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"sections": views})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	res := s.lookup(w, r)
	if res == nil {
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	current := -1
	if v := r.URL.Query().Get("current"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			current = n
		}
	}
	matches := search.Find(res.Model.Styled.Text, q, current)
	if matches == nil {
		matches = []viewport.Highlight{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"query":   q,
		"matches": matches,
	})
}

func (s *Server) handleExportHTML(w http.ResponseWriter, r *http.Request) {
	res := s.lookup(w, r)
	if res == nil {
		return
	}
	out, err := s.html.Render([]byte(res.Model.Styled.Text))
	if err != nil {
		jsonError(w, "html export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(out)
}

// lookup fetches the document for the request or writes a 404 and
// returns nil.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) *pipeline.Result {
	docID := chi.URLParam(r, "docID")
	res := s.store.Get(docID)
	if res == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return nil
	}
	return res
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// jsonLoadError maps pipeline failures onto HTTP statuses.
func jsonLoadError(w http.ResponseWriter, err error) {
	var le *document.LoadError
	if !errors.As(err, &le) {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusUnprocessableEntity
	switch le.Kind {
	case document.FailFileTooLarge:
		status = http.StatusRequestEntityTooLarge
	case document.FailFileNotFound:
		status = http.StatusNotFound
	case document.FailAccessDenied:
		status = http.StatusForbidden
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": le.Error(),
		"kind":  string(le.Kind),
	})
}
