package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/mdview/internal/validator"
)

type validateRequest struct {
	Content string `json:"content"`
}

// handleValidate runs both validation modes on the posted content: the
// strict pre-check verdict plus the tolerant error collection.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes+1024*1024)

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	strictErr := s.loader.ValidateOnly(req.Content)
	res := validator.ValidateCollectingErrors(req.Content, validator.FromAppConfig(s.cfg))

	body := map[string]any{
		"valid":  strictErr == nil,
		"errors": res.Errors,
	}
	if strictErr != nil {
		body["reason"] = strictErr.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func (s *Server) handlePipelineStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "pipeline stats unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"phases": s.stats.Snapshot(),
	})
}
