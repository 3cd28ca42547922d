package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleQAStats(w http.ResponseWriter, r *http.Request) {
	if s.qaStats == nil {
		jsonError(w, "qa stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.cfg.ExtractModel,
		"stats": s.qaStats.Snapshot(),
	})
}
