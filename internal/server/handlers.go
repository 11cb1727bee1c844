package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/lexfin/filingsearch/internal/models"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request",
		zap.String("query", query.Query),
		zap.String("ticker", query.Ticker),
		zap.String("doc_type", query.DocType),
		zap.Int("top_k", query.TopK),
	)
	// The engine only fails on boundary validation (empty query, unknown
	// filter value); everything past validation is pure computation.
	response, err := s.currentEngine().Search(r.Context(), &query)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	artifact := s.currentEngine().Artifact()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"chunks":     artifact.Size(),
		"vocab_size": artifact.Model.VocabSize(),
		"build_id":   artifact.BuildID,
		"built_at":   artifact.BuiltAt,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
