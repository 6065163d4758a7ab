package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"integration_timeout": s.calc.Timeout().String(),
		"stats":               s.stats.Snapshot(),
	})
}
