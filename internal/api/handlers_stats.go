package api

import (
	"net/http"
)

// handleStats reports request latency per route over the rolling window.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"window": s.cfg.StatsWindow.String(),
		"routes": s.stats.Snapshot(),
	})
}
