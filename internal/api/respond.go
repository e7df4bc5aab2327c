package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dewiweb/docserver/internal/domain"
)

// respondError maps err onto a status code and writes {"error": msg}.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.StatusFor(err)

	attrs := []any{"method", r.Method, "path", r.URL.Path, "status", code, "error", err}
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", attrs...)
	} else {
		s.log.Warn("request rejected", attrs...)
	}

	if s.cfg.LegacyStatusCodes {
		code = http.StatusInternalServerError
	}
	jsonError(w, err.Error(), code)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeBytes writes a fully materialised payload.
func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
