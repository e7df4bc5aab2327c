package api

import (
	"net/http"

	"github.com/dewiweb/docserver/internal/catalog"
)

type docItem struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type diagramItem struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

type mockupItem struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// handleListDocs lists documents by title.
func (s *Server) handleListDocs(w http.ResponseWriter, r *http.Request) {
	docs, err := s.catalog.Documents()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	files := make([]docItem, 0, len(docs))
	for _, d := range docs {
		files = append(files, docItem{Path: d.Path, Name: d.Title, Category: d.Category})
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// handleListDiagrams lists Mermaid sources; name is the bare file stem.
func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	diagrams, err := s.catalog.Diagrams()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	files := make([]diagramItem, 0, len(diagrams))
	for _, d := range diagrams {
		files = append(files, diagramItem{Path: d.Path, Name: d.Name, Title: d.Title})
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (s *Server) handleListMockups(w http.ResponseWriter, r *http.Request) {
	mockups, err := s.catalog.Mockups()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	files := make([]mockupItem, 0, len(mockups))
	for _, m := range mockups {
		files = append(files, mockupItem{Path: m.Path, Name: m.Title})
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// handleDocsStructure returns every artifact with its full placement.
func (s *Server) handleDocsStructure(w http.ResponseWriter, r *http.Request) {
	entries, err := s.catalog.Structure()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Root  string          `json:"root"`
		Files []catalog.Entry `json:"files"`
	}{s.catalog.Root(), entries})
}
