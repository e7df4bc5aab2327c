package api

import (
	"bytes"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/dewiweb/docserver/internal/catalog"
	"github.com/dewiweb/docserver/internal/domain"
	"github.com/dewiweb/docserver/internal/parser"
	"github.com/dewiweb/docserver/internal/sandbox"
)

type renderedDocument struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Path    string `json:"path"`
}

// handleReadDoc renders a Markdown document, or a text, PDF or DOCX
// attachment, to HTML.
func (s *Server) handleReadDoc(w http.ResponseWriter, r *http.Request) {
	loc, data, ok := s.read(w, r, "/read-doc/", s.rootPrefix())
	if !ok {
		return
	}

	var content string
	switch path.Ext(loc.Path) {
	case ".md", ".markdown":
		html, err := s.renderer.Markdown(data)
		if err != nil {
			s.respondError(w, r, domain.Internal("render "+loc.Path, err))
			return
		}
		content = html
	case ".txt", ".pdf", ".docx":
		p, err := parser.ForFile(loc.Path, parser.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext})
		if err != nil {
			s.respondError(w, r, domain.Internal("parse "+loc.Path, err))
			return
		}
		tree, err := p.Parse(bytes.NewReader(data), loc.Name())
		if err != nil {
			s.respondError(w, r, domain.Internal("parse "+loc.Path, err))
			return
		}
		content = s.renderer.Tree(tree)
	default:
		s.respondError(w, r, &domain.MalformedInputError{Path: loc.Path, Reason: "not a readable document type"})
		return
	}

	writeJSON(w, http.StatusOK, renderedDocument{
		Title:   s.catalog.Title(data, loc.Path, catalog.KindDocument),
		Content: content,
		Path:    loc.Path,
	})
}

// handleReadDiagram returns diagram source verbatim.
func (s *Server) handleReadDiagram(w http.ResponseWriter, r *http.Request) {
	_, data, ok := s.read(w, r, "/read-mmd/", s.rootPrefix())
	if !ok {
		return
	}
	writeBytes(w, "text/plain; charset=utf-8", data)
}

// handleReadFile returns raw bytes with an inferred content type.
func (s *Server) handleReadFile(w http.ResponseWriter, r *http.Request) {
	loc, data, ok := s.read(w, r, "/read-file/", s.rootPrefix())
	if !ok {
		return
	}
	writeBytes(w, contentType(loc.Path, data), data)
}

// handleMockup serves mockups, only from the mockup prefixes.
func (s *Server) handleMockup(w http.ResponseWriter, r *http.Request) {
	loc, data, ok := s.read(w, r, "/mockup/", s.cfg.MockupPrefixes)
	if !ok {
		return
	}
	ct := contentType(loc.Path, data)
	switch path.Ext(loc.Path) {
	case ".html", ".htm":
		ct = "text/html; charset=utf-8"
	}
	writeBytes(w, ct, data)
}

// read resolves the part of the request path after route against prefixes
// and reads the file. On failure the error response has been written.
func (s *Server) read(w http.ResponseWriter, r *http.Request, route string, prefixes []string) (sandbox.Location, []byte, bool) {
	// The escaped form is used so the resolver sees exactly one layer of
	// encoding whatever the router decoded.
	requested := strings.TrimPrefix(r.URL.EscapedPath(), route)

	loc, err := s.resolver.Resolve(requested, prefixes)
	if err != nil {
		s.respondError(w, r, err)
		return sandbox.Location{}, nil, false
	}
	data, err := s.resolver.ReadFile(loc)
	if err != nil {
		s.respondError(w, r, err)
		return sandbox.Location{}, nil, false
	}
	return loc, data, true
}

func (s *Server) rootPrefix() []string {
	return []string{s.resolver.Root()}
}

// contentType infers a MIME type from the extension, then from the bytes.
func contentType(p string, data []byte) string {
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
