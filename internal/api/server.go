package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dewiweb/docserver/internal/catalog"
	"github.com/dewiweb/docserver/internal/config"
	"github.com/dewiweb/docserver/internal/render"
	"github.com/dewiweb/docserver/internal/sandbox"
	"github.com/dewiweb/docserver/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for the documentation viewer.
type Server struct {
	router   chi.Router
	resolver *sandbox.Resolver
	catalog  *catalog.Builder
	renderer *render.Renderer
	stats    *stats.Recorder
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(resolver *sandbox.Resolver, builder *catalog.Builder, rec *stats.Recorder, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		resolver: resolver,
		catalog:  builder,
		renderer: render.New(),
		stats:    rec,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(CORS)
	r.Use(RecordLatency(s.stats))

	// HEAD is answered by the GET handler; net/http drops the body.
	get := func(pattern string, h http.HandlerFunc) {
		r.Get(pattern, h)
		r.Head(pattern, h)
	}

	get("/health", s.handleHealth)
	get("/stats", s.handleStats)

	// Listings.
	get("/list-docs", s.handleListDocs)
	get("/list-mmd", s.handleListDiagrams)
	get("/list-mockups", s.handleListMockups)
	get("/docs-structure", s.handleDocsStructure)

	// Reads. Every one goes through the resolver.
	get("/read-doc/*", s.handleReadDoc)
	get("/read-mmd/*", s.handleReadDiagram)
	get("/read-file/*", s.handleReadFile)
	get("/mockup/*", s.handleMockup)

	// Everything else, including the viewer itself.
	r.Handle("/*", staticFiles(s.resolver.ServeDir()))

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// staticFiles serves dir for the viewer's own assets. Dot-files and
// dot-directories are never served.
func staticFiles(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, seg := range strings.Split(r.URL.Path, "/") {
			if strings.HasPrefix(seg, ".") {
				http.NotFound(w, r)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}
