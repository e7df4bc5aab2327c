// Package catalog discovers documentation artifacts under the document root
// and turns them into ordered, titled listings.
package catalog

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dewiweb/docserver/internal/domain"
	"github.com/dewiweb/docserver/internal/parser"
	"github.com/dewiweb/docserver/internal/sandbox"
)

// Extension sets per listing.
var (
	DocumentExts = []string{".md", ".markdown", ".txt", ".pdf", ".docx"}
	DiagramExts  = []string{".mmd"}
	SVGExts      = []string{".svg"}
	HTMLExts     = []string{".html", ".htm"}
	ImageExts    = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
)

// Options configures a Builder.
type Options struct {
	MockupPrefixes  []string
	Exclude         []string
	SectionPriority []string
	Parser          parser.Options
}

// Builder produces listings. It holds no state between calls: every listing
// walks the tree again.
type Builder struct {
	resolver *sandbox.Resolver
	fsys     fs.FS
	opts     Options
	log      *slog.Logger
}

// NewBuilder creates a Builder that walks the resolver's serve directory.
func NewBuilder(resolver *sandbox.Resolver, opts Options, log *slog.Logger) *Builder {
	if opts.SectionPriority == nil {
		opts.SectionPriority = DefaultSectionPriority
	}
	return &Builder{
		resolver: resolver,
		fsys:     os.DirFS(resolver.ServeDir()),
		opts:     opts,
		log:      log,
	}
}

// Root returns the document root listings are relative to.
func (b *Builder) Root() string { return b.resolver.Root() }

// Documents lists Markdown documents and text, PDF and DOCX attachments.
func (b *Builder) Documents() ([]Entry, error) {
	return b.list([]string{b.Root()}, DocumentExts)
}

// Diagrams lists Mermaid sources.
func (b *Builder) Diagrams() ([]Entry, error) {
	return b.list([]string{b.Root()}, DiagramExts)
}

// Mockups lists HTML and image mockups under the mockup prefixes.
func (b *Builder) Mockups() ([]Entry, error) {
	return b.list(b.opts.MockupPrefixes, slices.Concat(HTMLExts, ImageExts))
}

// Structure lists every artifact kind under the document root.
func (b *Builder) Structure() ([]Entry, error) {
	return b.list([]string{b.Root()}, slices.Concat(DocumentExts, DiagramExts, SVGExts, HTMLExts, ImageExts))
}

func (b *Builder) list(prefixes []string, exts []string) ([]Entry, error) {
	seen := make(map[string]bool)
	var entries []Entry
	for _, raw := range prefixes {
		prefix, err := sandbox.CleanPrefix(raw)
		if err != nil {
			return nil, domain.Internal("list "+raw, err)
		}
		for f, err := range Enumerate(b.fsys, prefix, exts, b.opts.Exclude) {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, domain.Internal("walk "+f.Path, err)
			}
			if seen[f.Path] {
				continue
			}
			seen[f.Path] = true

			kind := b.kindOf(f)
			if kind == "" {
				continue
			}
			e, ok := b.entry(f, kind, prefixes)
			if ok {
				entries = append(entries, e)
			}
		}
	}
	return Classify(b.Root(), entries, b.opts.SectionPriority), nil
}

// entry reads a file through the sanitizer and derives its title. Files the
// read endpoints would refuse are left out of listings.
func (b *Builder) entry(f Found, kind Kind, prefixes []string) (Entry, bool) {
	loc, err := b.resolver.Check(f.Path, prefixes)
	if err != nil {
		b.log.Debug("skipping unlisted file", "path", f.Path, "error", err)
		return Entry{}, false
	}

	e := Entry{
		Path: loc.Path,
		Name: strings.TrimSuffix(loc.Name(), f.Ext),
		Kind: kind,
	}
	if slices.Contains(ImageExts, f.Ext) {
		e.Title = DefaultTitle(loc.Path)
		return e, true
	}

	data, err := b.resolver.ReadFile(loc)
	if err != nil {
		b.log.Warn("reading file for title", "path", loc.Path, "error", err)
		data = nil
	}
	e.Title = b.Title(data, loc.Path, kind)
	return e, true
}

// Title is ExtractTitle with the configured parser options. Fallbacks are
// logged at warn.
func (b *Builder) Title(content []byte, p string, kind Kind) string {
	title, err := ExtractTitle(content, p, kind, b.opts.Parser)
	if err != nil {
		b.log.Warn("title extraction fell back to filename", "path", p, "error", err)
	}
	return title
}

func (b *Builder) kindOf(f Found) Kind {
	switch {
	case slices.Contains(DiagramExts, f.Ext):
		return KindDiagram
	case slices.Contains(SVGExts, f.Ext):
		return KindSVG
	case slices.Contains(DocumentExts, f.Ext):
		return KindDocument
	}
	mockup := b.isMockupPath(f.Path)
	switch {
	case slices.Contains(HTMLExts, f.Ext) && mockup:
		return KindMockup
	case slices.Contains(HTMLExts, f.Ext):
		return KindHTML
	case slices.Contains(ImageExts, f.Ext) && mockup:
		return KindMockup
	}
	return ""
}

func (b *Builder) isMockupPath(p string) bool {
	for _, raw := range b.opts.MockupPrefixes {
		prefix, err := sandbox.CleanPrefix(raw)
		if err == nil && strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}
