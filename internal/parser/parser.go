package parser

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/dewiweb/docserver/internal/doctree"
)

// Parser converts raw document bytes into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// SupportedExtensions lists file extensions this service can parse.
// Matching is exact and case-sensitive, like directory enumeration.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mmd":      true,
	".txt":      true,
	".html":     true,
	".htm":      true,
	".svg":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tunes parsers that shell out or need limits.
type Options struct {
	// PDFFallbackPdftotext retries failed PDF extraction with pdftotext.
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := filepath.Ext(filename)
	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".mmd":
		return &MermaidParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".html", ".htm", ".svg":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[filepath.Ext(filename)]
}
