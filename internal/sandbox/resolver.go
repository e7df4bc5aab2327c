// Package sandbox turns request-supplied paths into filesystem locations that
// are guaranteed to sit under an allow-listed prefix of the document root.
//
// Every externally reachable file read goes through Resolver.Resolve followed
// by Resolver.ReadFile. Nothing is opened before Resolve succeeds.
package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dewiweb/docserver/internal/domain"
)

// maxDecodePasses bounds repeated percent-decoding of nested encodings.
const maxDecodePasses = 4

// Location is a sanitized, existing regular file.
type Location struct {
	// Path is the cleaned, slash-separated path relative to the serve dir.
	Path string

	abs string
}

// Name returns the base filename.
func (l Location) Name() string { return path.Base(l.Path) }

// Resolver validates request paths against a document root.
type Resolver struct {
	serveDir string
	root     string
	rootAbs  string
}

// NewResolver creates a resolver for documentRoot, a slash-separated path
// relative to serveDir.
func NewResolver(serveDir, documentRoot string) (*Resolver, error) {
	root, err := CleanPrefix(documentRoot)
	if err != nil {
		return nil, fmt.Errorf("document root: %w", err)
	}
	absServe, err := filepath.Abs(serveDir)
	if err != nil {
		return nil, fmt.Errorf("resolve serve dir: %w", err)
	}
	rootAbs, err := filepath.EvalSymlinks(filepath.Join(absServe, filepath.FromSlash(root)))
	if err != nil {
		return nil, fmt.Errorf("resolve document root: %w", err)
	}
	info, err := os.Stat(rootAbs)
	if err != nil {
		return nil, fmt.Errorf("stat document root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document root %s is not a directory", root)
	}
	return &Resolver{serveDir: absServe, root: root, rootAbs: rootAbs}, nil
}

// Root returns the cleaned document root.
func (r *Resolver) Root() string { return r.root }

// ServeDir returns the absolute directory request paths are relative to.
func (r *Resolver) ServeDir() string { return r.serveDir }

// Resolve validates requestPath and checks that it names an existing regular
// file under one of allowedPrefixes. requestPath carries exactly one layer of
// percent-encoding, as in a URL path; the file is looked up after a single
// decode, so names containing a literal '%' stay reachable.
func (r *Resolver) Resolve(requestPath string, allowedPrefixes []string) (Location, error) {
	if err := inspectLayers(requestPath); err != nil {
		return Location{}, err
	}
	decoded, err := url.PathUnescape(requestPath)
	if err != nil {
		return Location{}, &domain.MalformedInputError{Path: requestPath, Reason: err.Error()}
	}
	return r.check(requestPath, decoded, allowedPrefixes)
}

// Check validates an already-decoded slash path, such as one produced by
// directory enumeration, with the same rules as Resolve.
func (r *Resolver) Check(p string, allowedPrefixes []string) (Location, error) {
	if strings.ContainsRune(p, 0) {
		return Location{}, &domain.MalformedInputError{Path: p, Reason: "contains NUL byte"}
	}
	return r.check(p, p, allowedPrefixes)
}

func (r *Resolver) check(requestPath, decoded string, allowedPrefixes []string) (Location, error) {
	if hasParentSegment(decoded) {
		return Location{}, &domain.SecurityViolationError{Path: requestPath, Reason: "path traversal not allowed"}
	}

	p := strings.ReplaceAll(decoded, "\\", "/")
	if strings.HasPrefix(p, "/") || filepath.VolumeName(p) != "" {
		return Location{}, &domain.SecurityViolationError{Path: requestPath, Reason: "absolute path not allowed"}
	}
	clean := path.Clean(p)

	prefix, ok := matchPrefix(clean, allowedPrefixes)
	if !ok || !under(clean, r.root) {
		return Location{}, &domain.SecurityViolationError{Path: requestPath, Reason: "outside allowed directories"}
	}

	// Listings skip hidden and internal names below the prefix they walk;
	// reads refuse the same files.
	if hasHiddenSegment(strings.TrimPrefix(clean, prefix+"/")) {
		return Location{}, &domain.NotFoundError{Path: clean}
	}

	abs := filepath.Join(r.serveDir, filepath.FromSlash(clean))
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Location{}, &domain.NotFoundError{Path: clean}
		}
		return Location{}, domain.Internal("stat "+clean, err)
	}
	if !info.Mode().IsRegular() {
		return Location{}, &domain.NotFoundError{Path: clean}
	}

	// Symlinks must land inside the prefix they were requested through.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Location{}, domain.Internal("resolve "+clean, err)
	}
	prefixAbs, err := filepath.EvalSymlinks(filepath.Join(r.serveDir, filepath.FromSlash(prefix)))
	if err != nil {
		return Location{}, domain.Internal("resolve prefix "+prefix, err)
	}
	if !within(prefixAbs, resolved) {
		return Location{}, &domain.SecurityViolationError{Path: requestPath, Reason: "symlink resolves outside allowed directories"}
	}

	return Location{Path: clean, abs: resolved}, nil
}

// ReadFile reads a resolved location.
func (r *Resolver) ReadFile(loc Location) ([]byte, error) {
	if loc.abs == "" {
		return nil, domain.Internal("read file", errors.New("unresolved location"))
	}
	data, err := os.ReadFile(loc.abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{Path: loc.Path}
		}
		return nil, domain.Internal("read "+loc.Path, err)
	}
	return data, nil
}

// CleanPrefix normalizes an allow-listed prefix: slash-separated, relative,
// no trailing slash, no traversal, never "." or empty.
func CleanPrefix(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return "", errors.New("path cannot be empty")
	}
	if strings.HasPrefix(p, "/") || filepath.VolumeName(p) != "" {
		return "", fmt.Errorf("path %q must be relative", p)
	}
	if hasParentSegment(p) {
		return "", fmt.Errorf("path %q contains traversal", p)
	}
	p = path.Clean(p)
	if p == "." {
		return "", fmt.Errorf("path %q resolves to the serve directory itself", p)
	}
	return p, nil
}

// inspectLayers decodes raw repeatedly, up to maxDecodePasses, and rejects it
// if any layer holds a NUL byte or a ".." segment, so nested encodings cannot
// smuggle traversal past a single decode. Only the first decode must succeed:
// a later failure means the layer before holds a literal '%'.
func inspectLayers(raw string) error {
	cur := raw
	for pass := 0; ; pass++ {
		if strings.ContainsRune(cur, 0) {
			return &domain.MalformedInputError{Path: raw, Reason: "contains NUL byte"}
		}
		if hasParentSegment(cur) {
			return &domain.SecurityViolationError{Path: raw, Reason: "path traversal not allowed"}
		}
		next, err := url.PathUnescape(cur)
		switch {
		case err != nil && pass == 0:
			return &domain.MalformedInputError{Path: raw, Reason: err.Error()}
		case err != nil || next == cur:
			return nil
		case pass == maxDecodePasses-1:
			return &domain.MalformedInputError{Path: raw, Reason: "too many levels of percent-encoding"}
		}
		cur = next
	}
}

// Hidden reports whether a file or directory name is hidden (".") or
// internal ("_"). Such entries are left out of listings and refused by reads.
func Hidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func hasHiddenSegment(p string) bool {
	return slices.ContainsFunc(strings.Split(p, "/"), Hidden)
}

func hasParentSegment(p string) bool {
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

func matchPrefix(clean string, prefixes []string) (string, bool) {
	for _, raw := range prefixes {
		prefix, err := CleanPrefix(raw)
		if err != nil {
			continue
		}
		if strings.HasPrefix(clean, prefix+"/") {
			return prefix, true
		}
	}
	return "", false
}

// under reports whether p is strictly inside dir (both slash-separated).
func under(p, dir string) bool {
	return strings.HasPrefix(p, dir+"/")
}

func within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
