package catalog

import (
	"io/fs"
	"iter"
	"path"
	"strings"

	"github.com/dewiweb/docserver/internal/sandbox"
)

// Found is one file produced by Enumerate.
type Found struct {
	Path string // slash-separated, relative to the walked file system
	Ext  string
}

// Enumerate walks root inside fsys and yields every file whose extension is
// exactly one of exts. Names starting with "." or "_" are skipped, along with
// whole directories, and so is any path containing one of the exclude
// substrings. Each range over the result walks the tree again.
//
// Walk errors are yielded with the offending path; the walk continues when
// the consumer keeps ranging.
func Enumerate(fsys fs.FS, root string, exts []string, excludes []string) iter.Seq2[Found, error] {
	extSet := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		extSet[e] = struct{}{}
	}

	return func(yield func(Found, error) bool) {
		_ = fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(Found{Path: p}, err) {
					return fs.SkipAll
				}
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if p != root && (sandbox.Hidden(d.Name()) || excluded(p, excludes)) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			ext := path.Ext(p)
			if _, ok := extSet[ext]; !ok {
				return nil
			}
			if !yield(Found{Path: p, Ext: ext}, nil) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

func excluded(p string, excludes []string) bool {
	for _, ex := range excludes {
		if ex != "" && strings.Contains(p, ex) {
			return true
		}
	}
	return false
}
