package catalog

import (
	"cmp"
	"path"
	"slices"
	"strings"
)

// DefaultSectionPriority orders the well-known top-level sections.
var DefaultSectionPriority = []string{
	"overview", "target", "current", "components",
	"diagrams", "mockups", "decisions", "archive",
}

// Entry is one discovered artifact.
type Entry struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	Kind       Kind   `json:"type"`
	Category   string `json:"category,omitempty"`
	Section    string `json:"section,omitempty"`
	Folder     string `json:"folder,omitempty"`
	IsRootFile bool   `json:"isRootFile"`
}

// Place fills in the section, folder and category of e relative to root.
// Files directly in root are root files and get none of the three.
func Place(root string, e Entry) Entry {
	e.Section, e.Folder, e.Category, e.IsRootFile = "", "", "", false

	rel, ok := strings.CutPrefix(e.Path, root+"/")
	if !ok {
		return e
	}
	dir := path.Dir(rel)
	if dir == "." {
		e.IsRootFile = true
		return e
	}
	e.Folder = dir
	e.Section, e.Category, _ = strings.Cut(dir, "/")
	return e
}

// Classify places every entry under root and returns them in display order:
// root files, then sections by priority (unknown sections after, by name).
// Within a section, files directly in the section directory come first,
// then nested files by folder, then by title. Ties fall back to the path,
// so the order does not depend on the input order.
func Classify(root string, entries []Entry, priority []string) []Entry {
	rank := make(map[string]int, len(priority))
	for i, s := range priority {
		if _, dup := rank[s]; !dup {
			rank[s] = i
		}
	}
	sectionRank := func(s string) int {
		if r, ok := rank[s]; ok {
			return r
		}
		return len(priority)
	}

	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Place(root, e)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return cmp.Or(
			boolRank(!a.IsRootFile, !b.IsRootFile),
			cmp.Compare(sectionRank(a.Section), sectionRank(b.Section)),
			cmp.Compare(a.Section, b.Section),
			boolRank(a.Category != "", b.Category != ""),
			cmp.Compare(a.Folder, b.Folder),
			cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)),
			cmp.Compare(a.Title, b.Title),
			cmp.Compare(a.Path, b.Path),
		)
	})
	return out
}

// boolRank orders false before true.
func boolRank(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
