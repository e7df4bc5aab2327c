package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dewiweb/docserver/internal/doctree"
	"github.com/dewiweb/docserver/internal/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the artifact class of a catalog entry.
type Kind string

const (
	KindDocument Kind = "document"
	KindDiagram  Kind = "diagram"
	KindSVG      Kind = "svg"
	KindHTML     Kind = "html"
	KindMockup   Kind = "mockup"
)

// A subtitle is dropped only when what precedes the separator is longer
// than this many runes.
const minTitleRunes = 4

var (
	diagramWords       = []string{"diagram", "chart", "flow", "graph", "sequence", "map"}
	subtitleSeparators = []string{": ", " - ", " – ", " — "}
	stemReplacer       = strings.NewReplacer("-", " ", "_", " ", ".", " ")
	escapedPunct       = regexp.MustCompile(`\\([!-/:-@\[-` + "`" + `{-~])`)
)

// DefaultTitle derives a title from a filename: the stem with separators
// turned into spaces, title-cased.
func DefaultTitle(filename string) string {
	base := path.Base(filename)
	stem := strings.TrimSuffix(base, path.Ext(base))
	words := strings.Fields(stemReplacer.Replace(stem))
	if len(words) == 0 {
		return base
	}
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

// ExtractTitle derives a human-readable title for a file. It never fails to
// produce one: anything that cannot be read falls back to DefaultTitle, and
// err then reports why.
func ExtractTitle(content []byte, filename string, kind Kind, opts parser.Options) (title string, err error) {
	defer func() {
		if r := recover(); r != nil {
			title, err = DefaultTitle(filename), fmt.Errorf("panic extracting title: %v", r)
		}
		if kind == KindDiagram {
			title = diagramTitle(title)
		}
	}()

	if !parser.IsSupportedExtension(filename) {
		return DefaultTitle(filename), nil
	}
	if isText(filename) && !utf8.Valid(content) {
		return DefaultTitle(filename), errors.New("content is not valid UTF-8")
	}

	p, err := parser.ForFile(filename, opts)
	if err != nil {
		return DefaultTitle(filename), err
	}
	tree, err := p.Parse(bytes.NewReader(content), path.Base(filename))
	if err != nil {
		return DefaultTitle(filename), err
	}

	var found string
	switch kind {
	case KindDiagram:
		found = tree.Title
	case KindHTML, KindMockup, KindSVG:
		found = firstNonEmpty(tree.Title, tree.FirstHeading(1))
	default:
		found = cleanHeading(documentTitle(tree))
	}
	if found == "" {
		return DefaultTitle(filename), nil
	}
	return found, nil
}

func documentTitle(tree *doctree.DocTree) string {
	return firstNonEmpty(tree.Title, tree.FirstHeading(1), tree.FirstHeading(2))
}

// cleanHeading strips Markdown escapes and drops a trailing subtitle.
func cleanHeading(h string) string {
	h = strings.TrimSpace(escapedPunct.ReplaceAllString(h, "$1"))
	cut := -1
	for _, sep := range subtitleSeparators {
		if i := strings.Index(h, sep); i >= 0 && (cut < 0 || i < cut) {
			cut = i
		}
	}
	if cut >= 0 {
		if head := strings.TrimSpace(h[:cut]); utf8.RuneCountInString(head) > minTitleRunes {
			return head
		}
	}
	return h
}

func diagramTitle(title string) string {
	lower := strings.ToLower(title)
	for _, w := range diagramWords {
		if strings.Contains(lower, w) {
			return title
		}
	}
	return "Diagram: " + title
}

func isText(filename string) bool {
	switch path.Ext(filename) {
	case ".pdf", ".docx":
		return false
	}
	return true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
