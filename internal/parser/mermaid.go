package parser

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/dewiweb/docserver/internal/doctree"
)

// MermaidParser handles Mermaid diagram sources. Diagrams have no headings;
// the title comes from Mermaid front matter or a "title" statement.
type MermaidParser struct{}

func (p *MermaidParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	title, body := FrontMatter(raw)

	tree := &doctree.DocTree{Title: title}
	if tree.Title == "" {
		tree.Title = titleStatement(body)
	}

	if src := strings.TrimSpace(string(body)); src != "" {
		tree.Children = []*doctree.DocNode{{Text: src}}
	}
	return tree, nil
}

// titleStatement finds a "title ..." line, as used by pie, gantt and
// journey diagrams.
func titleStatement(src []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(src))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, "title "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
