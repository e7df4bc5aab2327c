// Package render turns documents into HTML fragments for the viewer.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/dewiweb/docserver/internal/doctree"
	"github.com/dewiweb/docserver/internal/parser"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
)

// Renderer converts Markdown to HTML with a fixed extension set: fenced code
// (core CommonMark), tables, and heading IDs for in-page tables of contents.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table),
			goldmark.WithParserOptions(gmparser.WithAutoHeadingID()),
		),
	}
}

// Markdown renders src, dropping any front matter block first.
func (r *Renderer) Markdown(src []byte) (string, error) {
	_, body := parser.FrontMatter(src)
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Tree renders a parsed document as headings and paragraphs. Used for
// formats without native HTML (plain text, PDF, DOCX).
func (r *Renderer) Tree(tree *doctree.DocTree) string {
	var b strings.Builder
	for _, n := range tree.Children {
		writeNode(&b, n)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *doctree.DocNode) {
	if n.Title != "" {
		level := n.Level
		if level < 1 || level > 6 {
			// Synthetic sections such as PDF pages.
			level = 2
		}
		fmt.Fprintf(b, "<h%d>%s</h%d>\n", level, html.EscapeString(n.Title), level)
	}
	for _, para := range strings.Split(n.Text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		lines := strings.Split(para, "\n")
		for i := range lines {
			lines[i] = html.EscapeString(lines[i])
		}
		fmt.Fprintf(b, "<p>%s</p>\n", strings.Join(lines, "<br>\n"))
	}
	for _, c := range n.Children {
		writeNode(b, c)
	}
}
