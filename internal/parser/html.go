package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dewiweb/docserver/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLParser handles HTML pages, UI mockups and SVG images. The <title>
// element becomes the tree title; h1-h6 build the section hierarchy.
type HTMLParser struct{}

// skipped elements never contribute text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Title:    true,
}

// textBlocks are taken whole as one paragraph each. SVG <text> has no atom
// and is matched by name.
var textBlocks = map[atom.Atom]bool{
	atom.P:          true,
	atom.Li:         true,
	atom.Td:         true,
	atom.Blockquote: true,
	atom.Figcaption: true,
	atom.Pre:        true,
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var b doctree.Builder
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode || inSkipped(n) {
			continue
		}
		switch {
		case headingLevel(n.Data) > 0:
			b.Heading(textContent(n), headingLevel(n.Data))
		case (textBlocks[n.DataAtom] || n.Data == "text") && !inTextBlock(n):
			b.Text(textContent(n))
		}
	}
	return b.Tree(findTitle(doc)), nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// inSkipped reports whether n is, or sits inside, an element whose content
// is not page text.
func inSkipped(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && skipped[n.DataAtom] {
			return true
		}
	}
	return false
}

// inTextBlock reports whether an ancestor of n is already taken as a
// paragraph or heading, so nested blocks are not counted twice.
func inTextBlock(n *html.Node) bool {
	for a := n.Parent; a != nil; a = a.Parent {
		if a.Type == html.ElementNode && (textBlocks[a.DataAtom] || a.Data == "text" || headingLevel(a.Data) > 0) {
			return true
		}
	}
	return false
}

// textContent concatenates descendant text with whitespace collapsed.
func textContent(n *html.Node) string {
	var parts []string
	for d := range n.Descendants() {
		if d.Type == html.TextNode {
			parts = append(parts, d.Data)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// findTitle returns the first <title> text. SVG titles are matched too
// since the parser keeps their local name.
func findTitle(doc *html.Node) string {
	for n := range doc.Descendants() {
		if n.Type == html.ElementNode && n.Data == "title" {
			if t := textContent(n); t != "" {
				return t
			}
		}
	}
	return ""
}
