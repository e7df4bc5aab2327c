package doctree

import "strings"

// Builder assembles a DocTree from a flat stream of headings and text
// blocks, as produced by walking a Markdown AST or an HTML body. Each
// heading nests under the nearest preceding heading of a lower level.
// The zero value is ready to use.
type Builder struct {
	preamble DocNode
	open     []*DocNode
	pending  []string
}

// Heading starts a new section at level (1-6).
func (b *Builder) Heading(title string, level int) {
	b.flush()
	for len(b.open) > 0 && b.open[len(b.open)-1].Level >= level {
		b.open = b.open[:len(b.open)-1]
	}
	n := &DocNode{Title: title, Level: level}
	parent := b.current()
	parent.Children = append(parent.Children, n)
	b.open = append(b.open, n)
}

// Text appends a block of body text to the open section. Blank blocks are
// dropped.
func (b *Builder) Text(block string) {
	if block = strings.TrimSpace(block); block != "" {
		b.pending = append(b.pending, block)
	}
}

// Tree finishes the document. Text before the first heading becomes a
// leading untitled node.
func (b *Builder) Tree(title string) *DocTree {
	b.flush()
	tree := &DocTree{Title: title}
	if b.preamble.Text != "" {
		tree.Children = append(tree.Children, &DocNode{Text: b.preamble.Text})
	}
	tree.Children = append(tree.Children, b.preamble.Children...)
	return tree
}

func (b *Builder) current() *DocNode {
	if len(b.open) == 0 {
		return &b.preamble
	}
	return b.open[len(b.open)-1]
}

// flush moves pending blocks into the open section, paragraphs separated by
// a blank line.
func (b *Builder) flush() {
	if len(b.pending) == 0 {
		return
	}
	n := b.current()
	if n.Text != "" {
		b.pending = append([]string{n.Text}, b.pending...)
	}
	n.Text = strings.Join(b.pending, "\n\n")
	b.pending = b.pending[:0]
}
