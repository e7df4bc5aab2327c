package doctree

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Explicit title from metadata (front matter, <title>, PDF info); empty if none
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Level    int        // Heading level 1-6; 0 for synthetic sections such as PDF pages
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

// FirstHeading returns the title of the first heading of the given level in
// document order, or "" if there is none.
func (t *DocTree) FirstHeading(level int) string {
	for _, c := range t.Children {
		if h := c.firstHeading(level); h != "" {
			return h
		}
	}
	return ""
}

func (n *DocNode) firstHeading(level int) string {
	if n.Level == level && n.Title != "" {
		return n.Title
	}
	for _, c := range n.Children {
		if h := c.firstHeading(level); h != "" {
			return h
		}
	}
	return ""
}
