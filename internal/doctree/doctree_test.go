package doctree

import "testing"

func TestFirstHeading_DocumentOrder(t *testing.T) {
	tree := &DocTree{
		Children: []*DocNode{
			{Title: "Intro", Level: 2},
			{Title: "Main", Level: 1, Children: []*DocNode{
				{Title: "Nested", Level: 2},
			}},
			{Title: "Later", Level: 1},
		},
	}

	if got := tree.FirstHeading(1); got != "Main" {
		t.Errorf("expected %q, got %q", "Main", got)
	}
	if got := tree.FirstHeading(2); got != "Intro" {
		t.Errorf("expected %q, got %q", "Intro", got)
	}
	if got := tree.FirstHeading(3); got != "" {
		t.Errorf("expected no level-3 heading, got %q", got)
	}
}

func TestFirstHeading_SkipsSyntheticSections(t *testing.T) {
	tree := &DocTree{
		Children: []*DocNode{
			{Title: "Page 1", Level: 0, Text: "body"},
		},
	}
	if got := tree.FirstHeading(1); got != "" {
		t.Errorf("expected page sections to be ignored, got %q", got)
	}
}
