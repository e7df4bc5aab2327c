package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// FrontMatter splits an optional YAML/TOML front matter block off src and
// returns its title and the remaining body. The block is only taken as front
// matter when it decodes to a non-empty mapping: malformed blocks and blocks
// holding nothing but comments (a Markdown heading between two rules reads as
// a YAML comment) stay in the body.
func FrontMatter(src []byte) (title string, body []byte) {
	var m map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader(src), &m)
	if err != nil || len(m) == 0 {
		return "", src
	}
	switch t := m["title"].(type) {
	case nil:
	case string:
		title = t
	default:
		title = fmt.Sprint(t)
	}
	return strings.TrimSpace(title), rest
}
