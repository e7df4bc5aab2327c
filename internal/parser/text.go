package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dewiweb/docserver/internal/doctree"
)

// TextParser handles plain text attachments. Blank lines separate
// paragraphs. A paragraph's first line underlined with "===" or "---" is a
// level 1 or level 2 heading.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		b    doctree.Builder
		para []string
	)
	endParagraph := func() {
		b.Text(strings.Join(para, "\n"))
		para = para[:0]
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		switch {
		case strings.TrimSpace(line) == "":
			endParagraph()
		case len(para) == 1 && underlineLevel(line) > 0:
			b.Heading(strings.TrimSpace(para[0]), underlineLevel(line))
			para = para[:0]
		default:
			para = append(para, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	endParagraph()

	return b.Tree(""), nil
}

// underlineLevel returns 1 for "===" and 2 for "---" rules of at least three
// characters, 0 otherwise.
func underlineLevel(line string) int {
	line = strings.TrimSpace(line)
	if len(line) < 3 {
		return 0
	}
	switch {
	case strings.Trim(line, "=") == "":
		return 1
	case strings.Trim(line, "-") == "":
		return 2
	}
	return 0
}
