package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dewiweb/docserver/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx attachments. The first paragraph styled "Title"
// sets the tree title; "Heading N" styles open sections; every other
// non-empty paragraph is body text.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var (
		b     doctree.Builder
		title string
	)
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text, style := paragraphText(para), paragraphStyle(para)
		switch {
		case text == "":
		case title == "" && strings.EqualFold(style, "Title"):
			title = text
		case styleLevel(style) > 0:
			b.Heading(text, styleLevel(style))
		default:
			b.Text(text)
		}
	}
	return b.Tree(title), nil
}

func paragraphStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// styleLevel accepts both style IDs ("Heading2") and names ("heading 2").
func styleLevel(style string) int {
	rest, ok := strings.CutPrefix(strings.ToLower(strings.ReplaceAll(style, " ", "")), "heading")
	if !ok {
		return 0
	}
	if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 6 {
		return n
	}
	return 0
}

// paragraphText joins the text of every run.
func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
