package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/dewiweb/docserver/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// pdftotextTimeout bounds the external extractor.
const pdftotextTimeout = 30 * time.Second

// PDFParser handles PDF attachments. The Info dictionary title becomes the
// tree title and each non-empty page a synthetic section. When the Go reader
// fails and FallbackPdftotext is set, poppler's pdftotext is tried.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	title, pages, err := readPDF(data)
	if err != nil && p.FallbackPdftotext {
		pages, err = pdftotext(data)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	tree := &doctree.DocTree{Title: title}
	for i, text := range pages {
		if text = strings.TrimSpace(text); text == "" {
			continue
		}
		tree.Children = append(tree.Children, &doctree.DocNode{
			Title: fmt.Sprintf("Page %d", i+1),
			Text:  text,
			Page:  i + 1,
		})
	}
	return tree, nil
}

// readPDF returns the document title and the plain text of each page.
// Pages whose content cannot be decoded are left empty.
func readPDF(data []byte) (title string, pages []string, err error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, err
	}

	title = strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text())

	pages = make([]string, reader.NumPage())
	for i := range pages {
		page := reader.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		if text, err := page.GetPlainText(nil); err == nil {
			pages[i] = text
		}
	}
	return title, pages, nil
}

// pdftotext runs the external extractor; it separates pages with form feeds.
func pdftotext(data []byte) ([]string, error) {
	tmp, err := os.CreateTemp("", "docserver-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pdftotextTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "pdftotext", "-layout", tmp.Name(), "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return strings.Split(string(out), "\f"), nil
}
