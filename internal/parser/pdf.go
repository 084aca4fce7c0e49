package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// pageSeparator divides pages in extracted text.
const pageSeparator = "\f"

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	// ledongthuc/pdf opens by path, so the upload goes to a temp file.
	tmp, err := os.CreateTemp("", "html2md-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text %s: %w", filename, err)
	}
	return pagesDocument(text)
}

// pagesDocument lays out page-separated text: paragraphs become <p>, and an
// <hr> separates consecutive non-empty pages.
func pagesDocument(text string) (*html.Node, error) {
	doc, body := newDocument()
	emitted := false
	for _, page := range strings.Split(text, pageSeparator) {
		paragraphs, err := splitParagraphs(strings.NewReader(page))
		if err != nil {
			return nil, err
		}
		if len(paragraphs) == 0 {
			continue
		}
		if emitted {
			body.AppendChild(element("hr"))
		}
		appendParagraphs(body, paragraphs)
		emitted = true
	}
	return doc, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString(pageSeparator)
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	// pdftotext separates pages with form feeds as well.
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
