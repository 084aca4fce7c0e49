package parser

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// TextParser handles plain text files. Each blank-line separated paragraph
// becomes a <p>.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	paragraphs, err := splitParagraphs(r)
	if err != nil {
		return nil, fmt.Errorf("read text %s: %w", filename, err)
	}
	doc, body := newDocument()
	appendParagraphs(body, paragraphs)
	return doc, nil
}
