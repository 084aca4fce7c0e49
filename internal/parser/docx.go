package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"
)

// DOCXParser handles .docx files. Heading styles map to <h1>-<h6>, numbered
// paragraphs to list items, and bold or italic runs to <strong> and <em>.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	// go-docx reads the zip through an io.ReaderAt.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx %s: %w", filename, err)
	}
	d, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx %s: %w", filename, err)
	}
	return docxDocument(d), nil
}

func docxDocument(d *docx.Docx) *html.Node {
	doc, body := newDocument()
	var list *html.Node

	for _, item := range d.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			list = nil
			continue
		}
		inline := docxInline(d, para)
		if len(inline) == 0 {
			continue
		}

		if docxIsListItem(para) {
			if list == nil {
				list = element("ul")
				body.AppendChild(list)
			}
			list.AppendChild(element("li", inline...))
			continue
		}
		list = nil

		tag := "p"
		if level := docxHeadingLevel(para); level > 0 {
			tag = "h" + strconv.Itoa(level)
		}
		body.AppendChild(element(tag, inline...))
	}
	return doc
}

// docxHeadingLevel reads "Heading1", "heading 2" or "Title" paragraph
// styles; 0 means not a heading.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	rest, ok := strings.CutPrefix(style, "heading")
	if !ok {
		return 0
	}
	level, err := strconv.Atoi(rest)
	if err != nil || level < 1 || level > 6 {
		return 0
	}
	return level
}

func docxIsListItem(para *docx.Paragraph) bool {
	return para.Properties != nil && para.Properties.NumProperties != nil
}

// docxInline converts the runs and hyperlinks of a paragraph. Nothing is
// returned when the paragraph carries no visible text.
func docxInline(d *docx.Docx, para *docx.Paragraph) []*html.Node {
	var nodes []*html.Node
	hasText := false
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			run, text := docxRun(c)
			nodes = append(nodes, run...)
			hasText = hasText || text
		case *docx.Hyperlink:
			a := element("a")
			if href, err := d.ReferTarget(c.ID); err == nil {
				setAttr(a, "href", href)
			}
			run, text := docxRun(&c.Run)
			if !text && strings.TrimSpace(c.Run.InstrText) != "" {
				run, text = []*html.Node{textNode(c.Run.InstrText)}, true
			}
			for _, n := range run {
				a.AppendChild(n)
			}
			nodes = append(nodes, a)
			hasText = hasText || text
		}
	}
	if !hasText {
		return nil
	}
	return nodes
}

// docxRun converts one run, wrapping it in <strong> and <em> as its
// properties ask. The boolean reports whether the run had non-blank text.
func docxRun(run *docx.Run) ([]*html.Node, bool) {
	var content []*html.Node
	hasText := false
	for _, rc := range run.Children {
		switch c := rc.(type) {
		case *docx.Text:
			if c.Text == "" {
				continue
			}
			content = append(content, textNode(c.Text))
			hasText = hasText || strings.TrimSpace(c.Text) != ""
		case *docx.Tab:
			content = append(content, textNode("\t"))
		case *docx.BarterRabbet:
			content = append(content, element("br"))
		}
	}
	if len(content) == 0 || run.RunProperties == nil {
		return content, hasText
	}
	if run.RunProperties.Italic != nil {
		content = []*html.Node{element("em", content...)}
	}
	if run.RunProperties.Bold != nil {
		content = []*html.Node{element("strong", content...)}
	}
	return content, hasText
}
