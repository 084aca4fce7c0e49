package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/html2md/internal/htmldom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// newDocument returns an empty HTML document and its <body>.
func newDocument() (*html.Node, *html.Node) {
	doc, err := html.Parse(strings.NewReader(""))
	if err != nil {
		// Parsing from a strings.Reader cannot fail.
		panic(err)
	}
	return doc, htmldom.Body(doc)
}

func element(tag string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func setAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// splitParagraphs groups lines into blank-line separated paragraphs. Lines
// inside a paragraph stay joined by "\n".
func splitParagraphs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return paragraphs, scanner.Err()
}

// appendParagraphs adds one <p> per paragraph to parent.
func appendParagraphs(parent *html.Node, paragraphs []string) {
	for _, para := range paragraphs {
		parent.AppendChild(element("p", textNode(para)))
	}
}
