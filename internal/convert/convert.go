package convert

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/html2md/internal/htmldom"
	"github.com/dgallion1/html2md/internal/mdast"
	"golang.org/x/net/html"
)

// ErrNoBody is returned when a document has no <body> to convert.
var ErrNoBody = errors.New("document has no body")

// Document converts the <body> of doc into a Document node.
func Document(doc *html.Node) (*mdast.Node, error) {
	body := htmldom.Body(doc)
	if body == nil {
		return nil, ErrNoBody
	}
	return convertNode(body, nil)
}

// Children converts every child of root into a fresh Document node. It is
// used when the content root is an element other than <body>.
func Children(root *html.Node) (*mdast.Node, error) {
	doc := mdast.NewNode(mdast.Document)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if _, err := convertNode(c, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// FromRoot converts root as a document: a <body> is converted whole, any
// other element contributes its children.
func FromRoot(root *html.Node) (*mdast.Node, error) {
	if category, _ := Classify(root); category == CategoryDocument {
		return convertNode(root, nil)
	}
	return Children(root)
}

func convertNode(n *html.Node, parent *mdast.Node) (*mdast.Node, error) {
	w := htmldom.NewWalker(n)
	step, _ := w.Next()
	s, err := ConvertSubtree(step, w)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", htmldom.Name(n), err)
	}
	return s.Build(parent)
}

// Converter selects a content root by CSS selector and converts it.
type Converter struct {
	selector string
	log      *slog.Logger
}

// NewConverter creates a Converter. An empty selector means <body>.
func NewConverter(selector string, log *slog.Logger) *Converter {
	if log == nil {
		log = slog.Default()
	}
	return &Converter{selector: selector, log: log}
}

// WithSelector returns a copy of c that selects with selector instead.
func (c *Converter) WithSelector(selector string) *Converter {
	return &Converter{selector: selector, log: c.log}
}

// Convert converts the content root of doc. When the selector matches
// nothing the whole <body> is used.
func (c *Converter) Convert(doc *html.Node) (*mdast.Node, error) {
	root, ok := htmldom.SelectRoot(doc, c.selector)
	if !ok {
		c.log.Warn("content selector matched nothing, using body", "selector", c.selector)
		root = htmldom.Body(doc)
	}
	if root == nil {
		return nil, ErrNoBody
	}

	ast, err := FromRoot(root)
	if err != nil {
		return nil, err
	}
	c.log.Debug("converted document", "root", htmldom.Name(root), "nodes", ast.Count())
	return ast, nil
}
