package convert

import (
	"fmt"

	"github.com/dgallion1/html2md/internal/htmldom"
	"github.com/dgallion1/html2md/internal/mdast"
	"golang.org/x/net/html"
)

// captureRaw preserves an unrecognized node verbatim and moves the cursor
// past its exit. Descendants are never converted.
func captureRaw(n *html.Node, c Cursor) *mdast.Node {
	var raw *mdast.Node
	switch {
	case htmldom.IsElement(n):
		t := mdast.HtmlBlock
		if inlineContext(n, c) {
			t = mdast.Html
		}
		literal, err := htmldom.OuterHTML(n)
		if err != nil {
			panic(&htmldom.ProtocolError{Msg: fmt.Sprintf("render %s: %v", htmldom.Name(n), err)})
		}
		raw = mdast.NewNode(t)
		raw.Literal = literal
	case htmldom.IsComment(n):
		raw = mdast.NewNode(mdast.Html)
		raw.Literal = "<!--" + n.Data + "-->"
	}
	c.SkipSubtree(n)
	return raw
}

// inlineContext walks forward from the cursor's current step, which is the
// entering step of n, until the exit of n. The first node that is not inline
// decides for block context.
func inlineContext(n *html.Node, c Cursor) bool {
	node := c.Current().Node
	if node != n {
		panic(&htmldom.ProtocolError{Msg: fmt.Sprintf("cursor is at %s, not at %s", htmldom.Name(node), htmldom.Name(n))})
	}
	for {
		if !htmldom.IsInline(node) {
			return false
		}
		next, ok := c.Next()
		if !ok {
			panic(&htmldom.ProtocolError{Msg: fmt.Sprintf("cursor exhausted before exit of %s", htmldom.Name(n))})
		}
		if next.Node == n {
			return true
		}
		node = next.Node
	}
}

func (s *Strategy) buildRaw(parent *mdast.Node) *mdast.Node {
	if s.raw != nil && parent != nil {
		parent.AppendChild(s.raw)
	}
	return s.raw
}
