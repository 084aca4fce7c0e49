package htmldom

import (
	"strings"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"
)

// Name returns the lower-cased node name: the tag for elements, "#text",
// "#comment" or "#document" otherwise.
func Name(n *html.Node) string {
	return strings.ToLower(dom.NodeName(n))
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// IsComment reports whether n is a comment node.
func IsComment(n *html.Node) bool {
	return n != nil && n.Type == html.CommentNode
}

// IsInline reports whether n renders within a line of text. Text nodes count
// as inline; comments do not.
func IsInline(n *html.Node) bool {
	return n != nil && dom.NameIsInlineNode(Name(n))
}

// Attr returns the value of the named attribute and whether it was present.
func Attr(n *html.Node, key string) (string, bool) {
	return dom.GetAttribute(n, key)
}

// AttrOr returns the named attribute or fallback when it is absent.
func AttrOr(n *html.Node, key, fallback string) string {
	return dom.GetAttributeOr(n, key, fallback)
}

// Classes returns the whitespace-separated entries of the class attribute.
func Classes(n *html.Node) []string {
	return dom.GetClasses(n)
}

// HasAncestor reports whether any ancestor of n is an element named tag.
func HasAncestor(n *html.Node, tag string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && Name(p) == tag {
			return true
		}
	}
	return false
}

// OuterHTML serializes n with its attributes and descendants.
func OuterHTML(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Body returns the first <body> element under doc, or doc itself when it is
// a body element.
func Body(doc *html.Node) *html.Node {
	if doc == nil {
		return nil
	}
	if Name(doc) == "body" {
		return doc
	}
	return dom.FindFirstNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && Name(n) == "body"
	})
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	return dom.CollectText(n)
}
