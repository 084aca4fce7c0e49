// Package convert turns an HTML DOM into a CommonMark AST.
//
// Conversion runs in two passes. Discovery drains a cursor through one node's
// subtree and captures a tree of strategies, one per DOM node. Build then
// walks the strategies top-down and materializes AST nodes, each strategy
// receiving the AST node its parent produced.
package convert

import (
	"github.com/dgallion1/html2md/internal/htmldom"
	"golang.org/x/net/html"
)

// Category is the conversion strategy selected for a DOM node.
type Category int

const (
	CategoryRaw Category = iota
	CategoryLink
	CategoryHardbreak
	CategoryDocument
	CategoryCodeBlock
	CategoryCode
	CategoryImage
	CategoryList
	CategoryItem
	CategoryParagraph
	CategoryHorizontalRule
	CategoryText
	CategoryBlockQuote
	CategoryEmph
	CategoryStrong
	CategoryHeader
)

var categoryNames = [...]string{
	CategoryRaw:            "raw",
	CategoryLink:           "link",
	CategoryHardbreak:      "hardbreak",
	CategoryDocument:       "document",
	CategoryCodeBlock:      "code_block",
	CategoryCode:           "code",
	CategoryImage:          "image",
	CategoryList:           "list",
	CategoryItem:           "item",
	CategoryParagraph:      "paragraph",
	CategoryHorizontalRule: "horizontal_rule",
	CategoryText:           "text",
	CategoryBlockQuote:     "block_quote",
	CategoryEmph:           "emph",
	CategoryStrong:         "strong",
	CategoryHeader:         "header",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Classify maps a DOM node to its category. For headers the level is the
// numeric suffix of the tag; it is zero for every other category. Anything
// not listed, comments included, falls back to raw markup.
func Classify(n *html.Node) (Category, int) {
	switch {
	case n == nil:
		return CategoryRaw, 0
	case n.Type == html.TextNode:
		return CategoryText, 0
	case n.Type != html.ElementNode:
		return CategoryRaw, 0
	}

	tag := htmldom.Name(n)
	switch tag {
	case "a":
		return CategoryLink, 0
	case "br":
		return CategoryHardbreak, 0
	case "body":
		return CategoryDocument, 0
	case "pre":
		return CategoryCodeBlock, 0
	case "code":
		return CategoryCode, 0
	case "img":
		return CategoryImage, 0
	case "ul", "ol":
		return CategoryList, 0
	case "li":
		return CategoryItem, 0
	case "p":
		return CategoryParagraph, 0
	case "hr":
		return CategoryHorizontalRule, 0
	case "blockquote":
		return CategoryBlockQuote, 0
	case "i", "em":
		return CategoryEmph, 0
	case "b", "strong":
		return CategoryStrong, 0
	}
	if level := headingLevel(tag); level > 0 {
		return CategoryHeader, level
	}
	return CategoryRaw, 0
}

// headingLevel returns 1-9 for h1-h9 and 0 otherwise.
func headingLevel(tag string) int {
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '9' {
		return 0
	}
	return int(tag[1] - '0')
}
