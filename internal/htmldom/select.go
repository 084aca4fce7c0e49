package htmldom

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// ValidateSelector checks that selector is a well-formed CSS selector group.
func ValidateSelector(selector string) error {
	if _, err := cascadia.ParseGroup(selector); err != nil {
		return fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return nil
}

// SelectRoot returns the first element under doc matching the CSS selector.
// An empty selector selects <body>. The boolean is false when nothing
// matched.
func SelectRoot(doc *html.Node, selector string) (*html.Node, bool) {
	if selector == "" || selector == "body" {
		body := Body(doc)
		return body, body != nil
	}
	sel := goquery.NewDocumentFromNode(doc).Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return sel.Nodes[0], true
}
