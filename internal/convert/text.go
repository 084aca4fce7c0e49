package convert

import (
	"strings"
	"unicode"

	"github.com/dgallion1/html2md/internal/htmldom"
	"github.com/dgallion1/html2md/internal/mdast"
	"golang.org/x/net/html"
)

// softbreakMarker separates lines that become Softbreak nodes.
const softbreakMarker = "\n"

// lineBreakingInline lists inline-classified siblings that still end a line,
// so the neighbouring text is trimmed as if next to a block.
var lineBreakingInline = map[string]bool{
	"br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "h7": true, "h8": true, "h9": true,
}

func (s *Strategy) buildText(parent *mdast.Node) *mdast.Node {
	if htmldom.HasAncestor(s.node, "code") {
		if parent != nil {
			parent.Literal += s.node.Data
		}
		return nil
	}

	text := trimText(s.node)
	if text == "" {
		return nil
	}

	lines := strings.Split(text, softbreakMarker)
	nodes := make([]*mdast.Node, 0, 2*len(lines))
	for i, line := range lines {
		if line != "" {
			nodes = append(nodes, mdast.NewText(line))
		}
		if i < len(lines)-1 {
			nodes = append(nodes, mdast.NewNode(mdast.Softbreak))
		}
	}
	return mdast.InsertInline(nodes, parent)
}

// trimText applies the CommonMark space rule: whitespace next to a block
// boundary is dropped, whitespace next to an inline sibling is kept.
// <i>one</i> space keeps its leading space.
func trimText(n *html.Node) string {
	text := n.Data
	if trimsAgainst(n.PrevSibling) {
		text = strings.TrimLeftFunc(text, unicode.IsSpace)
	}
	if trimsAgainst(n.NextSibling) {
		text = strings.TrimRightFunc(text, unicode.IsSpace)
	}
	return text
}

func trimsAgainst(sibling *html.Node) bool {
	return sibling == nil || !htmldom.IsInline(sibling) || lineBreakingInline[htmldom.Name(sibling)]
}
