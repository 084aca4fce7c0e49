package convert

import (
	"strings"

	"github.com/dgallion1/html2md/internal/htmldom"
	"github.com/dgallion1/html2md/internal/mdast"
	"golang.org/x/net/html"
)

const languagePrefix = "language-"

// buildCode handles <code>. Directly under a <pre> the CodeBlock already
// exists, so it is enriched in place and nil is returned; anywhere else an
// inline Code node is allocated.
func (s *Strategy) buildCode(parent *mdast.Node) *mdast.Node {
	var code *mdast.Node
	if parent != nil && parent.Type == mdast.CodeBlock {
		enrichCodeBlock(s.node, parent)
	} else {
		code = mdast.NewNode(mdast.Code)
		if parent != nil {
			parent.AppendChild(code)
		}
		code.Literal = ""
		enrichCodeBlock(s.node, code)
	}

	target := code
	if target == nil {
		target = parent
	}
	s.buildChildren(target)
	return code
}

// enrichCodeBlock copies the language-* class into Info and resets Literal.
// Only CodeBlock targets are touched.
func enrichCodeBlock(codeTag *html.Node, block *mdast.Node) {
	if block.Type != mdast.CodeBlock || !htmldom.IsElement(codeTag) {
		return
	}
	info := ""
	for _, class := range htmldom.Classes(codeTag) {
		if lang, ok := strings.CutPrefix(class, languagePrefix); ok {
			info = lang
		}
	}
	block.Info = info
	block.Literal = ""
}
