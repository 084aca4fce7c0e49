package roundtrip

import (
	"bytes"

	"github.com/dgallion1/html2md/internal/mdast"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// FromGoldmark maps a goldmark AST onto mdast. src is the Markdown source
// the AST was parsed from.
func FromGoldmark(n ast.Node, src []byte) *mdast.Node {
	nodes := fromGoldmark(n, src)
	if len(nodes) == 0 {
		return mdast.NewNode(mdast.Document)
	}
	resolveText(nodes[0])
	return nodes[0]
}

// resolveText turns source text into literal text the way a renderer does:
// backslash escapes are dropped and entity references decoded. Adjacent Text
// runs are joined first since goldmark may split an escape or reference
// across segments. Code literals are left as written.
func resolveText(n *mdast.Node) {
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.Type != mdast.Text {
			resolveText(c)
			continue
		}
		for c.Next != nil && c.Next.Type == mdast.Text {
			c.Literal += c.Next.Literal
			c.Next.Unlink()
		}
		lit := util.UnescapePunctuations([]byte(c.Literal))
		lit = util.ResolveNumericReferences(lit)
		c.Literal = string(util.ResolveEntityNames(lit))
	}
}

func fromGoldmark(n ast.Node, src []byte) []*mdast.Node {
	var out *mdast.Node
	switch v := n.(type) {
	case *ast.Document:
		out = mdast.NewNode(mdast.Document)
	case *ast.TextBlock:
		// Tight list items wrap their text in a TextBlock that renders as
		// nothing.
		return children(n, src)
	case *ast.Paragraph:
		out = mdast.NewNode(mdast.Paragraph)
	case *ast.Heading:
		out = mdast.NewNode(mdast.Header)
		out.Level = v.Level
	case *ast.ThematicBreak:
		return []*mdast.Node{mdast.NewNode(mdast.HorizontalRule)}
	case *ast.Blockquote:
		out = mdast.NewNode(mdast.BlockQuote)
	case *ast.List:
		out = mdast.NewNode(mdast.List)
		out.ListType = mdast.ListBullet
		if v.IsOrdered() {
			out.ListType = mdast.ListOrdered
			out.ListStart = v.Start
		}
	case *ast.ListItem:
		out = mdast.NewNode(mdast.Item)
	case *ast.CodeBlock:
		cb := mdast.NewNode(mdast.CodeBlock)
		cb.Literal = linesValue(v.Lines(), src)
		return []*mdast.Node{cb}
	case *ast.FencedCodeBlock:
		cb := mdast.NewNode(mdast.CodeBlock)
		cb.Info = string(v.Language(src))
		cb.Literal = linesValue(v.Lines(), src)
		return []*mdast.Node{cb}
	case *ast.HTMLBlock:
		hb := mdast.NewNode(mdast.HtmlBlock)
		literal := linesValue(v.Lines(), src)
		if v.HasClosure() {
			literal += string(v.ClosureLine.Value(src))
		}
		hb.Literal = literal
		return []*mdast.Node{hb}
	case *ast.Text:
		nodes := []*mdast.Node{mdast.NewText(string(v.Value(src)))}
		switch {
		case v.HardLineBreak():
			nodes = append(nodes, mdast.NewNode(mdast.Hardbreak))
		case v.SoftLineBreak():
			nodes = append(nodes, mdast.NewNode(mdast.Softbreak))
		}
		return nodes
	case *ast.String:
		return []*mdast.Node{mdast.NewText(string(v.Value))}
	case *ast.CodeSpan:
		code := mdast.NewNode(mdast.Code)
		code.Literal = plainText(v, src)
		return []*mdast.Node{code}
	case *ast.Emphasis:
		out = mdast.NewNode(mdast.Emph)
		if v.Level >= 2 {
			out = mdast.NewNode(mdast.Strong)
		}
	case *ast.Link:
		out = mdast.NewNode(mdast.Link)
		out.Destination = string(v.Destination)
		out.Title = string(v.Title)
	case *ast.Image:
		out = mdast.NewNode(mdast.Image)
		out.Destination = string(v.Destination)
		out.Title = string(v.Title)
	case *ast.AutoLink:
		link := mdast.NewNode(mdast.Link)
		link.Destination = string(v.URL(src))
		link.AppendChild(mdast.NewText(string(v.Label(src))))
		return []*mdast.Node{link}
	case *ast.RawHTML:
		raw := mdast.NewNode(mdast.Html)
		raw.Literal = string(v.Segments.Value(src))
		return []*mdast.Node{raw}
	default:
		return children(n, src)
	}

	for _, c := range children(n, src) {
		out.AppendChild(c)
	}
	return []*mdast.Node{out}
}

func children(n ast.Node, src []byte) []*mdast.Node {
	var out []*mdast.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, fromGoldmark(c, src)...)
	}
	return out
}

func linesValue(lines *text.Segments, src []byte) string {
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

// plainText concatenates the text and string leaves under n.
func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			buf.Write(v.Value(src))
		case *ast.String:
			buf.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
