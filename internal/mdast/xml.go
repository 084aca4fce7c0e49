package mdast

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

var xmlTags = map[NodeType]string{
	Document:       "document",
	Paragraph:      "paragraph",
	Header:         "header",
	Item:           "item",
	List:           "list",
	BlockQuote:     "block_quote",
	CodeBlock:      "code_block",
	Code:           "code",
	Html:           "html",
	HtmlBlock:      "html_block",
	Text:           "text",
	Softbreak:      "softbreak",
	Hardbreak:      "hardbreak",
	Emph:           "emph",
	Strong:         "strong",
	Link:           "link",
	Image:          "image",
	HorizontalRule: "horizontal_rule",
}

// RenderXML writes the subtree rooted at root in the CommonMark XML format.
func RenderXML(w io.Writer, root *Node) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	bw.WriteString("<!DOCTYPE document SYSTEM \"CommonMark.dtd\">\n")

	depth := 0
	walker := NewWalker(root)
	for {
		ev, ok := walker.Next()
		if !ok {
			break
		}
		n := ev.Node
		tag := xmlTags[n.Type]
		container := n.Type.IsContainer()

		if !ev.Entering {
			depth--
			indent(bw, depth)
			fmt.Fprintf(bw, "</%s>\n", tag)
			continue
		}

		indent(bw, depth)
		bw.WriteString("<" + tag)
		if n == root && n.Type == Document {
			bw.WriteString(` xmlns="http://commonmark.org/xml/1.0"`)
		}
		for _, a := range xmlAttrs(n) {
			fmt.Fprintf(bw, ` %s="%s"`, a[0], xmlEscaper.Replace(a[1]))
		}

		switch {
		case n.FirstChild != nil:
			bw.WriteString(">" + xmlEscaper.Replace(n.Literal) + "\n")
			depth++
		case n.Literal != "":
			fmt.Fprintf(bw, ">%s</%s>\n", xmlEscaper.Replace(n.Literal), tag)
		default:
			bw.WriteString(" />\n")
		}
		if container && n.FirstChild == nil {
			// The walker still emits the exit of an empty container.
			walker.Next()
		}
	}
	return bw.Flush()
}

// XMLString renders root as CommonMark XML and returns it as a string.
func XMLString(root *Node) string {
	var sb strings.Builder
	_ = RenderXML(&sb, root)
	return sb.String()
}

func xmlAttrs(n *Node) [][2]string {
	var attrs [][2]string
	switch n.Type {
	case Header:
		attrs = append(attrs, [2]string{"level", strconv.Itoa(n.Level)})
	case List:
		attrs = append(attrs, [2]string{"type", string(n.ListType)})
		if n.ListType == ListOrdered {
			attrs = append(attrs, [2]string{"start", strconv.Itoa(n.ListStart)})
		}
	case Link, Image:
		attrs = append(attrs, [2]string{"destination", n.Destination}, [2]string{"title", n.Title})
	case CodeBlock:
		if n.Info != "" {
			attrs = append(attrs, [2]string{"info", n.Info})
		}
	}
	return attrs
}

func indent(w *bufio.Writer, depth int) {
	for range depth {
		w.WriteString("  ")
	}
}
