// Package roundtrip checks the converter against a Markdown reference: the
// Markdown is parsed by goldmark, rendered to HTML, converted back to an AST
// and the two trees are compared.
package roundtrip

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/html2md/internal/convert"
	"github.com/dgallion1/html2md/internal/mdast"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Divergence is one difference between the reference and converted trees.
type Divergence struct {
	Path     string `json:"path"`
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

func (d Divergence) String() string {
	return fmt.Sprintf("%s: %s expected %q, got %q", d.Path, d.Field, d.Expected, d.Actual)
}

// Report is the outcome of a round trip.
type Report struct {
	Matched     bool         `json:"matched"`
	HTML        string       `json:"html"`
	Expected    *mdast.Node  `json:"expected"`
	Actual      *mdast.Node  `json:"actual"`
	Divergences []Divergence `json:"divergences,omitempty"`
}

// The reference renderer keeps raw HTML so it reaches the converter.
var reference = goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))

// Check round-trips markdown through HTML and reports where the converted
// AST differs from goldmark's.
func Check(markdown []byte) (*Report, error) {
	root := reference.Parser().Parse(text.NewReader(markdown))

	var rendered bytes.Buffer
	if err := reference.Renderer().Render(&rendered, markdown, root); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	doc, err := html.Parse(bytes.NewReader(rendered.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}
	actual, err := convert.Document(doc)
	if err != nil {
		return nil, fmt.Errorf("convert rendered html: %w", err)
	}

	expected := Normalize(FromGoldmark(root, markdown))
	actual = Normalize(actual)
	divergences := Compare(expected, actual)
	return &Report{
		Matched:     len(divergences) == 0,
		HTML:        rendered.String(),
		Expected:    expected,
		Actual:      actual,
		Divergences: divergences,
	}, nil
}

// Normalize rewrites root in place so equivalent trees compare equal:
// adjacent Text nodes are merged and Image content becomes one Text node.
func Normalize(root *mdast.Node) *mdast.Node {
	if root == nil {
		return nil
	}
	if root.Type == mdast.Image && root.FirstChild != nil {
		alt := flatText(root)
		for root.FirstChild != nil {
			root.FirstChild.Unlink()
		}
		root.AppendChild(mdast.NewText(alt))
		return root
	}
	for c := root.FirstChild; c != nil; c = c.Next {
		for c.Type == mdast.Text && c.Next != nil && c.Next.Type == mdast.Text {
			c.Literal += c.Next.Literal
			c.Next.Unlink()
		}
		Normalize(c)
	}
	return root
}

func flatText(n *mdast.Node) string {
	var sb strings.Builder
	w := mdast.NewWalker(n)
	for {
		ev, ok := w.Next()
		if !ok {
			return sb.String()
		}
		if ev.Entering && ev.Node != n {
			sb.WriteString(ev.Node.Literal)
		}
	}
}

// Compare walks both trees in lockstep. Walking stops at the first type or
// phase mismatch since the remaining events no longer line up.
func Compare(expected, actual *mdast.Node) []Divergence {
	var out []Divergence
	ew, aw := mdast.NewWalker(expected), mdast.NewWalker(actual)
	for {
		ee, eok := ew.Next()
		ae, aok := aw.Next()
		switch {
		case !eok && !aok:
			return out
		case !eok:
			return append(out, Divergence{Path: path(ae.Node), Field: "node", Expected: "", Actual: ae.Node.Type.String()})
		case !aok:
			return append(out, Divergence{Path: path(ee.Node), Field: "node", Expected: ee.Node.Type.String(), Actual: ""})
		}

		e, a := ee.Node, ae.Node
		if e.Type != a.Type {
			return append(out, Divergence{Path: path(e), Field: "type", Expected: e.Type.String(), Actual: a.Type.String()})
		}
		if ee.Entering != ae.Entering {
			return append(out, Divergence{Path: path(e), Field: "entering",
				Expected: strconv.FormatBool(ee.Entering), Actual: strconv.FormatBool(ae.Entering)})
		}
		if !ee.Entering {
			continue
		}
		out = append(out, compareNode(e, a)...)
	}
}

func compareNode(e, a *mdast.Node) []Divergence {
	var out []Divergence
	diff := func(field, expected, actual string) {
		if expected != actual {
			out = append(out, Divergence{Path: path(e), Field: field, Expected: expected, Actual: actual})
		}
	}

	diff("level", strconv.Itoa(e.Level), strconv.Itoa(a.Level))
	diff("title", e.Title, a.Title)
	diff("destination", e.Destination, a.Destination)
	if e.Type == mdast.Html || e.Type == mdast.HtmlBlock {
		diff("literal", canonicalMarkup(e.Literal), canonicalMarkup(a.Literal))
	} else {
		diff("literal", e.Literal, a.Literal)
	}
	info, _, _ := strings.Cut(e.Info, " ")
	diff("info", info, a.Info)
	if e.Type == mdast.List {
		diff("list_type", string(e.ListType), string(a.ListType))
		diff("list_start", strconv.Itoa(e.ListStart), strconv.Itoa(a.ListStart))
	}
	return out
}

// canonicalMarkup re-serializes an HTML fragment so formatting differences
// such as quoting or trailing newlines do not count.
func canonicalMarkup(s string) string {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return strings.TrimSpace(s)
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return strings.TrimSpace(s)
		}
	}
	return strings.TrimSpace(buf.String())
}

// path names n by its ancestry, e.g. Document/List[1]/Item[0].
func path(n *mdast.Node) string {
	var parts []string
	for ; n != nil; n = n.Parent {
		if n.Parent == nil {
			parts = append(parts, n.Type.String())
			break
		}
		idx := 0
		for s := n.Prev; s != nil; s = s.Prev {
			idx++
		}
		parts = append(parts, fmt.Sprintf("%s[%d]", n.Type, idx))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
