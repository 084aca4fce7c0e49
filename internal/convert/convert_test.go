package convert

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/dgallion1/html2md/internal/htmldom"
	"github.com/dgallion1/html2md/internal/mdast"
	"golang.org/x/net/html"
)

// dump renders a tree compactly: Type "literal"{children}.
func dump(n *mdast.Node) string {
	var sb strings.Builder
	sb.WriteString(n.Type.String())
	if n.Literal != "" {
		sb.WriteString(" " + strconv.Quote(n.Literal))
	}
	if n.FirstChild != nil {
		sb.WriteString("{")
		for c := n.FirstChild; c != nil; c = c.Next {
			if c != n.FirstChild {
				sb.WriteString(", ")
			}
			sb.WriteString(dump(c))
		}
		sb.WriteString("}")
	}
	return sb.String()
}

func convertString(t *testing.T, src string) *mdast.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	ast, err := Document(doc)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	return ast
}

func TestDocument_Structure(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"paragraph", "<p>hello</p>", `Document{Paragraph{Text "hello"}}`},
		{"header", "<h2>Title</h2>", `Document{Header{Text "Title"}}`},
		{"blockquote and rule", "<blockquote><p>q</p></blockquote><hr>",
			`Document{BlockQuote{Paragraph{Text "q"}}, HorizontalRule}`},
		{"nested inline", "<p><strong><em>x</em></strong></p>",
			`Document{Paragraph{Strong{Emph{Text "x"}}}}`},
		{"b and i aliases", "<p><b>x</b><i>y</i></p>",
			`Document{Paragraph{Strong{Text "x"}, Emph{Text "y"}}}`},
		{"hard break", "<p>a <br> b</p>", `Document{Paragraph{Text "a", Hardbreak, Text "b"}}`},
		{"whitespace between blocks", "<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>\n",
			`Document{List{Item{Text "a"}, Item{Text "b"}}}`},
		{"empty paragraph", "<p>   </p>", `Document{Paragraph}`},
		{"link", `<p>see <a href="/u">here</a>.</p>`,
			`Document{Paragraph{Text "see ", Link{Text "here"}, Text "."}}`},
		{"inline code", "<p>use <code>x</code> now</p>",
			`Document{Paragraph{Text "use ", Code "x", Text " now"}}`},
		{"loose item", "<ul><li><p>a</p></li></ul>", `Document{List{Item{Paragraph{Text "a"}}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dump(convertString(t, tt.src))
			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestText_SoftbreakBetweenBlocks(t *testing.T) {
	ast := convertString(t, "<p>x</p>a\nb<p>y</p>")
	want := `Document{Paragraph{Text "x"}, Text "a", Softbreak, Text "b", Paragraph{Text "y"}}`
	if got := dump(ast); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestText_SoftbreakSkipsEmptyLines(t *testing.T) {
	ast := convertString(t, "<p>a\n\nb</p>")
	want := `Document{Paragraph{Text "a", Softbreak, Softbreak, Text "b"}}`
	if got := dump(ast); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestText_TrimmedFlankedByBlocks(t *testing.T) {
	ast := convertString(t, "<p>x</p>  \t hello world \n <p>y</p>")
	para := ast.FirstChild.Next
	if para.Type != mdast.Text || para.Literal != "hello world" {
		t.Fatalf("expected Text %q, got %s", "hello world", dump(para))
	}
}

func TestText_KeepsSpaceNextToInline(t *testing.T) {
	ast := convertString(t, "<p><i>one</i> space</p>")
	want := `Document{Paragraph{Emph{Text "one"}, Text " space"}}`
	if got := dump(ast); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	ast = convertString(t, "<p> lead <b>x</b> trail </p>")
	want = `Document{Paragraph{Text "lead ", Strong{Text "x"}, Text " trail"}}`
	if got := dump(ast); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestText_EmptyAfterTrimProducesNothing(t *testing.T) {
	ast := convertString(t, "<p>a</p>   <p>b</p>")
	if n := len(ast.Children()); n != 2 {
		t.Fatalf("expected 2 children, got %d: %s", n, dump(ast))
	}
}

func TestLink_DefaultsToEmptyStrings(t *testing.T) {
	ast := convertString(t, "<p><a>text</a></p>")
	link := ast.FirstChild.FirstChild
	if link.Type != mdast.Link {
		t.Fatalf("expected Link, got %s", link.Type)
	}
	if link.Destination != "" || link.Title != "" {
		t.Errorf("expected empty destination and title, got %q %q", link.Destination, link.Title)
	}

	ast = convertString(t, `<p><a href="/u" title="T">x</a></p>`)
	link = ast.FirstChild.FirstChild
	if link.Destination != "/u" || link.Title != "T" {
		t.Errorf("expected /u and T, got %q %q", link.Destination, link.Title)
	}
}

func TestImage_AltBecomesText(t *testing.T) {
	ast := convertString(t, `<p><img src="/i.png" alt="pic" title="T"></p>`)
	img := ast.FirstChild.FirstChild
	if got, want := dump(img), `Image{Text "pic"}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if img.Destination != "/i.png" || img.Title != "T" {
		t.Errorf("expected /i.png and T, got %q %q", img.Destination, img.Title)
	}

	ast = convertString(t, `<p><img></p>`)
	img = ast.FirstChild.FirstChild
	if img.FirstChild != nil {
		t.Errorf("expected no alt text child, got %s", dump(img))
	}
	if img.Destination != "" || img.Title != "" {
		t.Errorf("expected empty destination and title, got %q %q", img.Destination, img.Title)
	}
}

func TestHeader_Levels(t *testing.T) {
	for level := 1; level <= 9; level++ {
		tag := "h" + strconv.Itoa(level)
		ast := convertString(t, "<"+tag+">x</"+tag+">")
		h := ast.FirstChild
		if h.Type != mdast.Header || h.Level != level {
			t.Errorf("%s: expected Header level %d, got %s level %d", tag, level, h.Type, h.Level)
		}
	}
}

func TestList_Contract(t *testing.T) {
	ast := convertString(t, `<ol start="3"><li>a</li></ol>`)
	list := ast.FirstChild
	if got, want := dump(list), `List{Item{Text "a"}}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if list.ListType != mdast.ListOrdered || list.ListStart != 3 {
		t.Errorf("expected ordered/3, got %q/%d", list.ListType, list.ListStart)
	}

	ast = convertString(t, `<ul><li>a</li></ul>`)
	list = ast.FirstChild
	if list.ListType != mdast.ListBullet || list.ListStart != 0 {
		t.Errorf("expected bullet without start, got %q/%d", list.ListType, list.ListStart)
	}

	tests := []struct {
		src  string
		want int
	}{
		{`<ol><li>a</li></ol>`, 1},
		{`<ol start="x"><li>a</li></ol>`, 1},
		{`<ol start=" 7 "><li>a</li></ol>`, 7},
		{`<ol start="0"><li>a</li></ol>`, 0},
	}
	for _, tt := range tests {
		list := convertString(t, tt.src).FirstChild
		if list.ListStart != tt.want {
			t.Errorf("%s: expected start %d, got %d", tt.src, tt.want, list.ListStart)
		}
	}
}

func TestCode_NestedInPre(t *testing.T) {
	ast := convertString(t, `<pre><code class="language-rust">fn f(){}</code></pre>`)
	if got, want := dump(ast), `Document{CodeBlock "fn f(){}"}`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	if info := ast.FirstChild.Info; info != "rust" {
		t.Errorf("expected info rust, got %q", info)
	}
}

func TestCode_InfoFromClassList(t *testing.T) {
	tests := []struct {
		class string
		want  string
	}{
		{"", ""},
		{"highlight", ""},
		{"hl language-go extra", "go"},
		{"language-a language-b", "b"},
	}
	for _, tt := range tests {
		ast := convertString(t, `<pre><code class="`+tt.class+`">x</code></pre>`)
		block := ast.FirstChild
		if block.Type != mdast.CodeBlock {
			t.Fatalf("class %q: expected CodeBlock, got %s", tt.class, block.Type)
		}
		if block.Info != tt.want {
			t.Errorf("class %q: expected info %q, got %q", tt.class, tt.want, block.Info)
		}
	}
}

func TestCode_EmptyLiteralInitialized(t *testing.T) {
	ast := convertString(t, `<pre><code></code></pre>`)
	block := ast.FirstChild
	if block.Type != mdast.CodeBlock || block.Literal != "" || block.FirstChild != nil {
		t.Errorf("expected empty CodeBlock, got %s", dump(block))
	}

	ast = convertString(t, `<p><code></code></p>`)
	code := ast.FirstChild.FirstChild
	if code.Type != mdast.Code || code.Literal != "" {
		t.Errorf("expected empty Code, got %s", dump(code))
	}
}

func TestCode_TextIsNotTrimmedOrSplit(t *testing.T) {
	ast := convertString(t, "<pre><code>  a\n  b\n</code></pre>")
	if got := ast.FirstChild.Literal; got != "  a\n  b\n" {
		t.Errorf("expected verbatim literal, got %q", got)
	}
}

func TestRaw_BlockTableIsAtomic(t *testing.T) {
	ast := convertString(t, "<table><tr><td>x</td></tr></table>")
	want := `Document{HtmlBlock "<table><tbody><tr><td>x</td></tr></tbody></table>"}`
	if got := dump(ast); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	if n := ast.Count(); n != 2 {
		t.Errorf("expected 2 nodes, got %d", n)
	}
}

func TestRaw_InlineAndBlockContext(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"inline span", "<p>a <span>b</span> c</p>",
			`Document{Paragraph{Text "a ", Html "<span>b</span>", Text " c"}}`},
		{"span holding a block", "<span>a<div>b</div></span>",
			`Document{HtmlBlock "<span>a<div>b</div></span>"}`},
		{"div", `<div class="x"><p>y</p></div>`,
			`Document{HtmlBlock "<div class=\"x\"><p>y</p></div>"}`},
		{"sibling after raw is converted", "<div>x</div><p>after</p>",
			`Document{HtmlBlock "<div>x</div>", Paragraph{Text "after"}}`},
		{"comment", "<p>a<!-- note -->b</p>",
			`Document{Paragraph{Text "a", Html "<!-- note -->", Text "b"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dump(convertString(t, tt.src)); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

// sliceCursor replays a fixed sequence of steps.
type sliceCursor struct {
	steps   []htmldom.Step
	pos     int
	current htmldom.Step
}

func (c *sliceCursor) Next() (htmldom.Step, bool) {
	if c.pos >= len(c.steps) {
		return htmldom.Step{}, false
	}
	c.current = c.steps[c.pos]
	c.pos++
	return c.current, true
}

func (c *sliceCursor) Current() htmldom.Step { return c.current }

func (c *sliceCursor) SkipSubtree(n *html.Node) {
	if c.current.Node == n && !c.current.Entering {
		return
	}
	for c.pos < len(c.steps) {
		st := c.steps[c.pos]
		c.pos++
		if st.Node == n && !st.Entering {
			c.current = st
			return
		}
	}
	panic(&htmldom.ProtocolError{Msg: "skip target not found"})
}

func recordSteps(t *testing.T, src string) []htmldom.Step {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	w := htmldom.NewWalker(htmldom.Body(doc))
	var steps []htmldom.Step
	for {
		st, ok := w.Next()
		if !ok {
			return steps
		}
		steps = append(steps, st)
	}
}

func TestConvertSubtree_WithRecordedCursor(t *testing.T) {
	c := &sliceCursor{steps: recordSteps(t, "<div>x</div><p>y</p>")}
	step, _ := c.Next()
	s, err := ConvertSubtree(step, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Category() != CategoryDocument {
		t.Errorf("expected document category, got %s", s.Category())
	}
	ast, err := s.Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `Document{HtmlBlock "<div>x</div>", Paragraph{Text "y"}}`
	if got := dump(ast); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	if c.pos != len(c.steps) {
		t.Errorf("expected cursor drained, %d of %d steps consumed", c.pos, len(c.steps))
	}
}

func TestConvertSubtree_ProtocolViolations(t *testing.T) {
	steps := recordSteps(t, "<p>a</p>")

	truncated := &sliceCursor{steps: steps[:len(steps)-1]}
	step, _ := truncated.Next()
	if _, err := ConvertSubtree(step, truncated); !errors.Is(err, ErrProtocol) {
		t.Errorf("truncated cursor: expected ErrProtocol, got %v", err)
	}

	// Drop the paragraph's exit so the body's exit arrives while inside <p>.
	mismatched := append([]htmldom.Step{}, steps[:4]...)
	mismatched = append(mismatched, steps[5])
	c := &sliceCursor{steps: mismatched}
	step, _ = c.Next()
	if _, err := ConvertSubtree(step, c); !errors.Is(err, ErrProtocol) {
		t.Errorf("mismatched exit: expected ErrProtocol, got %v", err)
	}
}

func TestConvertSubtree_RejectsExitingStep(t *testing.T) {
	steps := recordSteps(t, "<p>a</p>")
	last := steps[len(steps)-1]
	if _, err := ConvertSubtree(last, &sliceCursor{}); !errors.Is(err, ErrNotEntering) {
		t.Errorf("expected ErrNotEntering, got %v", err)
	}
}

func TestBuild_SingleUse(t *testing.T) {
	doc, _ := html.Parse(strings.NewReader("<p>a</p>"))
	w := htmldom.NewWalker(htmldom.Body(doc))
	step, _ := w.Next()
	s, err := ConvertSubtree(step, w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Build(nil); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := s.Build(nil); !errors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("expected ErrAlreadyBuilt, got %v", err)
	}
}

func TestDocument_NoBody(t *testing.T) {
	frag := &html.Node{Type: html.ElementNode, Data: "div"}
	if _, err := Document(frag); !errors.Is(err, ErrNoBody) {
		t.Errorf("expected ErrNoBody, got %v", err)
	}
}

func TestConverter_Selector(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<nav><p>menu</p></nav><main><p>x</p></main>`))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ast, err := NewConverter("main", log).Convert(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := dump(ast), `Document{Paragraph{Text "x"}}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	ast, err = NewConverter("article", log).Convert(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `Document{HtmlBlock "<nav><p>menu</p></nav>", HtmlBlock "<main><p>x</p></main>"}`
	if got := dump(ast); got != want {
		t.Errorf("fallback: got  %s\nwant %s", got, want)
	}
}

func TestPreText_RendersInXML(t *testing.T) {
	ast := convertString(t, "<pre>hello world</pre>")
	if got, want := dump(ast), `Document{CodeBlock{Text "hello world"}}`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	if xml := mdast.XMLString(ast); !strings.Contains(xml, "<text>hello world</text>") {
		t.Errorf("code block text missing from xml:\n%s", xml)
	}

	ast = convertString(t, "<p><code>a<em>b</em>c</code></p>")
	if xml := mdast.XMLString(ast); !strings.Contains(xml, "<emph>b</emph>") {
		t.Errorf("emphasis inside code missing from xml:\n%s", xml)
	}
}

func TestCode_TextNodesAccumulateIntoLiteral(t *testing.T) {
	ast := convertString(t, "<p><code>a<em>b</em>c</code></p>")
	if got, want := dump(ast), `Document{Paragraph{Code "ac"{Emph "b"}}}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
