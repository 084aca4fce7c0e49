package convert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/html2md/internal/htmldom"
	"github.com/dgallion1/html2md/internal/mdast"
	"golang.org/x/net/html"
)

var (
	// ErrProtocol is returned when the cursor breaks the entering/exiting
	// contract, e.g. it runs dry before a node's exit.
	ErrProtocol = errors.New("cursor protocol violation")
	// ErrNotEntering is returned when conversion starts from an exiting step.
	ErrNotEntering = errors.New("conversion must start from an entering step")
	// ErrAlreadyBuilt is returned by a second Build of the same strategy.
	ErrAlreadyBuilt = errors.New("strategy already built")
)

// Cursor is the traversal the discovery pass consumes. htmldom.Walker is the
// production implementation.
type Cursor interface {
	// Next advances and returns the new current step; false when exhausted.
	Next() (htmldom.Step, bool)
	// Current returns the most recently returned step.
	Current() htmldom.Step
	// SkipSubtree moves past the exit of n without visiting its remaining
	// descendants.
	SkipSubtree(n *html.Node)
}

// Strategy is the captured conversion of one DOM node and its subtree.
type Strategy struct {
	category Category
	node     *html.Node
	level    int
	children []*Strategy
	raw      *mdast.Node
	built    bool
}

// Category returns the category the node was classified as.
func (s *Strategy) Category() Category { return s.category }

// ConvertSubtree captures the subtree whose entering step is step, draining
// c up to and including that node's exit.
func ConvertSubtree(step htmldom.Step, c Cursor) (s *Strategy, err error) {
	if !step.Entering {
		return nil, ErrNotEntering
	}
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*htmldom.ProtocolError)
			if !ok {
				panic(r)
			}
			s, err = nil, fmt.Errorf("%w: %s", ErrProtocol, perr.Msg)
		}
	}()
	return discover(step, c), nil
}

// discover classifies the node of step and captures its subtree. On return
// the cursor's current step is the node's exit.
func discover(step htmldom.Step, c Cursor) *Strategy {
	category, level := Classify(step.Node)
	s := &Strategy{category: category, node: step.Node, level: level}

	if category == CategoryRaw {
		s.raw = captureRaw(step.Node, c)
		return s
	}

	for {
		next, ok := c.Next()
		if !ok {
			panic(&htmldom.ProtocolError{Msg: fmt.Sprintf("cursor exhausted before exit of %s", htmldom.Name(step.Node))})
		}
		if !next.Entering {
			if next.Node != step.Node {
				panic(&htmldom.ProtocolError{Msg: fmt.Sprintf("exit of %s observed while inside %s",
					htmldom.Name(next.Node), htmldom.Name(step.Node))})
			}
			return s
		}
		s.children = append(s.children, discover(next, c))
	}
}

// Build materializes the AST for the captured subtree, attaching it to
// parent when one is given. It returns the node it allocated, which is nil
// for strategies that only write into parent.
func (s *Strategy) Build(parent *mdast.Node) (*mdast.Node, error) {
	if s.built {
		return nil, ErrAlreadyBuilt
	}
	return s.build(parent), nil
}

func (s *Strategy) build(parent *mdast.Node) *mdast.Node {
	s.built = true
	switch s.category {
	case CategoryDocument:
		return s.buildContainer(mdast.Document, parent)
	case CategoryParagraph:
		return s.buildContainer(mdast.Paragraph, parent)
	case CategoryItem:
		return s.buildContainer(mdast.Item, parent)
	case CategoryBlockQuote:
		return s.buildContainer(mdast.BlockQuote, parent)
	case CategoryCodeBlock:
		return s.buildContainer(mdast.CodeBlock, parent)
	case CategoryHorizontalRule:
		return s.buildContainer(mdast.HorizontalRule, parent)
	case CategoryHardbreak:
		return s.buildContainer(mdast.Hardbreak, parent)
	case CategoryLink:
		return s.buildLink(parent)
	case CategoryHeader:
		n := s.buildContainer(mdast.Header, parent)
		n.Level = s.level
		return n
	case CategoryImage:
		return s.buildImage(parent)
	case CategoryList:
		return s.buildList(parent)
	case CategoryEmph:
		return s.buildInline(mdast.Emph, parent)
	case CategoryStrong:
		return s.buildInline(mdast.Strong, parent)
	case CategoryText:
		return s.buildText(parent)
	case CategoryCode:
		return s.buildCode(parent)
	default:
		return s.buildRaw(parent)
	}
}

func (s *Strategy) buildChildren(parent *mdast.Node) {
	for _, c := range s.children {
		c.build(parent)
	}
}

func (s *Strategy) buildContainer(t mdast.NodeType, parent *mdast.Node) *mdast.Node {
	n := mdast.NewNode(t)
	if parent != nil {
		parent.AppendChild(n)
	}
	s.buildChildren(n)
	return n
}

func (s *Strategy) buildLink(parent *mdast.Node) *mdast.Node {
	n := s.buildContainer(mdast.Link, parent)
	n.Destination = htmldom.AttrOr(s.node, "href", "")
	n.Title = htmldom.AttrOr(s.node, "title", "")
	return n
}

func (s *Strategy) buildImage(parent *mdast.Node) *mdast.Node {
	n := s.buildContainer(mdast.Image, parent)
	if alt, ok := htmldom.Attr(s.node, "alt"); ok {
		n.AppendChild(mdast.NewText(alt))
	}
	n.Destination = htmldom.AttrOr(s.node, "src", "")
	n.Title = htmldom.AttrOr(s.node, "title", "")
	return n
}

func (s *Strategy) buildList(parent *mdast.Node) *mdast.Node {
	n := s.buildContainer(mdast.List, parent)
	switch htmldom.Name(s.node) {
	case "ul":
		n.ListType = mdast.ListBullet
	case "ol":
		n.ListType = mdast.ListOrdered
		n.ListStart = 1
		if v, ok := htmldom.Attr(s.node, "start"); ok {
			if start, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				n.ListStart = start
			}
		}
	}
	return n
}

func (s *Strategy) buildInline(t mdast.NodeType, parent *mdast.Node) *mdast.Node {
	n := mdast.NewNode(t)
	s.buildChildren(n)
	mdast.InsertInline([]*mdast.Node{n}, parent)
	return n
}
