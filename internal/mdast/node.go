// Package mdast is a CommonMark-style abstract syntax tree.
package mdast

// NodeType identifies the kind of an AST node.
type NodeType int

const (
	Document NodeType = iota
	Paragraph
	Header
	Item
	List
	BlockQuote
	CodeBlock
	Code
	Html
	HtmlBlock
	Text
	Softbreak
	Hardbreak
	Emph
	Strong
	Link
	Image
	HorizontalRule
)

var typeNames = [...]string{
	Document:       "Document",
	Paragraph:      "Paragraph",
	Header:         "Header",
	Item:           "Item",
	List:           "List",
	BlockQuote:     "BlockQuote",
	CodeBlock:      "CodeBlock",
	Code:           "Code",
	Html:           "Html",
	HtmlBlock:      "HtmlBlock",
	Text:           "Text",
	Softbreak:      "Softbreak",
	Hardbreak:      "Hardbreak",
	Emph:           "Emph",
	Strong:         "Strong",
	Link:           "Link",
	Image:          "Image",
	HorizontalRule: "HorizontalRule",
}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Unknown"
	}
	return typeNames[t]
}

// ParseNodeType maps a type name such as "CodeBlock" back to its NodeType.
func ParseNodeType(name string) (NodeType, bool) {
	for i, n := range typeNames {
		if n == name {
			return NodeType(i), true
		}
	}
	return 0, false
}

// IsContainer reports whether nodes of this type may hold children.
// Walkers emit an exiting event only for containers.
func (t NodeType) IsContainer() bool {
	switch t {
	case Document, Paragraph, Header, Item, List, BlockQuote, Emph, Strong, Link, Image:
		return true
	}
	return false
}

// IsInline reports whether the type renders within a line of text.
func (t NodeType) IsInline() bool {
	switch t {
	case Code, Html, Text, Softbreak, Hardbreak, Emph, Strong, Link, Image:
		return true
	}
	return false
}

// ListType is the marker kind of a List node.
type ListType string

const (
	ListNone    ListType = ""
	ListBullet  ListType = "bullet"
	ListOrdered ListType = "ordered"
)

// Node is a single AST node. Zero-valued string fields are the empty string,
// so Destination and Title of links and images are never absent.
type Node struct {
	Type        NodeType
	Literal     string
	Destination string
	Title       string
	Info        string
	Level       int
	ListType    ListType
	ListStart   int

	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node
}

// NewNode allocates a detached node of the given type.
func NewNode(t NodeType) *Node {
	return &Node{Type: t}
}

// NewText allocates a Text node with the given literal.
func NewText(literal string) *Node {
	return &Node{Type: Text, Literal: literal}
}

// AppendChild unlinks child from its current position and appends it as the
// last child of n.
func (n *Node) AppendChild(child *Node) {
	child.Unlink()
	child.Parent = n
	if n.LastChild != nil {
		n.LastChild.Next = child
		child.Prev = n.LastChild
		n.LastChild = child
	} else {
		n.FirstChild = child
		n.LastChild = child
	}
}

// PrependChild unlinks child and inserts it as the first child of n.
func (n *Node) PrependChild(child *Node) {
	child.Unlink()
	child.Parent = n
	if n.FirstChild != nil {
		n.FirstChild.Prev = child
		child.Next = n.FirstChild
		n.FirstChild = child
	} else {
		n.FirstChild = child
		n.LastChild = child
	}
}

// InsertBefore unlinks sibling and places it immediately before n.
func (n *Node) InsertBefore(sibling *Node) {
	sibling.Unlink()
	sibling.Prev = n.Prev
	if sibling.Prev != nil {
		sibling.Prev.Next = sibling
	}
	sibling.Next = n
	n.Prev = sibling
	sibling.Parent = n.Parent
	if sibling.Prev == nil && sibling.Parent != nil {
		sibling.Parent.FirstChild = sibling
	}
}

// InsertAfter unlinks sibling and places it immediately after n.
func (n *Node) InsertAfter(sibling *Node) {
	sibling.Unlink()
	sibling.Next = n.Next
	if sibling.Next != nil {
		sibling.Next.Prev = sibling
	}
	sibling.Prev = n
	n.Next = sibling
	sibling.Parent = n.Parent
	if sibling.Next == nil && sibling.Parent != nil {
		sibling.Parent.LastChild = sibling
	}
}

// Unlink detaches n from its parent and siblings. Its own children stay.
func (n *Node) Unlink() {
	if n.Prev != nil {
		n.Prev.Next = n.Next
	} else if n.Parent != nil {
		n.Parent.FirstChild = n.Next
	}
	if n.Next != nil {
		n.Next.Prev = n.Prev
	} else if n.Parent != nil {
		n.Parent.LastChild = n.Prev
	}
	n.Parent = nil
	n.Next = nil
	n.Prev = nil
}

// Children returns the direct children of n in order.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.Next {
		out = append(out, c)
	}
	return out
}

// Count returns the number of nodes in the subtree rooted at n, n included.
func (n *Node) Count() int {
	total := 1
	for c := n.FirstChild; c != nil; c = c.Next {
		total += c.Count()
	}
	return total
}
