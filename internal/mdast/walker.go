package mdast

// Event is one step of a pre-order walk.
type Event struct {
	Node     *Node
	Entering bool
}

// Walker iterates a subtree in pre-order. Containers, and any other node that
// has children, produce an entering and an exiting event; childless leaves
// produce a single entering event.
type Walker struct {
	root     *Node
	current  *Node
	entering bool
}

// NewWalker returns a walker positioned at root.
func NewWalker(root *Node) *Walker {
	return &Walker{root: root, current: root, entering: true}
}

// Next returns the next event, or false once the walk is complete.
func (w *Walker) Next() (Event, bool) {
	cur := w.current
	if cur == nil {
		return Event{}, false
	}
	entering := w.entering
	switch {
	case entering && hasExit(cur):
		if cur.FirstChild != nil {
			w.current = cur.FirstChild
			w.entering = true
		} else {
			w.entering = false
		}
	case cur == w.root:
		w.current = nil
	case cur.Next == nil:
		w.current = cur.Parent
		w.entering = false
	default:
		w.current = cur.Next
		w.entering = true
	}

	return Event{Node: cur, Entering: entering}, true
}

// ResumeAt repositions the walker so the next event is (n, entering).
func (w *Walker) ResumeAt(n *Node, entering bool) {
	w.current = n
	w.entering = entering
}

// hasExit reports whether the walk emits an exiting event for n. A CodeBlock
// built from <pre> text, or a Code with inline markup, has children too.
func hasExit(n *Node) bool {
	return n.Type.IsContainer() || n.FirstChild != nil
}
