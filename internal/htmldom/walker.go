// Package htmldom walks and inspects golang.org/x/net/html trees.
package htmldom

import (
	"fmt"

	"golang.org/x/net/html"
)

// Step is one traversal event: the first visit to a node or its final
// departure.
type Step struct {
	Node     *html.Node
	Entering bool
}

// ProtocolError reports misuse of the traversal protocol. It is raised with
// panic because continuing would corrupt whatever is being built from the
// walk.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string {
	return "htmldom: " + e.Msg
}

func protocolPanic(format string, args ...any) {
	panic(&ProtocolError{Msg: fmt.Sprintf(format, args...)})
}

// Walker is a pre-order cursor over the subtree rooted at a node. Every node,
// leaf or not, produces one entering and one exiting step.
type Walker struct {
	root     *html.Node
	next     *html.Node
	entering bool
	current  Step
}

// NewWalker returns a cursor positioned before the entering step of root.
func NewWalker(root *html.Node) *Walker {
	return &Walker{root: root, next: root, entering: true}
}

// Next advances and returns the new current step. It returns false once the
// exit of the root has been consumed.
func (w *Walker) Next() (Step, bool) {
	n := w.next
	if n == nil {
		return Step{}, false
	}
	step := Step{Node: n, Entering: w.entering}

	switch {
	case w.entering && n.FirstChild != nil:
		w.next = n.FirstChild
	case w.entering:
		w.entering = false
	case n == w.root:
		w.next = nil
	case n.NextSibling != nil:
		w.next = n.NextSibling
		w.entering = true
	default:
		w.next = n.Parent
	}

	w.current = step
	return step, true
}

// Current returns the step most recently returned by Next.
func (w *Walker) Current() Step {
	return w.current
}

// SkipSubtree treats n as already exited: the exit step of n becomes current
// and the following Next observes whatever comes after n. n must be the root
// or a descendant of it.
func (w *Walker) SkipSubtree(n *html.Node) {
	if !w.contains(n) {
		protocolPanic("skip target <%s> is outside the walked tree", Name(n))
	}
	w.next = n
	w.entering = false
	w.Next()
}

func (w *Walker) contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == w.root {
			return true
		}
	}
	return false
}
