package mdast

// InsertInline appends nodes to container in order. A Text node that lands
// right after a Text child is merged into it instead of being appended.
// It returns the last node inserted or merged into, or nil when nothing was
// inserted.
func InsertInline(nodes []*Node, container *Node) *Node {
	if container == nil {
		return nil
	}
	var last *Node
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if prev := container.LastChild; n.Type == Text && prev != nil && prev.Type == Text {
			prev.Literal += n.Literal
			last = prev
			continue
		}
		container.AppendChild(n)
		last = n
	}
	return last
}
