package mdast

import "encoding/json"

type jsonNode struct {
	Type        string      `json:"type"`
	Literal     *string     `json:"literal,omitempty"`
	Destination *string     `json:"destination,omitempty"`
	Title       *string     `json:"title,omitempty"`
	Info        *string     `json:"info,omitempty"`
	Level       int         `json:"level,omitempty"`
	ListType    ListType    `json:"list_type,omitempty"`
	ListStart   int         `json:"list_start,omitempty"`
	Children    []*jsonNode `json:"children,omitempty"`
}

// MarshalJSON encodes the subtree rooted at n as nested objects. Link and
// image destinations and titles are always present.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSON(n))
}

func toJSON(n *Node) *jsonNode {
	out := &jsonNode{
		Type:      n.Type.String(),
		Level:     n.Level,
		ListType:  n.ListType,
		ListStart: n.ListStart,
	}
	switch n.Type {
	case Link, Image:
		out.Destination = &n.Destination
		out.Title = &n.Title
	case CodeBlock:
		out.Info = &n.Info
		out.Literal = &n.Literal
	case Code:
		out.Literal = &n.Literal
	default:
		if n.Literal != "" {
			out.Literal = &n.Literal
		}
	}
	for c := n.FirstChild; c != nil; c = c.Next {
		out.Children = append(out.Children, toJSON(c))
	}
	return out
}
