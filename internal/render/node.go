// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"html"
	"strings"
)

// =============================================================================
// EVENT TYPES
// =============================================================================

// EventType identifies a user interaction kind.
type EventType string

const (
	// EventClick is a pointer click on a rendered element.
	EventClick EventType = "click"
	// EventHover is a pointer entering a rendered element.
	EventHover EventType = "mouseover"
)

// Event describes a single user interaction with a rendered node.
type Event struct {
	Type EventType
	// Target is the data-testid of the element the interaction originated
	// on. Empty means the container itself.
	Target string
}

// =============================================================================
// NODE TREE
// =============================================================================

// attr is a single HTML attribute. Attributes keep insertion order so that
// serialization is deterministic.
type attr struct {
	key   string
	value string
}

// Node is one element in the rendered content tree.
//
// A node renders either its Raw markup verbatim, or its escaped Text, or
// its Children - in that priority order. Handlers attached to a node fire
// when an interaction is dispatched to the node or to any of its
// descendants (delegation happens on the way up to the root).
type Node struct {
	// Tag is the element name ("div", "p", "span"). Empty tag nodes
	// render only their content, without a surrounding element.
	Tag string

	// Raw is markup injected verbatim, trusted as-is.
	Raw string

	// Text is plain text, HTML-escaped during serialization.
	Text string

	// Children are nested elements, rendered in order.
	Children []*Node

	attrs   []attr
	onClick func(Event)
	onHover func(Event)
}

// NewElement creates an empty element node with the given tag.
func NewElement(tag string) *Node {
	return &Node{Tag: tag}
}

// TextNode creates a tagless node holding escaped plain text.
func TextNode(text string) *Node {
	return &Node{Text: text}
}

// RawNode creates a tagless node holding verbatim markup.
func RawNode(markup string) *Node {
	return &Node{Raw: markup}
}

// SetAttr sets an attribute, replacing any previous value for the key.
func (n *Node) SetAttr(key, value string) *Node {
	for i := range n.attrs {
		if n.attrs[i].key == key {
			n.attrs[i].value = value
			return n
		}
	}
	n.attrs = append(n.attrs, attr{key: key, value: value})
	return n
}

// Attr returns the value of an attribute, or "" if unset.
func (n *Node) Attr(key string) string {
	for _, a := range n.attrs {
		if a.key == key {
			return a.value
		}
	}
	return ""
}

// SetClass sets the class attribute from the given tokens, skipping empties.
func (n *Node) SetClass(tokens ...string) *Node {
	var kept []string
	for _, t := range tokens {
		if t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return n
	}
	return n.SetAttr("class", strings.Join(kept, " "))
}

// SetTestID sets the data-testid hook used by tests and event dispatch.
func (n *Node) SetTestID(id string) *Node {
	return n.SetAttr("data-testid", id)
}

// TestID returns the node's data-testid, or "".
func (n *Node) TestID() string {
	return n.Attr("data-testid")
}

// Append adds child nodes, ignoring nils.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// OnClick binds a click handler to this node.
func (n *Node) OnClick(fn func(Event)) *Node {
	n.onClick = fn
	return n
}

// OnHover binds a hover handler to this node.
func (n *Node) OnHover(fn func(Event)) *Node {
	n.onHover = fn
	return n
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// HTML serializes the node tree to markup. Attribute order follows
// insertion order, so the output is deterministic for identical input.
func (n *Node) HTML() string {
	var sb strings.Builder
	n.writeHTML(&sb)
	return sb.String()
}

func (n *Node) writeHTML(sb *strings.Builder) {
	if n == nil {
		return
	}

	if n.Tag != "" {
		sb.WriteString("<")
		sb.WriteString(n.Tag)
		for _, a := range n.attrs {
			sb.WriteString(" ")
			sb.WriteString(a.key)
			sb.WriteString("=\"")
			sb.WriteString(html.EscapeString(a.value))
			sb.WriteString("\"")
		}
		sb.WriteString(">")
	}

	switch {
	case n.Raw != "":
		sb.WriteString(n.Raw)
	case n.Text != "":
		sb.WriteString(html.EscapeString(n.Text))
	default:
		for _, c := range n.Children {
			c.writeHTML(sb)
		}
	}

	if n.Tag != "" {
		sb.WriteString("</")
		sb.WriteString(n.Tag)
		sb.WriteString(">")
	}
}

// =============================================================================
// TREE LOOKUP AND DISPATCH
// =============================================================================

// find returns the path from n down to the first node whose data-testid
// matches id, or nil when no such node exists. The path starts at n.
func (n *Node) find(id string) []*Node {
	if n == nil {
		return nil
	}
	if n.TestID() == id {
		return []*Node{n}
	}
	for _, c := range n.Children {
		if path := c.find(id); path != nil {
			return append([]*Node{n}, path...)
		}
	}
	return nil
}

// dispatch delivers an event to the node at the end of path and lets it
// bubble toward the root. Every handler on the path fires exactly once.
func dispatch(path []*Node, ev Event) {
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		switch ev.Type {
		case EventClick:
			if n.onClick != nil {
				n.onClick(ev)
			}
		case EventHover:
			if n.onHover != nil {
				n.onHover(ev)
			}
		}
	}
}
