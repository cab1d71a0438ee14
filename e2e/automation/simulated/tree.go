package simulated

import (
	"github.com/arelle/uiprobe/e2e/automation"
)

// node is one element of a snapshot. Snapshots are rebuilt from the
// application state on every query and never change afterwards.
type node struct {
	name     string
	class    automation.Class
	rect     automation.Rect
	props    map[string]string
	children []*node
	parent   *node
}

func (n *node) Name() (string, error)            { return n.name, nil }
func (n *node) Class() (automation.Class, error) { return n.class, nil }
func (n *node) Rect() (automation.Rect, error)   { return n.rect, nil }

func (n *node) Children() ([]automation.Node, error) {
	out := make([]automation.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out, nil
}

func (n *node) Parent() automation.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) Property(name string) (string, bool, error) {
	v, ok := n.props[name]
	return v, ok, nil
}

func el(class automation.Class, name string, rect automation.Rect, children ...*node) *node {
	n := &node{name: name, class: class, rect: rect, children: children}
	for _, c := range children {
		c.parent = n
	}
	return n
}

func (n *node) set(key, value string) *node {
	if n.props == nil {
		n.props = map[string]string{}
	}
	n.props[key] = value
	return n
}

func (n *node) add(children ...*node) *node {
	for _, c := range children {
		c.parent = n
	}
	n.children = append(n.children, children...)
	return n
}
