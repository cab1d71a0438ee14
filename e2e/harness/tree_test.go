package harness

import (
	"github.com/arelle/uiprobe/e2e/automation"
)

// fakeNode is an in-memory element used by harness tests.
type fakeNode struct {
	name     string
	class    automation.Class
	rect     automation.Rect
	props    map[string]string
	children []*fakeNode
	parent   *fakeNode

	nameErr     error
	childrenErr error
}

func node(class automation.Class, name string, children ...*fakeNode) *fakeNode {
	n := &fakeNode{class: class, name: name, children: children}
	for _, c := range children {
		c.parent = n
	}
	return n
}

func (n *fakeNode) with(key, value string) *fakeNode {
	if n.props == nil {
		n.props = map[string]string{}
	}
	n.props[key] = value
	return n
}

func (n *fakeNode) at(r automation.Rect) *fakeNode {
	n.rect = r
	return n
}

func (n *fakeNode) Name() (string, error) {
	if n.nameErr != nil {
		return "", n.nameErr
	}
	return n.name, nil
}

func (n *fakeNode) Class() (automation.Class, error) { return n.class, nil }

func (n *fakeNode) Rect() (automation.Rect, error) { return n.rect, nil }

func (n *fakeNode) Children() ([]automation.Node, error) {
	if n.childrenErr != nil {
		return nil, n.childrenErr
	}
	out := make([]automation.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out, nil
}

func (n *fakeNode) Parent() automation.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *fakeNode) Property(name string) (string, bool, error) {
	v, ok := n.props[name]
	return v, ok, nil
}
