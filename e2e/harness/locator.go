package harness

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/arelle/uiprobe/e2e/automation"
)

// ErrElementNotFound is the normal "not yet" outcome of a lookup inside a
// wait. Outside a wait it is a hard failure.
var ErrElementNotFound = errors.New("element not found")

// PathStep selects the Index-th child (0-based) among the children whose
// class equals Class. An empty Class matches every child.
type PathStep struct {
	Class automation.Class
	Index int
}

func (s PathStep) String() string {
	class := string(s.Class)
	if class == "" {
		class = "*"
	}
	if s.Index == 0 {
		return class
	}
	return fmt.Sprintf("%s[%d]", class, s.Index+1)
}

// StructuralPath addresses an element by ordinal child selection from a root.
// It is used where the UI shape is stable but no reliable name exists.
type StructuralPath []PathStep

func (p StructuralPath) String() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		b.WriteString(s.String())
	}
	return b.String()
}

// ParsePath parses the XPath-like form "/Pane/Pane/Pane[1]". Indexes in the
// text are 1-based; "*" matches any class.
func ParsePath(text string) (StructuralPath, error) {
	if !strings.HasPrefix(text, "/") {
		return nil, fmt.Errorf("structural path %q must start with /", text)
	}
	var path StructuralPath
	for _, part := range strings.Split(text[1:], "/") {
		if part == "" {
			return nil, fmt.Errorf("structural path %q has an empty step", text)
		}
		step := PathStep{}
		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, fmt.Errorf("structural path %q: unterminated index in %q", text, part)
			}
			n, err := strconv.Atoi(part[open+1 : len(part)-1])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("structural path %q: bad index in %q", text, part)
			}
			step.Index = n - 1
			part = part[:open]
		}
		if part != "*" {
			step.Class = automation.Class(part)
		}
		path = append(path, step)
	}
	return path, nil
}

// MustParsePath is ParsePath for literals.
func MustParsePath(text string) StructuralPath {
	p, err := ParsePath(text)
	if err != nil {
		panic(err)
	}
	return p
}

// Children builds a class-agnostic path from child ordinals.
func Children(indexes ...int) StructuralPath {
	path := make(StructuralPath, len(indexes))
	for i, idx := range indexes {
		path[i] = PathStep{Index: idx}
	}
	return path
}

// Follow walks path from root. A missing step yields ErrElementNotFound.
func Follow(root automation.Node, path StructuralPath) (automation.Node, error) {
	cur := root
	for depth, step := range path {
		children, err := cur.Children()
		if err != nil {
			return nil, fmt.Errorf("children at %s: %w", path[:depth], err)
		}
		seen := 0
		var next automation.Node
		for _, c := range children {
			if step.Class != "" {
				class, err := c.Class()
				if err != nil {
					return nil, fmt.Errorf("class at %s: %w", path[:depth+1], err)
				}
				if class != step.Class {
					continue
				}
			}
			if seen == step.Index {
				next = c
				break
			}
			seen++
		}
		if next == nil {
			return nil, fmt.Errorf("%w: %s (stopped at step %d)", ErrElementNotFound, path, depth+1)
		}
		cur = next
	}
	return cur, nil
}

// Scope limits a predicate search.
type Scope int

const (
	// ScopeChildren searches immediate children only.
	ScopeChildren Scope = iota
	// ScopeSubtree searches all descendants, depth first in document order.
	ScopeSubtree
)

// Condition is one predicate over a node.
type Condition func(automation.Node) (bool, error)

// ByClass matches the control type.
func ByClass(class automation.Class) Condition {
	return func(n automation.Node) (bool, error) {
		c, err := n.Class()
		return c == class, err
	}
}

// ByName matches the exact name.
func ByName(name string) Condition {
	return func(n automation.Node) (bool, error) {
		got, err := n.Name()
		return got == name, err
	}
}

// NameContains matches a name substring.
func NameContains(sub string) Condition {
	return func(n automation.Node) (bool, error) {
		got, err := n.Name()
		return strings.Contains(got, sub), err
	}
}

// ByProperty matches a named property value.
func ByProperty(name, value string) Condition {
	return func(n automation.Node) (bool, error) {
		got, ok, err := n.Property(name)
		if err != nil || !ok {
			return false, err
		}
		return got == value, nil
	}
}

// Match wraps an arbitrary predicate.
func Match(fn func(automation.Node) (bool, error)) Condition {
	return fn
}

// And is the conjunction of conds, evaluated left to right.
func And(conds ...Condition) Condition {
	return func(n automation.Node) (bool, error) {
		for _, c := range conds {
			ok, err := c(n)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// FindFirst returns the first node under root that satisfies cond. Root itself
// is never a candidate.
func FindFirst(root automation.Node, scope Scope, cond Condition) (automation.Node, error) {
	var found automation.Node
	err := walk(root, scope, func(n automation.Node) (bool, error) {
		ok, err := cond(n)
		if err != nil {
			return false, err
		}
		if ok {
			found = n
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrElementNotFound
	}
	return found, nil
}

// FindAll returns every node under root that satisfies cond.
func FindAll(root automation.Node, scope Scope, cond Condition) ([]automation.Node, error) {
	var found []automation.Node
	err := walk(root, scope, func(n automation.Node) (bool, error) {
		ok, err := cond(n)
		if ok {
			found = append(found, n)
		}
		return false, err
	})
	return found, err
}

var errStopWalk = errors.New("stop walk")

// walk visits nodes under root in document order until visit returns stop.
func walk(root automation.Node, scope Scope, visit func(automation.Node) (stop bool, err error)) error {
	if err := walkNodes(root, scope, visit); err != nil && !errors.Is(err, errStopWalk) {
		return err
	}
	return nil
}

func walkNodes(root automation.Node, scope Scope, visit func(automation.Node) (bool, error)) error {
	children, err := root.Children()
	if err != nil {
		return err
	}
	for _, c := range children {
		stop, err := visit(c)
		if err != nil {
			return err
		}
		if stop {
			return errStopWalk
		}
		if scope == ScopeSubtree {
			if err := walkNodes(c, scope, visit); err != nil {
				return err
			}
		}
	}
	return nil
}

// HeaderRows is the number of header rows above the first entry of a list
// whose entries are not individually addressable.
const HeaderRows = 1

// RowPoint computes a click point for entry index of count entries inside a
// list container that only exposes its bounding rectangle. The container is
// split into count+HeaderRows equal rows and the point lands in the middle of
// the entry's row, horizontally centered.
func RowPoint(container automation.Rect, count, index int) (automation.Point, error) {
	if count <= 0 || index < 0 || index >= count {
		return automation.Point{}, fmt.Errorf("row %d out of range for %d entries", index, count)
	}
	y := container.Y + container.Height*(float64(index)+float64(HeaderRows)+0.5)/float64(count+HeaderRows)
	return automation.Point{
		X: int(container.X + container.Width/2),
		Y: int(y),
	}, nil
}

// Locate is a single lookup against a freshly fetched root.
type Locate func(root automation.Node) (automation.Node, error)

// Await turns a lookup into a probe: ErrElementNotFound is Pending, any other
// error is Fail. fetch is called on every attempt so no handle outlives a wait.
func Await(fetch func() (automation.Node, error), locate Locate) Probe[automation.Node] {
	return func() Result[automation.Node] {
		root, err := fetch()
		if err != nil {
			return Fail[automation.Node](err)
		}
		n, err := locate(root)
		switch {
		case err == nil:
			return Done(n)
		case errors.Is(err, ErrElementNotFound):
			return Pending[automation.Node](err.Error())
		default:
			return Fail[automation.Node](err)
		}
	}
}
