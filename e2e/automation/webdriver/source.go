package webdriver

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arelle/uiprobe/e2e/automation"
)

// element is a node of a page-source snapshot. The tag is the control type
// and the attributes are the element's properties.
type element struct {
	class    automation.Class
	attrs    map[string]string
	children []*element
	parent   *element
}

func (e *element) Name() (string, error) { return e.attrs["Name"], nil }

func (e *element) Class() (automation.Class, error) { return e.class, nil }

func (e *element) Rect() (automation.Rect, error) {
	var vals [4]float64
	for i, key := range []string{"x", "y", "width", "height"} {
		raw, ok := e.attrs[key]
		if !ok {
			return automation.Rect{}, &automation.PropertyAccessError{Property: "BoundingRectangle", Err: fmt.Errorf("no %s attribute", key)}
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return automation.Rect{}, &automation.PropertyAccessError{Property: "BoundingRectangle", Err: err}
		}
		vals[i] = v
	}
	return automation.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func (e *element) Children() ([]automation.Node, error) {
	out := make([]automation.Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out, nil
}

func (e *element) Parent() automation.Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// Property looks up an attribute. Window pattern properties are exposed both
// bare and prefixed, depending on the server version.
func (e *element) Property(name string) (string, bool, error) {
	if v, ok := e.attrs[name]; ok {
		return v, true, nil
	}
	v, ok := e.attrs["Window."+name]
	return v, ok, nil
}

// parseSource builds a snapshot tree from page-source XML and returns its
// top element.
func parseSource(src string) (*element, error) {
	dec := xml.NewDecoder(strings.NewReader(src))
	// The server declares utf-16 but the text already arrived as JSON.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }
	var (
		root  *element
		stack []*element
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing page source: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{class: automation.Class(t.Name.Local), attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				el.attrs[a.Name.Local] = a.Value
			}
			if n := len(stack); n > 0 {
				el.parent = stack[n-1]
				stack[n-1].children = append(stack[n-1].children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if root == nil {
		return nil, errors.New("page source has no elements")
	}
	return root, nil
}
