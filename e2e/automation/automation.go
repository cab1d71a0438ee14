// Package automation defines the accessibility boundary the harness drives:
// live UI element handles, an attached session for one process, and the
// drivers that produce sessions.
package automation

import (
	"errors"
	"fmt"
	"time"
)

// Class is the accessibility control type of an element (e.g. "Window", "Pane").
type Class string

// Common control types.
const (
	ClassWindow   Class = "Window"
	ClassPane     Class = "Pane"
	ClassComboBox Class = "ComboBox"
	ClassEdit     Class = "Edit"
	ClassButton   Class = "Button"
	ClassMenu     Class = "Menu"
	ClassMenuItem Class = "MenuItem"
	ClassList     Class = "List"
	ClassListItem Class = "ListItem"
)

// Well-known property names.
const (
	PropIsModal   = "IsModal"
	PropProcessID = "ProcessId"
)

// Rect is a screen rectangle in pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Point is a screen coordinate.
type Point struct {
	X, Y int
}

// Center returns the middle of the rectangle.
func (r Rect) Center() Point {
	return Point{X: int(r.X + r.Width/2), Y: int(r.Y + r.Height/2)}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	x, y := float64(p.X), float64(p.Y)
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// Node is a handle into the accessibility tree. Handles are snapshots of a
// mutable tree: callers re-query after every wait instead of reusing them.
// Parent is a lookup back-reference only.
type Node interface {
	Name() (string, error)
	Class() (Class, error)
	Rect() (Rect, error)
	Children() ([]Node, error)
	Parent() Node
	// Property returns a named property. ok is false when the element does
	// not expose it.
	Property(name string) (value string, ok bool, err error)
}

// Button selects a mouse button.
type Button int

const (
	LeftButton Button = iota
	RightButton
)

func (b Button) String() string {
	if b == RightButton {
		return "right"
	}
	return "left"
}

// Key is a virtual key.
type Key string

const (
	KeyControl Key = "Control"
	KeyShift   Key = "Shift"
	KeyAlt     Key = "Alt"
	KeyEnter   Key = "Enter"
	KeyTab     Key = "Tab"
	KeyEscape  Key = "Escape"
)

// Letter returns the key for a single character.
func Letter(r rune) Key {
	return Key(string(r))
}

// Session is one automation connection to one process. It is created fresh
// per scenario and never shared.
type Session interface {
	ProcessID() int
	// Root returns a fresh snapshot of the process's main window.
	Root() (Node, error)
	// Desktop returns a fresh snapshot of the desktop and its top-level
	// windows and menus.
	Desktop() (Node, error)
	// Chord presses the keys together and releases them.
	Chord(keys ...Key) error
	// Press types the keys one after another.
	Press(keys ...Key) error
	// TypeText types literal text into the focused element.
	TypeText(text string) error
	Click(button Button, at Point) error
	// WaitForInputIdle blocks until previously sent input has been processed.
	WaitForInputIdle() error
	Close() error
}

// Timeouts bound every driver call so that no single call can hang.
type Timeouts struct {
	Connection  time.Duration
	Transaction time.Duration
}

// DefaultTimeouts mirrors the bounds used for the desktop application suite.
var DefaultTimeouts = Timeouts{
	Connection:  10 * time.Second,
	Transaction: 10 * time.Second,
}

// Driver attaches sessions to running processes.
type Driver interface {
	Name() string
	Attach(pid int, timeouts Timeouts) (Session, error)
}

// ErrNotAttachable is returned by drivers while the target process does not
// yet expose a window that can be attached to.
var ErrNotAttachable = errors.New("process has no attachable window")

// PropertyAccessError reports a failed read of a single element property.
type PropertyAccessError struct {
	Property string
	Err      error
}

func (e *PropertyAccessError) Error() string {
	return fmt.Sprintf("reading property %s: %v", e.Property, e.Err)
}

func (e *PropertyAccessError) Unwrap() error { return e.Err }
