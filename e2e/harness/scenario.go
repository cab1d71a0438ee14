package harness

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/arelle/uiprobe/e2e/automation"
)

// State is where a scenario run stands. States only move forward; StateFailed
// is reachable from any state that is not terminal.
type State int

const (
	StateInit State = iota
	StateAttached
	StateDialogOpen
	StateDocumentSelected
	StateArchiveMemberPicked
	StateDocumentLoaded
	StateDataCopied
	StateVerified
	StateFailed
)

var stateNames = [...]string{
	StateInit:                "init",
	StateAttached:            "attached",
	StateDialogOpen:          "dialog-open",
	StateDocumentSelected:    "document-selected",
	StateArchiveMemberPicked: "archive-member-picked",
	StateDocumentLoaded:      "document-loaded",
	StateDataCopied:          "data-copied",
	StateVerified:            "verified",
	StateFailed:              "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == StateVerified || s == StateFailed }

// Scenario represents a complete interaction with the application
type Scenario struct {
	Name        string
	Description string
	// NeedsFixture loads the sample archive before the application starts.
	NeedsFixture bool
	Steps        []Step
}

// Step waits for its precondition, performs its input and, on success, moves
// the run to To.
type Step struct {
	Name string
	To   State
	Run  func(*StepContext) error
}

// Validate checks that steps move strictly forward from StateAttached and
// end in StateVerified.
func (s Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %s has no steps", s.Name)
	}
	prev := StateAttached
	for _, step := range s.Steps {
		if step.Run == nil {
			return fmt.Errorf("scenario %s: step %q has no action", s.Name, step.Name)
		}
		if step.To <= prev || step.To == StateFailed {
			return fmt.Errorf("scenario %s: step %q moves from %s to %s", s.Name, step.Name, prev, step.To)
		}
		prev = step.To
	}
	if prev != StateVerified {
		return fmt.Errorf("scenario %s ends in %s, not %s", s.Name, prev, StateVerified)
	}
	return nil
}

// StepContext is what a step works with. Element handles are never carried
// between steps; each step looks up what it needs.
type StepContext struct {
	Session   automation.Session
	Fixture   *Fixture
	Clipboard *Clipboard
	Logger    *slog.Logger

	// WaitTimeout and WaitInterval apply to waits that set no timeout.
	WaitTimeout  time.Duration
	WaitInterval time.Duration
	clock        Clock

	values map[string]string
}

// Wait describes one wait inside a step.
type Wait struct {
	What    string
	Timeout time.Duration
	// IgnoreErrors keeps polling through driver errors, not only through
	// missing elements.
	IgnoreErrors bool
	// Desktop searches the desktop instead of the application's main window.
	Desktop bool
}

// WaitFor polls locate against a fresh tree until it finds an element.
func (c *StepContext) WaitFor(w Wait, locate Locate) (automation.Node, error) {
	spec := PollSpec{
		Timeout:       w.Timeout,
		Interval:      c.WaitInterval,
		SwallowErrors: w.IgnoreErrors,
		What:          w.What,
		Clock:         c.clock,
	}
	if spec.Timeout <= 0 {
		spec.Timeout = c.WaitTimeout
	}
	fetch := c.Session.Root
	if w.Desktop {
		fetch = c.Session.Desktop
	}
	c.Logger.Debug("waiting", "for", w.What, "timeout", spec.withDefaults().Timeout)
	return Poll(spec, Await(fetch, locate))
}

// Find looks up an element once, without waiting.
func (c *StepContext) Find(locate Locate) (automation.Node, error) {
	root, err := c.Session.Root()
	if err != nil {
		return nil, err
	}
	return locate(root)
}

// Settle blocks until the application has processed pending input.
func (c *StepContext) Settle() error {
	return c.Session.WaitForInputIdle()
}

// Chord presses keys together.
func (c *StepContext) Chord(keys ...automation.Key) error {
	c.Logger.Debug("key chord", "keys", keys)
	return c.Session.Chord(keys...)
}

// Press types keys one after another.
func (c *StepContext) Press(keys ...automation.Key) error {
	c.Logger.Debug("key press", "keys", keys)
	return c.Session.Press(keys...)
}

// Type enters literal text into the focused element.
func (c *StepContext) Type(text string) error {
	c.Logger.Debug("type text", "text", text)
	return c.Session.TypeText(text)
}

// Click clicks at a screen point.
func (c *StepContext) Click(b automation.Button, at automation.Point) error {
	c.Logger.Debug("click", "button", b.String(), "x", at.X, "y", at.Y)
	return c.Session.Click(b, at)
}

// ClickCenter clicks the middle of n.
func (c *StepContext) ClickCenter(b automation.Button, n automation.Node) error {
	r, err := n.Rect()
	if err != nil {
		return &automation.PropertyAccessError{Property: "BoundingRectangle", Err: err}
	}
	return c.Click(b, r.Center())
}

// Put stores a value for a later step of the same run.
func (c *StepContext) Put(key, value string) {
	if c.values == nil {
		c.values = map[string]string{}
	}
	c.values[key] = value
}

// Get returns a value stored by an earlier step.
func (c *StepContext) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}
