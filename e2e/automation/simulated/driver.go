package simulated

import (
	"errors"
	"sync"

	"github.com/arelle/uiprobe/e2e/automation"
)

// Name identifies the simulated driver in logs and reports.
const Name = "simulated"

var errClosed = errors.New("simulated: session closed")

// Driver attaches to a single simulated application, whatever process id it
// is given first.
type Driver struct {
	App *App
}

// NewDriver returns a driver for app.
func NewDriver(app *App) *Driver {
	return &Driver{App: app}
}

func (d *Driver) Name() string { return Name }

func (d *Driver) Attach(pid int, _ automation.Timeouts) (automation.Session, error) {
	if err := d.App.attach(pid); err != nil {
		return nil, err
	}
	return &session{app: d.App, pid: pid}, nil
}

type session struct {
	app *App
	pid int

	mu     sync.Mutex
	closed bool
}

func (s *session) check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	return nil
}

func (s *session) ProcessID() int { return s.pid }

func (s *session) Root() (automation.Node, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	s.app.mu.Lock()
	defer s.app.mu.Unlock()
	return s.app.rootSnapshot(), nil
}

func (s *session) Desktop() (automation.Node, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	s.app.mu.Lock()
	defer s.app.mu.Unlock()
	return s.app.desktopSnapshot(), nil
}

func (s *session) Chord(keys ...automation.Key) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.app.chord(keys)
}

func (s *session) Press(keys ...automation.Key) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.app.press(keys)
}

func (s *session) TypeText(text string) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.app.typeText(text)
}

func (s *session) Click(b automation.Button, at automation.Point) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.app.click(b, at)
}

// WaitForInputIdle returns at once; input is applied synchronously.
func (s *session) WaitForInputIdle() error {
	return s.check()
}

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.app.shutdown()
	return nil
}
