package webdriver

import (
	"errors"
	"fmt"
	"time"

	"github.com/arelle/uiprobe/e2e/automation"
)

// session pairs a desktop session, used for the desktop tree and the mouse,
// with an application session scoped to the attached window.
type session struct {
	client   *Client
	pid      int
	rootID   string
	appID    string
	windowID string
	settle   time.Duration
}

func (s *session) ProcessID() int { return s.pid }

func (s *session) Root() (automation.Node, error) {
	return s.snapshot(s.appID)
}

func (s *session) Desktop() (automation.Node, error) {
	return s.snapshot(s.rootID)
}

func (s *session) snapshot(id string) (automation.Node, error) {
	src, err := s.client.Source(id)
	if err != nil {
		return nil, err
	}
	root, err := parseSource(src)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (s *session) Chord(keys ...automation.Key) error {
	return s.client.Keys(s.appID, chordSequence(keys))
}

func (s *session) Press(keys ...automation.Key) error {
	return s.client.Keys(s.appID, pressSequence(keys))
}

func (s *session) TypeText(text string) error {
	return s.client.Keys(s.appID, []string{text})
}

// Click moves relative to the attached window, so the screen point is
// translated using the window's current position.
func (s *session) Click(b automation.Button, at automation.Point) error {
	root, err := s.Root()
	if err != nil {
		return err
	}
	r, err := root.Rect()
	if err != nil {
		return err
	}
	if err := s.client.MoveTo(s.rootID, s.windowID, at.X-int(r.X), at.Y-int(r.Y)); err != nil {
		return fmt.Errorf("moving to %v: %w", at, err)
	}
	button := 0
	if b == automation.RightButton {
		button = 2
	}
	return s.client.Click(s.rootID, button)
}

func (s *session) WaitForInputIdle() error {
	time.Sleep(s.settle)
	return nil
}

func (s *session) Close() error {
	return errors.Join(s.client.DeleteSession(s.appID), s.client.DeleteSession(s.rootID))
}
