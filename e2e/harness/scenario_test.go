package harness

import (
	"errors"
	"testing"
	"time"

	"github.com/arelle/uiprobe/e2e/automation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stagedSession shows a different root on every fetch, staying on the last.
type stagedSession struct {
	scriptSession
	roots   []*fakeNode
	fetches int
}

func (s *stagedSession) Root() (automation.Node, error) {
	i := s.fetches
	if i >= len(s.roots) {
		i = len(s.roots) - 1
	}
	s.fetches++
	return s.roots[i], nil
}

func stepContext(t *testing.T, s automation.Session, clock Clock) *StepContext {
	return &StepContext{
		Session:      s,
		Logger:       TestLogger(t),
		WaitTimeout:  time.Second,
		WaitInterval: 100 * time.Millisecond,
		clock:        clock,
	}
}

func byName(name string) Locate {
	return func(root automation.Node) (automation.Node, error) {
		return FindFirst(root, ScopeSubtree, ByName(name))
	}
}

func TestStepContextWaitForRefetches(t *testing.T) {
	before := node(automation.ClassWindow, "main")
	after := node(automation.ClassWindow, "main", node(automation.ClassWindow, "Open").with(automation.PropIsModal, "True"))
	s := &stagedSession{roots: []*fakeNode{before, before, before, after}}
	clock := newFakeClock()

	got, err := stepContext(t, s, clock).WaitFor(Wait{What: "dialog"}, byName("Open"))
	require.NoError(t, err)
	name, _ := got.Name()
	assert.Equal(t, "Open", name)
	assert.Equal(t, 4, s.fetches)
	assert.Equal(t, 3, clock.sleeps)
}

func TestStepContextWaitForTimeout(t *testing.T) {
	s := &stagedSession{roots: []*fakeNode{node(automation.ClassWindow, "main")}}
	clock := newFakeClock()
	start := clock.now

	_, err := stepContext(t, s, clock).WaitFor(Wait{What: "dialog", Timeout: 500 * time.Millisecond}, byName("Open"))
	require.ErrorIs(t, err, ErrTimeout)
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "dialog", te.What)
	assert.Equal(t, 500*time.Millisecond, te.Timeout)
	assert.GreaterOrEqual(t, clock.now.Sub(start), 500*time.Millisecond)
}

func TestStepContextWaitForDesktop(t *testing.T) {
	s := &scriptSession{
		root:    node(automation.ClassWindow, "main"),
		desktop: node(automation.ClassPane, "desktop", node(automation.ClassMenu, "Copy")),
	}
	c := stepContext(t, s, newFakeClock())

	_, err := c.Find(byName("Copy"))
	assert.ErrorIs(t, err, ErrElementNotFound)

	got, err := c.WaitFor(Wait{What: "menu", Desktop: true}, byName("Copy"))
	require.NoError(t, err)
	class, _ := got.Class()
	assert.Equal(t, automation.ClassMenu, class)
}

func TestStepContextInput(t *testing.T) {
	s := &scriptSession{}
	c := stepContext(t, s, newFakeClock())

	require.NoError(t, c.Chord(automation.KeyControl, automation.Letter('o')))
	require.NoError(t, c.Type(`C:\res\workiva.zip`))
	require.NoError(t, c.Press(automation.KeyTab, automation.KeyEnter))
	require.NoError(t, c.ClickCenter(automation.RightButton, node(automation.ClassPane, "tables").at(automation.Rect{X: 10, Y: 10, Width: 100, Height: 50})))
	require.NoError(t, c.Settle())

	assert.Equal(t, []string{
		"chord:Control+o",
		`type:C:\res\workiva.zip`,
		"press:Tab+Enter",
		"click:right",
	}, s.inputs)
}

func TestStepContextClickCenterNeedsBounds(t *testing.T) {
	c := stepContext(t, &scriptSession{}, newFakeClock())
	err := c.ClickCenter(automation.LeftButton, rectless{node(automation.ClassPane, "gone")})

	var pae *automation.PropertyAccessError
	require.ErrorAs(t, err, &pae)
	assert.Equal(t, "BoundingRectangle", pae.Property)
}

type rectless struct{ *fakeNode }

func (rectless) Rect() (automation.Rect, error) {
	return automation.Rect{}, errors.New("element not available")
}

func TestStepContextValues(t *testing.T) {
	c := stepContext(t, &scriptSession{}, newFakeClock())

	_, ok := c.Get("outline")
	assert.False(t, ok)
	c.Put("outline", "Table Index")
	v, ok := c.Get("outline")
	assert.True(t, ok)
	assert.Equal(t, "Table Index", v)
}
