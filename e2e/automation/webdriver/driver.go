// Package webdriver drives Windows desktop applications through a
// WinAppDriver server using the WebDriver JSON wire protocol.
package webdriver

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/arelle/uiprobe/e2e/automation"
)

// Name is the registry name of this driver.
const Name = "webdriver"

// DefaultSettleDelay stands in for an input-idle wait, which the protocol
// has no call for.
const DefaultSettleDelay = 250 * time.Millisecond

func init() {
	automation.Register(Name, func(endpoint string) (automation.Driver, error) {
		return New(endpoint), nil
	})
}

// Driver attaches to top-level windows through a WinAppDriver endpoint.
type Driver struct {
	Endpoint    string
	SettleDelay time.Duration
}

// New returns a driver for endpoint, for example http://127.0.0.1:4723.
func New(endpoint string) *Driver {
	return &Driver{Endpoint: endpoint, SettleDelay: DefaultSettleDelay}
}

func (d *Driver) Name() string { return Name }

// Attach finds the top-level window owned by pid on the desktop session and
// opens an application session on it. It returns automation.ErrNotAttachable
// while the process shows no window.
func (d *Driver) Attach(pid int, timeouts automation.Timeouts) (automation.Session, error) {
	c := NewClient(d.Endpoint, timeouts)

	rootID, err := c.NewSession(map[string]any{"app": "Root"})
	if err != nil {
		return nil, fmt.Errorf("opening desktop session: %w", err)
	}
	s, err := d.attach(c, rootID, pid)
	if err != nil {
		return nil, errors.Join(err, c.DeleteSession(rootID))
	}
	return s, nil
}

func (d *Driver) attach(c *Client, rootID string, pid int) (*session, error) {
	src, err := c.Source(rootID)
	if err != nil {
		return nil, fmt.Errorf("reading desktop: %w", err)
	}
	desktop, err := parseSource(src)
	if err != nil {
		return nil, err
	}
	window := findProcessWindow(desktop, pid)
	if window == nil {
		return nil, fmt.Errorf("pid %d: %w", pid, automation.ErrNotAttachable)
	}
	windowName, _ := window.Name()

	windowID, err := c.FindElement(rootID, "name", windowName)
	if err != nil {
		return nil, fmt.Errorf("finding window %q: %w", windowName, err)
	}
	handle, err := c.Attribute(rootID, windowID, "NativeWindowHandle")
	if err != nil {
		return nil, fmt.Errorf("reading window handle: %w", err)
	}
	hwnd, err := strconv.ParseInt(handle, 10, 64)
	if err != nil || hwnd == 0 {
		return nil, fmt.Errorf("window %q has no native handle (%q): %w", windowName, handle, automation.ErrNotAttachable)
	}

	appID, err := c.NewSession(map[string]any{"appTopLevelWindow": fmt.Sprintf("0x%X", hwnd)})
	if err != nil {
		return nil, fmt.Errorf("opening window session: %w", err)
	}
	return &session{
		client:   c,
		pid:      pid,
		rootID:   rootID,
		appID:    appID,
		windowID: windowID,
		settle:   d.SettleDelay,
	}, nil
}

// findProcessWindow returns the first top-level window owned by pid.
func findProcessWindow(desktop *element, pid int) *element {
	want := strconv.Itoa(pid)
	for _, c := range desktop.children {
		if c.class == automation.ClassWindow && c.attrs[automation.PropProcessID] == want {
			return c
		}
	}
	return nil
}
