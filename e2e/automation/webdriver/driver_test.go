package webdriver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arelle/uiprobe/e2e/automation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const desktopSource = `<?xml version="1.0" encoding="utf-16"?>
<Pane Name="Desktop 1" x="0" y="0" width="1920" height="1080">
  <Window Name="Other" ProcessId="55" x="0" y="0" width="10" height="10"/>
  <Window Name="arelle - workiva.zip" ProcessId="1234" x="100" y="50" width="800" height="600"/>
  <Menu Name="Context" ProcessId="1234" x="400" y="300" width="120" height="90">
    <MenuItem Name="Copy" x="400" y="300" width="120" height="30"/>
  </Menu>
</Pane>`

const appSource = `<Window Name="arelle - workiva.zip" ProcessId="1234" x="100" y="50" width="800" height="600" Window.IsModal="False">
  <Pane Name="" x="100" y="70" width="800" height="580">
    <Pane Name="tables" x="100" y="70" width="400" height="580"/>
  </Pane>
  <Window Name="Open" IsModal="True" x="200" y="100" width="400" height="300"/>
</Window>`

type recorded struct {
	method string
	path   string
	body   string
}

// mockWinAppDriver serves a desktop with one arelle window.
type mockWinAppDriver struct {
	mu       sync.Mutex
	requests []recorded
}

func (m *mockWinAppDriver) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	m.mu.Lock()
	m.requests = append(m.requests, recorded{method: r.Method, path: r.URL.Path, body: string(body)})
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	path := r.URL.Path

	switch {
	case path == "/session" && r.Method == http.MethodPost:
		if strings.Contains(string(body), `"app":"Root"`) {
			enc.Encode(map[string]any{"sessionId": "root", "status": 0, "value": map[string]any{}})
			return
		}
		if !strings.Contains(string(body), `"appTopLevelWindow":"0x4D2"`) {
			w.WriteHeader(http.StatusInternalServerError)
			enc.Encode(map[string]any{"value": map[string]any{"error": "session not created", "message": string(body)}})
			return
		}
		enc.Encode(map[string]any{"value": map[string]any{"sessionId": "app", "capabilities": map[string]any{}}})
	case path == "/session/root/source":
		enc.Encode(map[string]any{"value": desktopSource})
	case path == "/session/app/source":
		enc.Encode(map[string]any{"value": appSource})
	case path == "/session/root/element" && r.Method == http.MethodPost:
		enc.Encode(map[string]any{"status": 0, "value": map[string]any{"ELEMENT": "42.1"}})
	case path == "/session/root/element/42.1/attribute/NativeWindowHandle":
		enc.Encode(map[string]any{"status": 0, "value": "1234"})
	case strings.HasSuffix(path, "/fail"):
		w.WriteHeader(http.StatusInternalServerError)
		enc.Encode(map[string]any{"status": 13, "value": map[string]any{"message": "boom"}})
	default:
		enc.Encode(map[string]any{"status": 0, "value": nil})
	}
}

func (m *mockWinAppDriver) find(method, path string) []recorded {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []recorded
	for _, r := range m.requests {
		if r.method == method && r.path == path {
			out = append(out, r)
		}
	}
	return out
}

func newMock(t *testing.T) (*mockWinAppDriver, *httptest.Server) {
	t.Helper()
	m := &mockWinAppDriver{}
	srv := httptest.NewServer(http.HandlerFunc(m.handler))
	t.Cleanup(srv.Close)
	return m, srv
}

func attachTest(t *testing.T, url string) automation.Session {
	t.Helper()
	d := New(url)
	d.SettleDelay = time.Millisecond
	s, err := d.Attach(1234, automation.DefaultTimeouts)
	require.NoError(t, err)
	return s
}

func TestAttachOpensWindowSession(t *testing.T) {
	m, srv := newMock(t)
	s := attachTest(t, srv.URL)

	assert.Equal(t, 1234, s.ProcessID())
	finds := m.find(http.MethodPost, "/session/root/element")
	require.Len(t, finds, 1)
	assert.JSONEq(t, `{"using":"name","value":"arelle - workiva.zip"}`, finds[0].body)

	root, err := s.Root()
	require.NoError(t, err)
	name, _ := root.Name()
	assert.Equal(t, "arelle - workiva.zip", name)

	children, err := root.Children()
	require.NoError(t, err)
	require.Len(t, children, 2)
	class, _ := children[1].Class()
	assert.Equal(t, automation.ClassWindow, class)
	modal, ok, _ := children[1].Property(automation.PropIsModal)
	assert.True(t, ok)
	assert.Equal(t, "True", modal)

	modal, ok, _ = root.Property(automation.PropIsModal)
	assert.True(t, ok, "prefixed window pattern property")
	assert.Equal(t, "False", modal)

	grand, _ := children[0].Children()
	require.Len(t, grand, 1)
	assert.Same(t, children[0], grand[0].Parent())

	desktop, err := s.Desktop()
	require.NoError(t, err)
	top, _ := desktop.Children()
	assert.Len(t, top, 3)

	require.NoError(t, s.Close())
	assert.Len(t, m.find(http.MethodDelete, "/session/app"), 1)
	assert.Len(t, m.find(http.MethodDelete, "/session/root"), 1)
}

func TestAttachWithoutWindowIsNotAttachable(t *testing.T) {
	m, srv := newMock(t)

	_, err := New(srv.URL).Attach(999, automation.DefaultTimeouts)
	assert.ErrorIs(t, err, automation.ErrNotAttachable)
	assert.Len(t, m.find(http.MethodDelete, "/session/root"), 1, "desktop session is released")
}

func TestSessionInput(t *testing.T) {
	m, srv := newMock(t)
	s := attachTest(t, srv.URL)

	require.NoError(t, s.Chord(automation.KeyControl, automation.Letter('o')))
	require.NoError(t, s.Press(automation.KeyTab, automation.KeyEnter))
	require.NoError(t, s.TypeText(`C:\res\workiva.zip`))

	keys := m.find(http.MethodPost, "/session/app/keys")
	require.Len(t, keys, 3)
	assert.JSONEq(t, `{"value":["\uE009","o","\uE000"]}`, keys[0].body)
	assert.JSONEq(t, `{"value":["\uE004","\uE007"]}`, keys[1].body)
	assert.JSONEq(t, `{"value":["C:\\res\\workiva.zip"]}`, keys[2].body)

	require.NoError(t, s.Click(automation.RightButton, automation.Point{X: 300, Y: 250}))
	move := m.find(http.MethodPost, "/session/root/moveto")
	require.Len(t, move, 1)
	assert.JSONEq(t, `{"element":"42.1","xoffset":200,"yoffset":200}`, move[0].body)
	clicks := m.find(http.MethodPost, "/session/root/click")
	require.Len(t, clicks, 1)
	assert.JSONEq(t, `{"button":2}`, clicks[0].body)

	assert.NoError(t, s.WaitForInputIdle())
}

func TestClientErrors(t *testing.T) {
	_, srv := newMock(t)
	c := NewClient(srv.URL, automation.DefaultTimeouts)

	_, err := c.do(http.MethodGet, "/session/root/fail", nil)
	var werr *Error
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, http.StatusInternalServerError, werr.HTTPStatus)
	assert.Equal(t, 13, werr.Status)
	assert.Equal(t, "boom", werr.Message)

	_, err = c.NewSession(map[string]any{"appTopLevelWindow": "0x1"})
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "session not created", werr.Code)
}

func TestClientConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Attach(1234, automation.Timeouts{Connection: time.Second, Transaction: time.Second})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, automation.ErrNotAttachable)
}

func TestRegistered(t *testing.T) {
	d, err := automation.Open(Name, "http://127.0.0.1:4723")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:4723", d.(*Driver).Endpoint)
}

func TestParseSource(t *testing.T) {
	root, err := parseSource(`<Window Name="w" x="1" y="2"><Pane Name="p" x="1" y="2" width="3" height="4"/></Window>`)
	require.NoError(t, err)

	_, err = root.Rect()
	var pae *automation.PropertyAccessError
	assert.ErrorAs(t, err, &pae)

	children, _ := root.Children()
	r, err := children[0].Rect()
	require.NoError(t, err)
	assert.Equal(t, automation.Rect{X: 1, Y: 2, Width: 3, Height: 4}, r)

	_, err = parseSource("")
	assert.Error(t, err)
	_, err = parseSource("<Window><Pane></Window>")
	assert.Error(t, err)
}
