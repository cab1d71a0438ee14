package webdriver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/arelle/uiprobe/e2e/automation"
)

// Client speaks the JSON wire protocol to one WinAppDriver endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client whose connections and calls are bounded by
// timeouts.
func NewClient(baseURL string, timeouts automation.Timeouts) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: timeouts.Connection}).DialContext,
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeouts.Transaction,
		},
	}
}

// response is the envelope shared by the legacy JSON wire protocol and W3C
// WebDriver.
type response struct {
	SessionID string          `json:"sessionId"`
	Status    *int            `json:"status"`
	Value     json.RawMessage `json:"value"`
}

type errorValue struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error is a failure reported by the server.
type Error struct {
	HTTPStatus int
	Status     int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	code := e.Code
	if code == "" {
		code = fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("webdriver: %s (http %d): %s", code, e.HTTPStatus, e.Message)
}

// do sends a request and returns the decoded envelope.
func (c *Client) do(method, path string, body any) (*response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s %s: %w", method, path, err)
	}

	var out response
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decoding %s %s: %w", method, path, err)
		}
	}

	if resp.StatusCode >= 400 || (out.Status != nil && *out.Status != 0) {
		werr := &Error{HTTPStatus: resp.StatusCode}
		if out.Status != nil {
			werr.Status = *out.Status
		}
		var ev errorValue
		if json.Unmarshal(out.Value, &ev) == nil {
			werr.Code, werr.Message = ev.Error, ev.Message
		}
		if werr.Message == "" {
			werr.Message = strings.TrimSpace(string(data))
		}
		return nil, werr
	}
	return &out, nil
}

// NewSession creates a session for the given capabilities and returns its id.
func (c *Client) NewSession(caps map[string]any) (string, error) {
	resp, err := c.do(http.MethodPost, "/session", map[string]any{"desiredCapabilities": caps})
	if err != nil {
		return "", err
	}
	if resp.SessionID != "" {
		return resp.SessionID, nil
	}
	var w3c struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(resp.Value, &w3c); err != nil || w3c.SessionID == "" {
		return "", fmt.Errorf("webdriver: no session id in response")
	}
	return w3c.SessionID, nil
}

// DeleteSession ends a session.
func (c *Client) DeleteSession(id string) error {
	_, err := c.do(http.MethodDelete, "/session/"+id, nil)
	return err
}

// Source returns the page source of a session.
func (c *Client) Source(sessionID string) (string, error) {
	resp, err := c.do(http.MethodGet, "/session/"+sessionID+"/source", nil)
	if err != nil {
		return "", err
	}
	var src string
	if err := json.Unmarshal(resp.Value, &src); err != nil {
		return "", fmt.Errorf("webdriver: source is not a string: %w", err)
	}
	return src, nil
}

// FindElement locates one element and returns its id.
func (c *Client) FindElement(sessionID, using, value string) (string, error) {
	resp, err := c.do(http.MethodPost, "/session/"+sessionID+"/element", map[string]string{"using": using, "value": value})
	if err != nil {
		return "", err
	}
	var ref map[string]string
	if err := json.Unmarshal(resp.Value, &ref); err != nil {
		return "", fmt.Errorf("webdriver: bad element reference: %w", err)
	}
	for _, key := range []string{"ELEMENT", "element-6066-11e4-a52e-4f735466cecf"} {
		if id := ref[key]; id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("webdriver: element reference without id")
}

// Attribute reads one attribute of an element.
func (c *Client) Attribute(sessionID, elementID, name string) (string, error) {
	resp, err := c.do(http.MethodGet, "/session/"+sessionID+"/element/"+elementID+"/attribute/"+name, nil)
	if err != nil {
		return "", err
	}
	var v any
	if err := json.Unmarshal(resp.Value, &v); err != nil {
		return "", err
	}
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Keys sends key sequences to the focused element of a session.
func (c *Client) Keys(sessionID string, sequence []string) error {
	_, err := c.do(http.MethodPost, "/session/"+sessionID+"/keys", map[string][]string{"value": sequence})
	return err
}

// MoveTo moves the mouse to an offset from an element's top-left corner.
func (c *Client) MoveTo(sessionID, elementID string, x, y int) error {
	_, err := c.do(http.MethodPost, "/session/"+sessionID+"/moveto", map[string]any{
		"element": elementID,
		"xoffset": x,
		"yoffset": y,
	})
	return err
}

// Click clicks a mouse button at the current position: 0 left, 2 right.
func (c *Client) Click(sessionID string, button int) error {
	_, err := c.do(http.MethodPost, "/session/"+sessionID+"/click", map[string]int{"button": button})
	return err
}
