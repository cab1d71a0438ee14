package harness

import (
	"runtime"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard reads the system clipboard. Reads are serialized and each one
// runs on a dedicated OS thread, which is what the platform clipboard APIs
// require of their callers.
type Clipboard struct {
	mu   sync.Mutex
	read func() (string, error)
}

// NewClipboard returns a Clipboard backed by the system clipboard.
func NewClipboard() *Clipboard {
	return NewClipboardFrom(clipboard.ReadAll)
}

// NewClipboardFrom returns a Clipboard backed by read.
func NewClipboardFrom(read func() (string, error)) *Clipboard {
	return &Clipboard{read: read}
}

type clipResult struct {
	text string
	err  error
}

// ReadText blocks until the worker thread has read the clipboard.
func (c *Clipboard) ReadText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	done := make(chan clipResult, 1)
	go func() {
		runtime.LockOSThread()
		// The thread is discarded when the goroutine exits still locked.
		text, err := c.read()
		done <- clipResult{text: text, err: err}
	}()
	r := <-done
	return r.text, r.err
}

// NormalizeLineEndings converts CRLF and lone CR to LF.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
