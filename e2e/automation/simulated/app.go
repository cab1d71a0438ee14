// Package simulated is an in-process stand-in for the desktop application.
// It reproduces the surface the scenarios touch: the main window, the modal
// open-file dialog, the archive entry picker, an asynchronous document load,
// the tables context menu and the clipboard.
package simulated

import (
	"archive/zip"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/arelle/uiprobe/e2e/automation"
)

// DefaultTitle is the main window title before a document is loaded.
const DefaultTitle = "arelle"

// screen is what currently has focus in the application.
type screen int

const (
	screenMain screen = iota
	screenDialog
	screenPicker
)

// App holds the observable state of one simulated application instance.
// Exported fields are settings and must be set before the first attach.
type App struct {
	Title string
	// Outline is copied to the clipboard by the table copy command, with
	// CRLF line endings the way the platform clipboard holds it.
	Outline string
	// LoadDelay is how long a document takes to appear after the picker
	// is confirmed.
	LoadDelay time.Duration
	// AttachFailures is the number of attaches refused before the main
	// window shows up.
	AttachFailures int
	// OtherMenus adds a three-item menu owned by another process to the
	// desktop.
	OtherMenus bool

	mu        sync.Mutex
	pid       int
	screen    screen
	fileName  string
	selectAll bool
	fileFocus bool
	entries   []string
	selected  int
	okFocus   bool
	loading   bool
	loaded    string
	menuAt    *automation.Point
	submenu   bool
	clipboard string
	openErr   error
	loadTimer *time.Timer
}

// NewApp returns an application showing an empty main window.
func NewApp() *App {
	return &App{Title: DefaultTitle, selected: -1}
}

// Clipboard returns the clipboard text.
func (a *App) Clipboard() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clipboard, nil
}

// Loaded returns the entry point of the loaded document, if any.
func (a *App) Loaded() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loaded
}

// OpenError is the last failure to open a file from the dialog.
func (a *App) OpenError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.openErr
}

// Entries returns the archive entries shown by the picker.
func (a *App) Entries() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.entries...)
}

func (a *App) attach(pid int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.AttachFailures > 0 {
		a.AttachFailures--
		return fmt.Errorf("pid %d: %w", pid, automation.ErrNotAttachable)
	}
	if a.pid != 0 && a.pid != pid {
		return fmt.Errorf("pid %d: %w", pid, automation.ErrNotAttachable)
	}
	a.pid = pid
	return nil
}

func (a *App) shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loadTimer != nil {
		a.loadTimer.Stop()
	}
}

func (a *App) chord(keys []automation.Key) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case isChord(keys, automation.KeyControl, automation.Letter('o')):
		if a.screen == screenMain && !a.loading {
			a.screen = screenDialog
			a.fileName = ""
			a.fileFocus = true
			a.selectAll = false
		}
	case isChord(keys, automation.KeyControl, automation.Letter('a')):
		if a.screen == screenDialog && a.fileFocus {
			a.selectAll = true
		}
	}
	return nil
}

func isChord(keys []automation.Key, want ...automation.Key) bool {
	if len(keys) != len(want) {
		return false
	}
	for i := range keys {
		if !strings.EqualFold(string(keys[i]), string(want[i])) {
			return false
		}
	}
	return true
}

func (a *App) press(keys []automation.Key) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, k := range keys {
		switch k {
		case automation.KeyEscape:
			a.closeMenus()
			if a.screen != screenMain {
				a.screen = screenMain
			}
		case automation.KeyTab:
			if a.screen == screenPicker {
				a.okFocus = true
			}
		case automation.KeyEnter:
			switch a.screen {
			case screenDialog:
				a.openFile()
			case screenPicker:
				if a.okFocus && a.selected >= 0 {
					a.startLoad(a.entries[a.selected])
				}
			}
		}
	}
	return nil
}

func (a *App) typeText(text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.screen != screenDialog || !a.fileFocus {
		return nil
	}
	if a.selectAll {
		a.fileName = ""
		a.selectAll = false
	}
	a.fileName += text
	return nil
}

// openFile lists the archive named in the dialog, one row per entry in
// archive order. A file that cannot be read keeps the dialog open.
func (a *App) openFile() {
	entries, err := archiveEntries(a.fileName)
	if err != nil {
		a.openErr = err
		return
	}
	a.openErr = nil
	a.entries = entries
	a.selected = -1
	a.okFocus = false
	a.screen = screenPicker
}

func archiveEntries(name string) ([]string, error) {
	r, err := zip.OpenReader(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out := make([]string, 0, len(r.File))
	for _, f := range r.File {
		out = append(out, f.Name)
	}
	if len(out) == 0 {
		return nil, errors.New("archive has no entries")
	}
	return out, nil
}

func (a *App) startLoad(entry string) {
	a.screen = screenMain
	a.loading = true
	a.loadTimer = time.AfterFunc(a.LoadDelay, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.loading = false
		a.loaded = entry
	})
}

func (a *App) click(b automation.Button, p automation.Point) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.menuAt != nil {
		a.clickMenu(b, p)
		return nil
	}

	switch a.screen {
	case screenDialog:
		a.fileFocus = fileNameRect.Contains(p)
		if dialogCancelRect.Contains(p) {
			a.screen = screenMain
		}
	case screenPicker:
		if row := rowAt(pickerListRect, len(a.entries), p); row >= 0 && b == automation.LeftButton {
			a.selected = row
			a.okFocus = false
		}
	case screenMain:
		if b == automation.RightButton && a.loaded != "" && !a.loading && tablesRect.Contains(p) {
			at := p
			a.menuAt = &at
		}
	}
	return nil
}

// clickMenu handles a click while the context menu is open. Anything outside
// the menus dismisses them.
func (a *App) clickMenu(b automation.Button, p automation.Point) {
	menu := menuRect(*a.menuAt, len(contextMenuItems))
	if i := itemAt(menu, len(contextMenuItems), p); i >= 0 {
		if i == copySubmenuItem {
			a.submenu = true
		} else {
			a.closeMenus()
		}
		return
	}
	if a.submenu {
		sub := a.submenuRect()
		if i := itemAt(sub, len(copyMenuItems), p); i >= 0 && b == automation.LeftButton {
			if i == copyTableItem {
				a.clipboard = strings.ReplaceAll(strings.ReplaceAll(a.Outline, "\r\n", "\n"), "\n", "\r\n")
			}
			a.closeMenus()
			return
		}
	}
	a.closeMenus()
}

func (a *App) submenuRect() automation.Rect {
	menu := menuRect(*a.menuAt, len(contextMenuItems))
	item := itemRect(menu, copySubmenuItem)
	return menuRect(automation.Point{X: int(menu.X + menu.Width), Y: int(item.Y)}, len(copyMenuItems))
}

func (a *App) closeMenus() {
	a.menuAt = nil
	a.submenu = false
}
