package simulated

import (
	"strconv"

	"github.com/arelle/uiprobe/e2e/automation"
)

// rootSnapshot builds the main window as it looks right now. Callers hold
// a.mu.
func (a *App) rootSnapshot() *node {
	title := a.Title
	if a.loaded != "" {
		title = a.Title + " - " + a.loaded
	}
	win := el(automation.ClassWindow, title, mainWindowRect, a.clientArea()).
		set(automation.PropProcessID, strconv.Itoa(a.pid)).
		set(automation.PropIsModal, "False")

	switch a.screen {
	case screenDialog:
		win.add(a.openDialog())
	case screenPicker:
		win.add(a.picker())
	}
	if a.menuAt != nil {
		win.add(a.contextMenu())
	}
	return win
}

// clientArea lays out the icon bar, the main area and the status bar. The
// message log fills in once a document has loaded, which makes the first
// pane chain seven levels deep.
func (a *App) clientArea() *node {
	messages := el(automation.ClassPane, "messages", messagesRect)
	if a.loaded != "" {
		messages.add(el(automation.ClassPane, "log", messagesRect,
			el(automation.ClassPane, "lines", messagesRect)))
	}
	tables := el(automation.ClassPane, "tables", tablesRect)
	if a.loaded != "" {
		tables.add(el(automation.ClassPane, "presentation", tablesRect))
	}

	mainArea := el(automation.ClassPane, "", mainAreaRect,
		el(automation.ClassPane, "", messagesAndTabBarRect,
			messages,
			el(automation.ClassPane, "messages tabs", messagesTabBarRect)),
		el(automation.ClassPane, "", tablesAndFactViewRect,
			el(automation.ClassPane, "", factViewAndTabBarRect),
			el(automation.ClassPane, "", tablesAndTabBarRect,
				tables,
				el(automation.ClassPane, "tables tabs", tablesTabBarRect))),
	)
	return el(automation.ClassPane, "", clientRect,
		el(automation.ClassPane, "", clientRect,
			mainArea,
			el(automation.ClassPane, "icons", iconsRect),
			el(automation.ClassPane, "status", statusRect)))
}

func (a *App) openDialog() *node {
	fileName := el(automation.ClassComboBox, "File name:", fileNameRect,
		el(automation.ClassEdit, "File name:", fileNameRect))
	return el(automation.ClassWindow, "Open", dialogRect,
		el(automation.ClassPane, "", dialogRect, fileName),
		el(automation.ClassButton, "Open", dialogOpenRect),
		el(automation.ClassButton, "Cancel", dialogCancelRect),
	).set(automation.PropIsModal, "True").set(automation.PropProcessID, strconv.Itoa(a.pid))
}

// picker shows the archive entries in a list that exposes no rows, only its
// bounding rectangle.
func (a *App) picker() *node {
	return el(automation.ClassWindow, "Select Entry Point", pickerRect,
		el(automation.ClassPane, "", pickerBodyRect,
			el(automation.ClassPane, "", pickerBodyRect,
				el(automation.ClassPane, "", pickerBodyRect,
					el(automation.ClassPane, "", pickerListRect),
					el(automation.ClassPane, "", pickerButtonsRect,
						el(automation.ClassButton, "OK", pickerButtonsRect))))),
	).set(automation.PropIsModal, "False").set(automation.PropProcessID, strconv.Itoa(a.pid))
}

func (a *App) contextMenu() *node {
	return a.menu("Context", menuRect(*a.menuAt, len(contextMenuItems)), contextMenuItems)
}

func (a *App) menu(name string, r automation.Rect, items []string) *node {
	m := el(automation.ClassMenu, name, r).set(automation.PropProcessID, strconv.Itoa(a.pid))
	for i, item := range items {
		m.add(el(automation.ClassMenuItem, item, itemRect(r, i)))
	}
	return m
}

// desktopSnapshot lists the top-level windows and pop-up menus. Callers hold
// a.mu.
func (a *App) desktopSnapshot() *node {
	desktop := el(automation.ClassPane, "Desktop 1", desktopRect,
		el(automation.ClassWindow, "Program Manager", desktopRect).set(automation.PropProcessID, "4"),
		a.rootSnapshot(),
	)
	if a.OtherMenus {
		other := el(automation.ClassMenu, "Other", automation.Rect{X: 1500, Y: 100, Width: menuWidth, Height: 3 * menuItemHeight}).
			set(automation.PropProcessID, "4")
		for i, item := range []string{"Cut", "Copy", "Paste"} {
			other.add(el(automation.ClassMenuItem, item, itemRect(other.rect, i)))
		}
		desktop.add(other)
	}
	if a.submenu {
		desktop.add(a.menu("Copy to clipboard", a.submenuRect(), copyMenuItems))
	}
	return desktop
}
