package simulated

import "github.com/arelle/uiprobe/e2e/automation"

// Screen geometry of the simulated application. The main window sits at the
// origin, so window-relative and screen coordinates coincide for it.
var (
	mainWindowRect = automation.Rect{X: 0, Y: 0, Width: 1200, Height: 800}
	clientRect     = automation.Rect{X: 0, Y: 30, Width: 1200, Height: 770}
	iconsRect      = automation.Rect{X: 0, Y: 30, Width: 1200, Height: 30}
	mainAreaRect   = automation.Rect{X: 0, Y: 60, Width: 1200, Height: 720}
	statusRect     = automation.Rect{X: 0, Y: 780, Width: 1200, Height: 20}

	tablesAndFactViewRect = automation.Rect{X: 0, Y: 60, Width: 1200, Height: 500}
	tablesAndTabBarRect   = automation.Rect{X: 0, Y: 60, Width: 600, Height: 500}
	tablesRect            = automation.Rect{X: 0, Y: 60, Width: 600, Height: 470}
	tablesTabBarRect      = automation.Rect{X: 0, Y: 530, Width: 600, Height: 30}
	factViewAndTabBarRect = automation.Rect{X: 600, Y: 60, Width: 600, Height: 500}
	messagesAndTabBarRect = automation.Rect{X: 0, Y: 560, Width: 1200, Height: 220}
	messagesRect          = automation.Rect{X: 0, Y: 560, Width: 1200, Height: 190}
	messagesTabBarRect    = automation.Rect{X: 0, Y: 750, Width: 1200, Height: 30}

	dialogRect       = automation.Rect{X: 300, Y: 200, Width: 600, Height: 400}
	fileNameRect     = automation.Rect{X: 420, Y: 520, Width: 360, Height: 24}
	dialogOpenRect   = automation.Rect{X: 700, Y: 560, Width: 90, Height: 26}
	dialogCancelRect = automation.Rect{X: 800, Y: 560, Width: 90, Height: 26}

	pickerRect        = automation.Rect{X: 350, Y: 150, Width: 500, Height: 500}
	pickerBodyRect    = automation.Rect{X: 350, Y: 180, Width: 500, Height: 470}
	pickerListRect    = automation.Rect{X: 350, Y: 180, Width: 500, Height: 400}
	pickerButtonsRect = automation.Rect{X: 350, Y: 600, Width: 500, Height: 50}

	desktopRect = automation.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
)

const menuItemHeight = 24
const menuWidth = 200

// Context menu of the tables view and its copy sub-menu.
var (
	contextMenuItems = []string{"Expand", "Collapse", "Expand all", "Collapse all", "Copy to clipboard"}
	copyMenuItems    = []string{"Copy cell", "Copy row", "Copy table"}
)

const (
	copySubmenuItem = 4
	copyTableItem   = 2
)

func menuRect(at automation.Point, items int) automation.Rect {
	return automation.Rect{X: float64(at.X), Y: float64(at.Y), Width: menuWidth, Height: float64(items * menuItemHeight)}
}

func itemRect(menu automation.Rect, i int) automation.Rect {
	return automation.Rect{X: menu.X, Y: menu.Y + float64(i*menuItemHeight), Width: menu.Width, Height: menuItemHeight}
}

// itemAt returns the index of the menu item under p, or -1.
func itemAt(menu automation.Rect, items int, p automation.Point) int {
	if !menu.Contains(p) {
		return -1
	}
	i := int((float64(p.Y) - menu.Y) / menuItemHeight)
	if i >= items {
		return -1
	}
	return i
}

// rowAt maps a point inside a list with one header row to an entry index,
// or -1 when it hits the header or falls outside.
func rowAt(list automation.Rect, count int, p automation.Point) int {
	if count == 0 || !list.Contains(p) {
		return -1
	}
	rowHeight := list.Height / float64(count+1)
	row := int((float64(p.Y)-list.Y)/rowHeight) - 1
	if row < 0 || row >= count {
		return -1
	}
	return row
}
