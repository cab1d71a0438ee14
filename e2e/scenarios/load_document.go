package scenarios

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arelle/uiprobe/e2e/automation"
	"github.com/arelle/uiprobe/e2e/harness"
	"github.com/google/go-cmp/cmp"
)

const (
	// DialogTimeout bounds the wait for the open-file dialog.
	DialogTimeout = 20 * time.Second
	// LoadTimeout bounds the wait for a loaded document to populate the UI.
	LoadTimeout = time.Minute
)

const (
	fileNameField = "File name:"
	// copyMenuIndex is "Copy to clipboard" in the tables context menu and
	// copyTableIndex is "Copy table" in its sub-menu.
	copyMenuIndex  = 4
	copySubItems   = 3
	copyTableIndex = 2

	outlineKey = "outline"
)

var (
	archiveListPath = harness.MustParsePath("/Pane/Pane/Pane/Pane[1]")
	// loadedPath exists once the tab panes and their content are created.
	loadedPath       = harness.MustParsePath("/Pane/Pane/Pane/Pane/Pane/Pane/Pane")
	iconsAndMainPath = harness.MustParsePath("/Pane/Pane")
	// tablesPath runs from the icons-and-main-area pane through the main
	// area, the tables-and-fact-view split and the tables tab set.
	tablesPath = harness.Children(0, 1, 1, 0)
)

// LoadDocument opens the sample archive, loads its entry point and checks
// the presentation outline the tables view copies to the clipboard.
func LoadDocument() harness.Scenario {
	return harness.Scenario{
		Name:         "load-document",
		Description:  "load the sample report and copy its presentation structure",
		NeedsFixture: true,
		Steps: []harness.Step{
			{Name: "open file dialog", To: harness.StateDialogOpen, Run: openFileDialog},
			{Name: "enter archive path", To: harness.StateDocumentSelected, Run: enterArchivePath},
			{Name: "pick entry point", To: harness.StateArchiveMemberPicked, Run: pickEntryPoint},
			{Name: "wait for document", To: harness.StateDocumentLoaded, Run: waitForDocument},
			{Name: "copy outline", To: harness.StateDataCopied, Run: copyOutline},
			{Name: "verify outline", To: harness.StateVerified, Run: verifyOutline},
		},
	}
}

var errNoFixture = errors.New("no sample archive loaded")

var isModal = harness.Match(func(n automation.Node) (bool, error) {
	v, ok, err := n.Property(automation.PropIsModal)
	return ok && strings.EqualFold(v, "true"), err
})

// openDialog finds the modal dialog among the main window's children only,
// not its descendants.
func openDialog(root automation.Node) (automation.Node, error) {
	return harness.FindFirst(root, harness.ScopeChildren, harness.And(harness.ByClass(automation.ClassWindow), isModal))
}

func openFileDialog(c *harness.StepContext) error {
	if err := c.Chord(automation.KeyControl, automation.Letter('o')); err != nil {
		return err
	}
	if err := c.Settle(); err != nil {
		return err
	}
	_, err := c.WaitFor(harness.Wait{What: "open file dialog", Timeout: DialogTimeout}, openDialog)
	return err
}

func enterArchivePath(c *harness.StepContext) error {
	if c.Fixture == nil {
		return errNoFixture
	}
	combo, err := c.WaitFor(harness.Wait{What: "file name field"}, func(root automation.Node) (automation.Node, error) {
		dialog, err := openDialog(root)
		if err != nil {
			return nil, err
		}
		return harness.FindFirst(dialog, harness.ScopeSubtree, harness.And(
			harness.ByClass(automation.ClassComboBox),
			harness.ByName(fileNameField)))
	})
	if err != nil {
		return err
	}

	c.Logger.Info("enter path to document", "path", c.Fixture.ArchivePath)
	if err := c.ClickCenter(automation.LeftButton, combo); err != nil {
		return err
	}
	if err := c.Chord(automation.KeyControl, automation.Letter('a')); err != nil {
		return err
	}
	if err := c.Type(c.Fixture.ArchivePath); err != nil {
		return err
	}
	if err := c.Settle(); err != nil {
		return err
	}
	c.Logger.Info("open document")
	if err := c.Press(automation.KeyEnter); err != nil {
		return err
	}
	return c.Settle()
}

// pickEntryPoint clicks the entry point's row in the archive picker. The
// list does not expose its rows, so the row is computed from the list's
// bounds and the archive's entry order.
func pickEntryPoint(c *harness.StepContext) error {
	if c.Fixture == nil {
		return errNoFixture
	}
	list, err := c.WaitFor(harness.Wait{What: "archive entry list"}, func(root automation.Node) (automation.Node, error) {
		picker, err := harness.FindFirst(root, harness.ScopeChildren, harness.ByClass(automation.ClassWindow))
		if err != nil {
			return nil, err
		}
		return harness.Follow(picker, archiveListPath)
	})
	if err != nil {
		return err
	}
	r, err := list.Rect()
	if err != nil {
		return err
	}
	at, err := harness.RowPoint(r, c.Fixture.EntryCount(), c.Fixture.EntryIndex)
	if err != nil {
		return err
	}

	c.Logger.Info("select file inside document archive", "entry", c.Fixture.EntryPoint, "row", c.Fixture.EntryIndex)
	if err := c.Click(automation.LeftButton, at); err != nil {
		return err
	}
	if err := c.Press(automation.KeyTab, automation.KeyEnter); err != nil {
		return err
	}
	return c.Settle()
}

func waitForDocument(c *harness.StepContext) error {
	c.Logger.Info("wait for document to load and UI to populate")
	_, err := c.WaitFor(harness.Wait{What: "document panes", Timeout: LoadTimeout, IgnoreErrors: true},
		func(root automation.Node) (automation.Node, error) {
			return harness.Follow(root, loadedPath)
		})
	return err
}

func copyOutline(c *harness.StepContext) error {
	tables, err := c.Find(func(root automation.Node) (automation.Node, error) {
		iconsAndMain, err := harness.Follow(root, iconsAndMainPath)
		if err != nil {
			return nil, err
		}
		return harness.Follow(iconsAndMain, tablesPath)
	})
	if err != nil {
		return fmt.Errorf("tables view: %w", err)
	}

	c.Logger.Info("copy presentation structure to clipboard")
	if err := c.ClickCenter(automation.RightButton, tables); err != nil {
		return err
	}
	if err := c.Settle(); err != nil {
		return err
	}

	menu, err := c.WaitFor(harness.Wait{What: "context menu"}, contextMenu(c.Session))
	if err != nil {
		return err
	}
	if err := clickItem(c, menu, copyMenuIndex); err != nil {
		return err
	}

	sub, err := c.WaitFor(harness.Wait{What: "copy sub-menu", Desktop: true}, processMenu(c.Session.ProcessID(), copySubItems))
	if err != nil {
		return err
	}
	if err := clickItem(c, sub, copyTableIndex); err != nil {
		return err
	}

	c.Logger.Info("get clipboard text")
	text, err := c.Clipboard.ReadText()
	if err != nil {
		return fmt.Errorf("reading clipboard: %w", err)
	}
	c.Put(outlineKey, text)
	return nil
}

func verifyOutline(c *harness.StepContext) error {
	text, ok := c.Get(outlineKey)
	if !ok {
		return errors.New("no clipboard text captured")
	}
	want := strings.Split(ExpectedOutline, "\n")
	got := strings.Split(harness.NormalizeLineEndings(text), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		return fmt.Errorf("presentation outline mismatch (-want +got):\n%s", diff)
	}
	return nil
}

// contextMenu finds the main window's context menu. Some toolkits parent it
// to the window, others show it as a top-level menu of the process.
func contextMenu(s automation.Session) harness.Locate {
	return func(root automation.Node) (automation.Node, error) {
		menu, err := harness.FindFirst(root, harness.ScopeChildren, harness.ByClass(automation.ClassMenu))
		if !errors.Is(err, harness.ErrElementNotFound) {
			return menu, err
		}
		desktop, err := s.Desktop()
		if err != nil {
			return nil, err
		}
		return harness.FindFirst(desktop, harness.ScopeChildren, harness.And(
			harness.ByClass(automation.ClassMenu),
			harness.ByProperty(automation.PropProcessID, strconv.Itoa(s.ProcessID())),
			hasItems(func(n int) bool { return n != copySubItems })))
	}
}

// processMenu finds the single top-level menu of pid with the given number
// of items.
func processMenu(pid, items int) harness.Locate {
	return func(desktop automation.Node) (automation.Node, error) {
		menus, err := harness.FindAll(desktop, harness.ScopeChildren, harness.And(
			harness.ByClass(automation.ClassMenu),
			harness.ByProperty(automation.PropProcessID, strconv.Itoa(pid)),
			hasItems(func(n int) bool { return n == items })))
		if err != nil {
			return nil, err
		}
		switch len(menus) {
		case 0:
			return nil, harness.ErrElementNotFound
		case 1:
			return menus[0], nil
		default:
			return nil, fmt.Errorf("%d menus of pid %d have %d items", len(menus), pid, items)
		}
	}
}

func hasItems(pred func(int) bool) harness.Condition {
	return harness.Match(func(n automation.Node) (bool, error) {
		items, err := menuItems(n)
		return err == nil && pred(len(items)), err
	})
}

func menuItems(menu automation.Node) ([]automation.Node, error) {
	return harness.FindAll(menu, harness.ScopeChildren, harness.ByClass(automation.ClassMenuItem))
}

func clickItem(c *harness.StepContext, menu automation.Node, index int) error {
	items, err := menuItems(menu)
	if err != nil {
		return err
	}
	if index >= len(items) {
		name, _ := menu.Name()
		return fmt.Errorf("menu %q has %d items, want item %d", name, len(items), index)
	}
	name, _ := items[index].Name()
	c.Logger.Debug("menu item", "index", index, "name", name)
	if err := c.ClickCenter(automation.LeftButton, items[index]); err != nil {
		return err
	}
	return c.Settle()
}
