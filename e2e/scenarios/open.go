package scenarios

import (
	"fmt"
	"strings"

	"github.com/arelle/uiprobe/e2e/automation"
	"github.com/arelle/uiprobe/e2e/harness"
)

// TitleKeyword must appear in the main window title.
const TitleKeyword = "arelle"

// Open checks that the application starts and titles its main window.
func Open() harness.Scenario {
	return harness.Scenario{
		Name:        "open",
		Description: "main window appears with a title naming the application",
		Steps: []harness.Step{
			{Name: "check title", To: harness.StateVerified, Run: checkTitle},
		},
	}
}

func checkTitle(c *harness.StepContext) error {
	win, err := c.WaitFor(harness.Wait{What: "window title"}, titled)
	if err != nil {
		return err
	}
	title, err := win.Name()
	if err != nil {
		return err
	}
	if !strings.Contains(title, TitleKeyword) {
		return fmt.Errorf("window title %q does not contain %q", title, TitleKeyword)
	}
	return nil
}

// titled returns the root once it has a non-empty title.
func titled(root automation.Node) (automation.Node, error) {
	title, err := root.Name()
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, harness.ErrElementNotFound
	}
	return root, nil
}
