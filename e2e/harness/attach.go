package harness

import (
	"fmt"

	"github.com/arelle/uiprobe/e2e/automation"
)

// Attach connects driver to pid, retrying any error until spec's timeout
// since a freshly started process may not expose a window yet. Calls on the
// returned session are not retried.
func Attach(driver automation.Driver, pid int, timeouts automation.Timeouts, spec PollSpec) (automation.Session, error) {
	spec.SwallowErrors = true
	if spec.What == "" {
		spec.What = fmt.Sprintf("%s attach to pid %d", driver.Name(), pid)
	}
	session, err := Poll(spec, func() Result[automation.Session] {
		s, err := driver.Attach(pid, timeouts)
		if err != nil {
			return Fail[automation.Session](err)
		}
		return Done(s)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAttach, err)
	}
	return session, nil
}
