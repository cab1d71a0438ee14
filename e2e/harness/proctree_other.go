//go:build !linux && !windows && !darwin

package harness

// No supported facility exposes parent pids here; interpreter launches
// cannot be resolved to their UI child.
func snapshotProcesses() ([]ProcessInfo, error) {
	return nil, ErrProcessTableUnsupported
}
