//go:build linux

package harness

import (
	"fmt"

	"github.com/prometheus/procfs"
)

func snapshotProcesses() ([]ProcessInfo, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, fmt.Errorf("opening procfs: %w", err)
	}
	return snapshotFS(fs)
}

func snapshotFS(fs procfs.FS) ([]ProcessInfo, error) {
	all, err := fs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	procs := make([]ProcessInfo, 0, len(all))
	for _, p := range all {
		stat, err := p.Stat()
		if err != nil {
			// exited between listing and reading
			continue
		}
		procs = append(procs, ProcessInfo{PID: stat.PID, PPID: stat.PPID, Name: stat.Comm})
	}
	return procs, nil
}
