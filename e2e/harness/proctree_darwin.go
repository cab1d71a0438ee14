//go:build darwin

package harness

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func snapshotProcesses() ([]ProcessInfo, error) {
	kprocs, err := unix.SysctlKinfoProcSlice("kern.proc.all")
	if err != nil {
		return nil, fmt.Errorf("sysctl kern.proc.all: %w", err)
	}
	procs := make([]ProcessInfo, 0, len(kprocs))
	for _, kp := range kprocs {
		procs = append(procs, ProcessInfo{
			PID:  int(kp.Proc.P_pid),
			PPID: int(kp.Eproc.Ppid),
			Name: unix.ByteSliceToString(kp.Proc.P_comm[:]),
		})
	}
	return procs, nil
}
