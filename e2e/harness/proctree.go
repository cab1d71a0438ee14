package harness

import (
	"fmt"
	"time"
)

// Process resolution timing for interpreter launches.
const (
	ResolveTimeout  = 10 * time.Second
	ResolveInterval = 500 * time.Millisecond
)

// ProcessInfo is one row of the OS process table.
type ProcessInfo struct {
	PID  int
	PPID int
	Name string
}

// ProcessTable lists running processes with their parent ids.
type ProcessTable interface {
	Snapshot() ([]ProcessInfo, error)
}

// ProcessTableFunc adapts a function to ProcessTable.
type ProcessTableFunc func() ([]ProcessInfo, error)

func (f ProcessTableFunc) Snapshot() ([]ProcessInfo, error) { return f() }

// SystemProcessTable reads the process table of the running OS.
func SystemProcessTable() ProcessTable {
	return ProcessTableFunc(snapshotProcesses)
}

// FindChild returns the first process in procs whose parent is ppid.
func FindChild(procs []ProcessInfo, ppid int) (ProcessInfo, bool) {
	for _, p := range procs {
		if p.PPID == ppid && p.PID != ppid {
			return p, true
		}
	}
	return ProcessInfo{}, false
}

// ResolveUIProcess returns the pid hosting the UI. Built executables host it
// themselves; an isolated interpreter hands off to a child, which is polled
// for. Zero fields in spec fall back to ResolveTimeout and ResolveInterval.
func ResolveUIProcess(plan Plan, launched int, table ProcessTable, spec PollSpec) (int, error) {
	src, ok := plan.(*SourceRun)
	if !ok || !src.UsesIsolatedEnvironment {
		return launched, nil
	}

	if spec.Timeout <= 0 {
		spec.Timeout = ResolveTimeout
	}
	if spec.Interval <= 0 {
		spec.Interval = ResolveInterval
	}
	if spec.What == "" {
		spec.What = fmt.Sprintf("child of pid %d", launched)
	}

	child, err := Poll(spec, func() Result[ProcessInfo] {
		procs, err := table.Snapshot()
		if err != nil {
			return Fail[ProcessInfo](err)
		}
		if c, found := FindChild(procs, launched); found {
			return Done(c)
		}
		return Pending[ProcessInfo](fmt.Sprintf("%d processes, none parented by %d", len(procs), launched))
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrProcessResolution, err)
	}
	return child.PID, nil
}
