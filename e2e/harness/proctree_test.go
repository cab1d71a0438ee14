package harness

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindChild(t *testing.T) {
	procs := []ProcessInfo{
		{PID: 1, PPID: 0, Name: "init"},
		{PID: 40, PPID: 1, Name: "python"},
		{PID: 41, PPID: 40, Name: "python"},
		{PID: 42, PPID: 40, Name: "python"},
	}

	got, ok := FindChild(procs, 40)
	require.True(t, ok)
	assert.Equal(t, 41, got.PID)

	_, ok = FindChild(procs, 41)
	assert.False(t, ok)
}

// growingTable gains the UI child after a number of snapshots.
type growingTable struct {
	calls   int
	appears int
	parent  int
}

func (g *growingTable) Snapshot() ([]ProcessInfo, error) {
	g.calls++
	procs := []ProcessInfo{{PID: g.parent, PPID: 1}}
	if g.calls >= g.appears {
		procs = append(procs, ProcessInfo{PID: 777, PPID: g.parent, Name: "python"})
	}
	return procs, nil
}

func TestResolveUIProcess(t *testing.T) {
	spec := PollSpec{Timeout: time.Second, Interval: 100 * time.Millisecond}

	t.Run("built run is the identity", func(t *testing.T) {
		table := &growingTable{appears: 1, parent: 10}
		pid, err := ResolveUIProcess(&BuiltRun{}, 10, table, spec)
		require.NoError(t, err)
		assert.Equal(t, 10, pid)
		assert.Zero(t, table.calls)
	})

	t.Run("non isolated source run is the identity", func(t *testing.T) {
		table := &growingTable{appears: 1, parent: 10}
		pid, err := ResolveUIProcess(&SourceRun{}, 10, table, spec)
		require.NoError(t, err)
		assert.Equal(t, 10, pid)
		assert.Zero(t, table.calls)
	})

	t.Run("isolated source run waits for the child", func(t *testing.T) {
		table := &growingTable{appears: 4, parent: 10}
		s := spec
		s.Clock = newFakeClock()
		pid, err := ResolveUIProcess(&SourceRun{UsesIsolatedEnvironment: true}, 10, table, s)
		require.NoError(t, err)
		assert.Equal(t, 777, pid)
		assert.Equal(t, 4, table.calls)
	})

	t.Run("missing child is a resolution error", func(t *testing.T) {
		table := &growingTable{appears: 1 << 30, parent: 10}
		s := spec
		s.Clock = newFakeClock()
		_, err := ResolveUIProcess(&SourceRun{UsesIsolatedEnvironment: true}, 10, table, s)
		assert.ErrorIs(t, err, ErrProcessResolution)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Equal(t, s.MinAttempts(), table.calls)
	})

	t.Run("unsupported platform fails at once", func(t *testing.T) {
		calls := 0
		table := ProcessTableFunc(func() ([]ProcessInfo, error) {
			calls++
			return nil, ErrProcessTableUnsupported
		})
		s := spec
		s.Clock = newFakeClock()
		_, err := ResolveUIProcess(&SourceRun{UsesIsolatedEnvironment: true}, 10, table, s)
		assert.ErrorIs(t, err, ErrProcessResolution)
		assert.ErrorIs(t, err, ErrProcessTableUnsupported)
		assert.False(t, errors.Is(err, ErrTimeout))
		assert.Equal(t, 1, calls)
	})
}
