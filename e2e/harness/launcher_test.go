package harness

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess is not a real test. It is the body of the processes the
// launcher tests start.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("HELPER_MODE") {
	case "echo":
		fmt.Println("hello from stdout")
		fmt.Fprintln(os.Stderr, "hello from stderr")
	case "color":
		fmt.Println("\x1b[32mgreen\x1b[0m text")
	case "sleep":
		fmt.Println("ready")
		time.Sleep(time.Minute)
	case "spawn":
		child := exec.Command(os.Args[0], "-test.run=^TestHelperProcess$")
		child.Env = helperEnv("sleep")
		if err := child.Start(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Println("child", child.Process.Pid)
		time.Sleep(time.Minute)
	}
	os.Exit(0)
}

func helperCommand() LaunchCommand {
	return LaunchCommand{Path: os.Args[0], Arg: "-test.run=^TestHelperProcess$"}
}

func helperEnv(mode string) []string {
	return append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "HELPER_MODE="+mode)
}

// syncBuffer lets a test read what log handlers wrote from other goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func bufferLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func waitExited(t *testing.T, p *ManagedProcess) {
	t.Helper()
	select {
	case <-p.Exited():
	case <-time.After(10 * time.Second):
		t.Fatalf("pid %d did not exit", p.PID)
	}
}

func TestLaunchDrainsOutput(t *testing.T) {
	logger, buf := bufferLogger()

	p, err := Launch(helperCommand(), LaunchOptions{Env: helperEnv("echo"), Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), p.PPID)

	waitExited(t, p)
	require.NoError(t, p.Terminate(5*time.Second))
	assert.NoError(t, p.ExitErr())

	logs := buf.String()
	assert.Contains(t, logs, `stream=stdout line="hello from stdout"`)
	assert.Contains(t, logs, `stream=stderr line="hello from stderr"`)
}

func TestLaunchTerminateKillsRunningProcess(t *testing.T) {
	logger, _ := bufferLogger()

	p, err := Launch(helperCommand(), LaunchOptions{Env: helperEnv("sleep"), Logger: logger})
	require.NoError(t, err)

	select {
	case <-p.Exited():
		t.Fatal("sleeping helper exited early")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, p.Terminate(5*time.Second))
	select {
	case <-p.Exited():
	default:
		t.Fatal("Terminate returned before the process was reaped")
	}
	assert.NoError(t, p.Terminate(5*time.Second), "second Terminate is a no-op")
}

func TestTerminateJoinsDrainsWhenKillFails(t *testing.T) {
	logger, buf := bufferLogger()

	// A released handle refuses every signal, so Kill fails without
	// touching a real process.
	proc, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, proc.Release())

	p := newManagedProcess(LaunchCommand{Path: "stuck"}, proc, logger)
	r, w := io.Pipe()
	p.drains.Go(func() { p.drain(r, "stdout", false) })
	go func() {
		time.Sleep(50 * time.Millisecond)
		fmt.Fprintln(w, "late line")
		w.Close()
	}()

	err = p.Terminate(5 * time.Second)
	assert.ErrorContains(t, err, "failed to kill")
	assert.Contains(t, buf.String(), `line="late line"`, "drains must be joined before Terminate returns")
}

func TestLaunchMissingExecutable(t *testing.T) {
	_, err := Launch(LaunchCommand{Path: "/definitely/not/here/arelleGUI"}, LaunchOptions{})
	assert.Error(t, err)
}

func TestLaunchPTYStripsEscapes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("ConPTY output framing differs; covered by the pipe tests")
	}
	logger, buf := bufferLogger()

	p, err := Launch(helperCommand(), LaunchOptions{PTY: true, Env: helperEnv("color"), Logger: logger})
	require.NoError(t, err)
	waitExited(t, p)
	require.NoError(t, p.Terminate(5*time.Second))

	logs := buf.String()
	assert.Contains(t, logs, `stream=pty line="green text"`)
	assert.NotContains(t, logs, "\x1b[")
}

func TestResolveUIProcessFindsRealChild(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping process tree test in short mode")
	}
	if _, err := SystemProcessTable().Snapshot(); err != nil {
		t.Skipf("process table unavailable: %v", err)
	}
	logger, buf := bufferLogger()

	p, err := Launch(helperCommand(), LaunchOptions{Env: helperEnv("spawn"), Logger: logger})
	require.NoError(t, err)
	defer p.Terminate(5 * time.Second)

	plan := &SourceRun{UsesIsolatedEnvironment: true}
	pid, err := ResolveUIProcess(plan, p.PID, SystemProcessTable(), PollSpec{Timeout: 5 * time.Second, Interval: 50 * time.Millisecond})
	require.NoError(t, err)
	defer KillPID(pid)

	assert.NotEqual(t, p.PID, pid)
	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "child "+strconv.Itoa(pid))
	}, 5*time.Second, 20*time.Millisecond)
}
