package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/creack/pty"
)

// Terminal queries sent by the prompt library on startup and the replies a
// dark terminal with the cursor at the origin would give.
var terminalReplies = []struct {
	query, reply string
}{
	{"\x1b]11;?", "\x1b]11;rgb:0000/0000/0000\x07"},
	{"\x1b[6n", "\x1b[1;1R"},
}

// ptyWindow is large enough that the prompt renders without wrapping.
var ptyWindow = &pty.Winsize{Rows: 40, Cols: 120}

// ptyProgram is a program running on a pseudo-terminal.
type ptyProgram struct {
	pty       *os.File
	cmd       *exec.Cmd
	output    bytes.Buffer
	outputMux sync.Mutex // Protects output buffer access
	answered  []int      // replies sent per entry of terminalReplies
	done      chan struct{}
	t         *testing.T
}

// getContextTimeout returns appropriate timeout for waiting on output
// Longer in CI due to race detector and slower environments
func getContextTimeout() time.Duration {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return 10 * time.Second
	}
	return 5 * time.Second
}

// startOnPty runs binary with args on a new pty.
func startOnPty(t *testing.T, binary string, env []string, args ...string) (*ptyProgram, error) {
	t.Helper()

	cmd := exec.Command(binary, args...)
	cmd.Env = append(append(cleanEnviron(), env...), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, ptyWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s with pty: %w", binary, err)
	}

	p := &ptyProgram{
		pty:      ptmx,
		cmd:      cmd,
		answered: make([]int, len(terminalReplies)),
		done:     make(chan struct{}),
		t:        t,
	}
	go p.readLoop()
	return p, nil
}

// readLoop continuously reads from the pty, appends to the output buffer
// and answers terminal queries
func (p *ptyProgram) readLoop() {
	defer close(p.done)
	buf := make([]byte, 4096)
	for {
		n, err := p.pty.Read(buf)
		if n > 0 {
			p.outputMux.Lock()
			p.output.Write(buf[:n])
			replies := p.pendingReplies()
			p.outputMux.Unlock()
			if replies != "" {
				if _, werr := p.pty.Write([]byte(replies)); werr != nil {
					p.t.Logf("pty reply error: %v", werr)
				}
			}
		}
		if err != nil {
			if err != io.EOF {
				p.t.Logf("pty read error: %v", err)
			}
			return
		}
	}
}

// pendingReplies returns the replies owed for queries seen so far. Queries
// split across reads are answered once the rest arrives. Caller holds
// outputMux.
func (p *ptyProgram) pendingReplies() string {
	var b strings.Builder
	out := p.output.String()
	for i, r := range terminalReplies {
		seen := strings.Count(out, r.query)
		for ; p.answered[i] < seen; p.answered[i]++ {
			b.WriteString(r.reply)
		}
	}
	return b.String()
}

// waitForText waits for specific text to appear in the output
func (p *ptyProgram) waitForText(ctx context.Context, text string) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for text '%s': %w\nGot output:\n%s",
				text, ctx.Err(), p.getOutput())
		case <-ticker.C:
			if strings.Contains(p.getOutput(), text) {
				return nil
			}
		}
	}
}

// send writes a string to the pty (simulating user input)
func (p *ptyProgram) send(s string) error {
	_, err := p.pty.Write([]byte(s))
	return err
}

// wait waits for the program to exit, killing it after timeout.
func (p *ptyProgram) wait(timeout time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-time.After(timeout):
		p.t.Logf("Process didn't exit within timeout, force killing")
		p.cmd.Process.Kill()
		err = <-done
	}
	p.pty.Close()
	<-p.done
	return err
}

// getOutput returns the current accumulated output without escape sequences
func (p *ptyProgram) getOutput() string {
	p.outputMux.Lock()
	defer p.outputMux.Unlock()
	return stripansi.Strip(p.output.String())
}

// TestInteractiveRunPromptsForScenarios checks that 'uiprobe run' on a
// terminal offers the scenario picker and that cancelling it fails the run
// before any application is launched.
func TestInteractiveRunPromptsForScenarios(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping interactive e2e test in short mode")
	}
	if runtime.GOOS == "windows" {
		t.Skip("creack/pty has no Windows support")
	}

	tmpDir := t.TempDir()
	binary := buildUIProbeBinary(t, tmpDir)

	p, err := startOnPty(t, binary, []string{"ARELLE_SOURCE_ROOT=" + tmpDir}, "run")
	if err != nil {
		t.Fatalf("Failed to start uiprobe: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), getContextTimeout())
	defer cancel()
	if err := p.waitForText(ctx, "Scenarios to run"); err != nil {
		p.cmd.Process.Kill()
		p.wait(time.Second)
		t.Fatalf("Scenario picker did not appear: %v", err)
	}
	for _, name := range []string{"open", "load-document"} {
		if !strings.Contains(p.getOutput(), name) {
			t.Errorf("picker does not offer %q:\n%s", name, p.getOutput())
		}
	}

	// Ctrl-C cancels the prompt
	if err := p.send("\x03"); err != nil {
		t.Fatalf("Failed to send Ctrl-C: %v", err)
	}
	err = p.wait(getContextTimeout())
	if err == nil {
		t.Fatalf("expected a cancelled picker to fail the run\nOutput:\n%s", p.getOutput())
	}
	if strings.Contains(p.getOutput(), "process started") {
		t.Errorf("application was launched after cancelling:\n%s", p.getOutput())
	}
}

// TestNonInteractiveRunSkipsPrompt checks that naming an unknown scenario
// fails without prompting.
func TestNonInteractiveRunSkipsPrompt(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	binary := buildUIProbeBinary(t, t.TempDir())
	output, err := runUIProbe(t, binary, nil, "run", "no-such-scenario")
	if err == nil {
		t.Fatalf("expected failure for unknown scenario\nOutput: %s", output)
	}
	if strings.Contains(output, "Scenarios to run") {
		t.Errorf("picker shown without a terminal:\n%s", output)
	}
	if !strings.Contains(output, `unknown scenario "no-such-scenario"`) {
		t.Errorf("expected unknown scenario error:\n%s", output)
	}
}
