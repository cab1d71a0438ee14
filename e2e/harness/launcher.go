package harness

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/sourcegraph/conc/pool"
)

// pipeWaitDelay bounds how long Wait keeps copying output after the process
// exits, in case a descendant inherited the pipes.
const pipeWaitDelay = 2 * time.Second

// LaunchOptions control how a process is started.
type LaunchOptions struct {
	// PTY attaches the process to a pseudo-terminal instead of pipes.
	PTY    bool
	Dir    string
	Env    []string
	Logger *slog.Logger
}

// ManagedProcess is a process started by the harness. Whoever launched it
// must call Terminate.
type ManagedProcess struct {
	PID     int
	PPID    int
	Command LaunchCommand

	process *os.Process
	logger  *slog.Logger
	drains  *pool.Pool

	exited  chan struct{}
	waitErr error
	// closeOutput releases a terminal whose reader would otherwise wait for
	// every holder of the other side.
	closeOutput func() error

	terminateOnce sync.Once
	terminateErr  error
}

// Launch starts cmd and returns as soon as it is running. Output is logged
// line by line at debug level until the process goes away.
func Launch(cmd LaunchCommand, opts LaunchOptions) (*ManagedProcess, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.PTY {
		return launchPTY(cmd, opts, logger)
	}

	c := exec.Command(cmd.Path, cmd.Args()...)
	c.Dir = opts.Dir
	c.Env = opts.Env
	c.WaitDelay = pipeWaitDelay

	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	c.Stdout = outW
	c.Stderr = errW

	if err := c.Start(); err != nil {
		outW.Close()
		errW.Close()
		return nil, fmt.Errorf("failed to start %s: %w", cmd, err)
	}

	p := newManagedProcess(cmd, c.Process, logger)
	p.drains.Go(func() { p.drain(outR, "stdout", false) })
	p.drains.Go(func() { p.drain(errR, "stderr", false) })
	go func() {
		p.waitErr = c.Wait()
		outW.Close()
		errW.Close()
		close(p.exited)
	}()

	logger.Info("process started", "pid", p.PID, "command", cmd.String())
	return p, nil
}

func launchPTY(cmd LaunchCommand, opts LaunchOptions, logger *slog.Logger) (*ManagedProcess, error) {
	pp, err := startPTY(cmd, opts.Dir, opts.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s with pty: %w", cmd, err)
	}

	p := newManagedProcess(cmd, pp.process, logger)
	p.closeOutput = pp.output.Close
	p.drains.Go(func() { p.drain(pp.output, "pty", true) })
	go func() {
		p.waitErr = pp.wait()
		close(p.exited)
	}()

	logger.Info("process started", "pid", p.PID, "command", cmd.String(), "pty", true)
	return p, nil
}

func newManagedProcess(cmd LaunchCommand, proc *os.Process, logger *slog.Logger) *ManagedProcess {
	return &ManagedProcess{
		PID:     proc.Pid,
		PPID:    os.Getpid(),
		Command: cmd,
		process: proc,
		logger:  logger,
		drains:  pool.New(),
		exited:  make(chan struct{}),
	}
}

// drain forwards each line of r to the logger. A read error ends the scan
// but the rest is still consumed so the writer never blocks.
func (p *ManagedProcess) drain(r io.Reader, stream string, terminal bool) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if terminal {
			line = stripansi.Strip(strings.TrimRight(line, "\r"))
		}
		p.logger.Debug("process output", "pid", p.PID, "stream", stream, "line", line)
	}
	if err := sc.Err(); err != nil && !isTerminalClosed(err) {
		p.logger.Debug("output drain stopped", "pid", p.PID, "stream", stream, "error", err)
		_, _ = io.Copy(io.Discard, r)
	}
}

// Exited is closed once the process has been reaped.
func (p *ManagedProcess) Exited() <-chan struct{} { return p.exited }

// ExitErr is the result of waiting for the process. Only valid after Exited.
func (p *ManagedProcess) ExitErr() error { return p.waitErr }

// Terminate kills the process if it is still running, waits up to grace for
// it to be reaped and joins the output drains. It is safe to call twice.
func (p *ManagedProcess) Terminate(grace time.Duration) error {
	p.terminateOnce.Do(func() {
		p.terminateErr = p.terminate(grace)
	})
	return p.terminateErr
}

func (p *ManagedProcess) terminate(grace time.Duration) error {
	select {
	case <-p.exited:
	default:
		if err := p.process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return errors.Join(fmt.Errorf("failed to kill pid %d: %w", p.PID, err), p.joinDrains(grace))
		}
		select {
		case <-p.exited:
		case <-time.After(grace):
			p.logger.Warn("process did not exit within grace period", "pid", p.PID, "grace", grace)
			return errors.Join(fmt.Errorf("pid %d still running after %s", p.PID, grace), p.joinDrains(grace))
		}
	}

	if err := p.joinDrains(grace); err != nil {
		return err
	}
	p.logger.Info("process terminated", "pid", p.PID)
	return nil
}

// joinDrains waits up to grace for the output drains, closing a terminal
// that is still held open by a descendant.
func (p *ManagedProcess) joinDrains(grace time.Duration) error {
	drained := make(chan struct{})
	go func() {
		p.drains.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(grace):
		if p.closeOutput == nil {
			return fmt.Errorf("pid %d output still open after %s", p.PID, grace)
		}
		_ = p.closeOutput()
		<-drained
	}
	if p.closeOutput != nil {
		_ = p.closeOutput()
	}
	return nil
}

// KillPID kills an unmanaged process, such as a UI process that was spawned
// by the launched one. A process that is already gone is not an error.
func KillPID(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill pid %d: %w", pid, err)
	}
	return nil
}

// ptyProcess is a process whose terminal output is read from output.
type ptyProcess struct {
	process *os.Process
	output  io.ReadCloser
	wait    func() error
}
