//go:build !windows

package harness

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

// startPTY runs cmd with its controlling terminal on a new pty pair.
func startPTY(cmd LaunchCommand, dir string, env []string) (*ptyProcess, error) {
	c := exec.Command(cmd.Path, cmd.Args()...)
	c.Dir = dir
	c.Env = env
	ptmx, err := pty.Start(c)
	if err != nil {
		return nil, err
	}
	return &ptyProcess{process: c.Process, output: ptmx, wait: c.Wait}, nil
}

// isTerminalClosed reports the errors a pty master returns once the child
// side is gone.
func isTerminalClosed(err error) bool {
	return errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed)
}
