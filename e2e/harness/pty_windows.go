//go:build windows

package harness

import (
	"errors"
	"io"
	"os"

	"github.com/aymanbagabas/go-pty"
)

// startPTY runs cmd attached to a ConPTY.
func startPTY(cmd LaunchCommand, dir string, env []string) (*ptyProcess, error) {
	p, err := pty.New()
	if err != nil {
		return nil, err
	}
	c := p.Command(cmd.Path, cmd.Args()...)
	c.Dir = dir
	c.Env = env
	if err := c.Start(); err != nil {
		p.Close()
		return nil, err
	}
	return &ptyProcess{process: c.Process, output: p, wait: c.Wait}, nil
}

func isTerminalClosed(err error) bool {
	return errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed)
}
