// Package host runs the external tools the generator hands work to: the
// host framework's entity sub-generator and the client package managers.
package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Sentinel errors for host commands.
var (
	// ErrCommandNotFound indicates the executable is not on PATH.
	ErrCommandNotFound = errors.New("host: command not found")

	// ErrCommandFailed indicates the command ran and exited unsuccessfully.
	ErrCommandFailed = errors.New("host: command failed")

	// ErrEmptyCommand indicates no executable was configured.
	ErrEmptyCommand = errors.New("host: empty command")
)

// Runner executes an external command in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, streaming their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner that forwards command output to stdout and stderr.
// Nil writers discard the output.
func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &ExecRunner{Stdout: stdout, Stderr: stderr}
}

// Run resolves name on PATH and runs it to completion.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout

	var stderr bytes.Buffer
	cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return fmt.Errorf("%w: %s %s: %s", ErrCommandFailed, name, strings.Join(args, " "), errMsg)
	}
	return nil
}

// splitCommand separates a configured command line such as "npx jhipster"
// into the executable and its leading arguments.
func splitCommand(command string) (string, []string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", nil, ErrEmptyCommand
	}
	return fields[0], fields[1:], nil
}
