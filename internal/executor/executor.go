package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ExecutionError is returned when a command cannot be started or exits
// with a non-zero status.
type ExecutionError struct {
	Command  string
	Stderr   string
	ExitCode int // -1 if the process never started
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Executor runs external commands.
type Executor interface {
	Execute(ctx context.Context, command string, args ...string) (string, error)
}

// Exec runs commands with os/exec. Arguments are passed as-is, never
// through a shell.
type Exec struct {
	// Env, when non-nil, replaces the child environment.
	Env []string
}

// New returns an Exec that inherits the current environment.
func New() *Exec {
	return &Exec{}
}

// Execute runs command with args and returns its standard output verbatim.
// A spawn failure or non-zero exit yields an *ExecutionError carrying the
// captured standard error. A nil ctx is treated as context.Background().
func (x *Exec) Execute(ctx context.Context, command string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, command, args...)
	if x.Env != nil {
		cmd.Env = x.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		execErr := &ExecutionError{
			Command:  command,
			Stderr:   stderr.String(),
			ExitCode: -1,
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			execErr.ExitCode = exitErr.ExitCode()
		}
		if execErr.Stderr == "" {
			execErr.Err = fmt.Errorf("running %s: %w", command, err)
		}
		return "", execErr
	}

	return stdout.String(), nil
}

// Installed reports whether command resolves on PATH.
func Installed(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
