package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Executor runs external programs with their output streamed to the caller.
type Executor struct {
	stdout io.Writer
	stderr io.Writer
}

// NewExecutor creates a new Executor.
// Nil writers default to the process's stdout and stderr.
func NewExecutor(stdout, stderr io.Writer) *Executor {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Executor{
		stdout: stdout,
		stderr: stderr,
	}
}

// LookPath resolves name through PATH.
// When name cannot be found it is returned unchanged so that running it
// reports the lookup failure.
func (e *Executor) LookPath(name string) string {
	path, err := exec.LookPath(name)
	if err != nil {
		slog.Debug("executable not found in PATH", "name", name, "error", err)
		return name
	}
	return path
}

// Run executes path with args and waits for it to finish.
// A non-zero exit is reported as *exec.ExitError; failures to start are other errors.
func (e *Executor) Run(ctx context.Context, path string, args ...string) error {
	slog.Debug("executing command", "command", path+" "+strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Run(); err != nil {
		if code, ok := ExitCode(err); ok {
			slog.Debug("command exited", "command", path, "code", code)
		}
		return err
	}

	slog.Debug("command succeeded", "command", path)
	return nil
}

// ExitCode returns the exit status carried by err and whether err is an exit status at all.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
