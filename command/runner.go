package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external processes.
type Runner interface {
	Run(ctx context.Context, mode RunMode, name string, args ...string) error
}

// ExecRunner runs processes with os/exec. Verbose output goes to Stdout and
// Stderr, which default to the process's own streams.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns an ExecRunner attached to os.Stdout and os.Stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes name with args according to mode.
func (r *ExecRunner) Run(ctx context.Context, mode RunMode, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	if mode == ModeVerbose {
		stdout := r.stdout()
		fmt.Fprintf(stdout, "Running with command:\n\"%s\"\n", JoinArgs(append([]string{name}, args...)))
		cmd.Stdout = stdout
		cmd.Stderr = r.stderr()
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s failed: %w", name, err)
		}
		return nil
	}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w (output: %s)", name, err, strings.TrimSpace(output.String()))
	}
	return nil
}

func (r *ExecRunner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}
