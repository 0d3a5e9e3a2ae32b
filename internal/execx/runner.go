// Package execx abstracts subprocess execution so that components shelling
// out to git, ssh and ssh-add can be tested without the real binaries.
package execx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Result holds the outcome of a completed command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands to completion and captures their output.
type Runner interface {
	// LookPath finds the executable in PATH.
	LookPath(file string) (string, error)
	// Run executes a command and waits for it to finish. A non-zero exit
	// status is not an error; it is reported through Result.ExitCode.
	// Other failures (binary missing, context timeout) return an error.
	Run(ctx context.Context, opts Options) (Result, error)
}

// Options describes a single command invocation.
type Options struct {
	Name    string
	Args    []string
	Stdin   string
	Timeout time.Duration
}

// realRunner is the production implementation using os/exec.
type realRunner struct{}

// NewRunner creates a Runner backed by os/exec.
func NewRunner() Runner {
	return &realRunner{}
}

func (r *realRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (r *realRunner) Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, opts.Name, opts.Args...)
	if opts.Stdin != "" {
		cmd.Stdin = strings.NewReader(opts.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Command ran but exited non-zero; callers inspect the code.
			res.ExitCode = exitErr.ExitCode()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			return res, nil
		}
		return res, err
	}

	return res, nil
}
