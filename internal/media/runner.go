package media

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"golang.org/x/sync/semaphore"
)

// CommandFunc executes a process and returns its captured output streams.
type CommandFunc func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Runner executes external media tools, bounding how many run at once.
// Callers block on a full runner only until ctx is done.
type Runner struct {
	sem  *semaphore.Weighted
	exec CommandFunc
}

// NewRunner creates a Runner that allows at most maxConcurrent processes.
func NewRunner(maxConcurrent int64) *Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Runner{
		sem:  semaphore.NewWeighted(maxConcurrent),
		exec: execCommand,
	}
}

// WithCommandFunc replaces process execution, for tests.
func (r *Runner) WithCommandFunc(fn CommandFunc) *Runner {
	if fn != nil {
		r.exec = fn
	}
	return r
}

// Run executes name with args. The timeout starts once a slot is acquired,
// so time spent queued is bounded by ctx alone; zero means no timeout.
// exitCode is -1 when the process did not exit on its own (not found,
// killed by context, ...).
func (r *Runner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (stdout, stderr []byte, exitCode int, err error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, -1, err
	}
	defer r.sem.Release(1)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	stdout, stderr, err = r.exec(ctx, name, args...)
	if err == nil {
		return stdout, stderr, 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stdout, stderr, -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return stdout, stderr, exitErr.ExitCode(), err
	}
	return stdout, stderr, -1, err
}

func execCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
