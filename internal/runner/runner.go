// Package runner executes shell commands (mostly git) and smooths over
// git's exit-code quirks so callers can treat non-zero as failure.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner executes external commands in a working directory.
// All geeto git mutations go through this interface so tests can
// substitute a Recorder and --dry-run can substitute a DryRunner.
type Runner interface {
	// Run executes the command and returns trimmed stdout.
	Run(dir, name string, args ...string) (string, error)
	// RunStream executes the command, copying combined output to w as it
	// is produced. Used for long-running push/fetch so the user sees
	// progress while geeto waits.
	RunStream(ctx context.Context, w io.Writer, dir, name string, args ...string) error
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by real subprocesses.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return strings.TrimSpace(string(out)), fmt.Errorf("%s %s: %s: %w", name, strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (r *ExecRunner) RunStream(ctx context.Context, w io.Writer, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdout = w
	cmd.Stderr = w
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// Git runs a git command via r. Exit code 1 from the diff family means
// "there are differences" rather than failure, so it is not an error.
func Git(r Runner, dir string, args ...string) (string, error) {
	out, err := r.Run(dir, "git", args...)
	if err != nil && len(args) > 0 && isDiffCommand(args[0]) && ExitCode(err) == 1 {
		return out, nil
	}
	return out, err
}

func isDiffCommand(sub string) bool {
	return sub == "diff" || sub == "diff-index" || sub == "diff-files"
}

// ExitCode digs the process exit code out of a wrapped error, or -1.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// IsConflict reports whether command output looks like a merge/rebase/pull
// conflict. String matching is the best signal git gives us here.
func IsConflict(output string) bool {
	return strings.Contains(strings.ToLower(output), "conflict")
}
