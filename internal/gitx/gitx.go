// Package gitx provides read-only queries about a git repository,
// built on the runner package. Mutations live in the wizard and undo
// flows; nothing here writes.
package gitx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/geetocli/geeto/internal/runner"
)

// ErrNoUpstream is returned when a branch has no tracking branch.
var ErrNoUpstream = errors.New("no upstream configured")

// Operation is an in-progress multi-step git operation.
type Operation int

const (
	OpNone Operation = iota
	OpMerge
	OpRebase
	OpCherryPick
)

func (o Operation) String() string {
	switch o {
	case OpMerge:
		return "merge"
	case OpRebase:
		return "rebase"
	case OpCherryPick:
		return "cherry-pick"
	default:
		return "none"
	}
}

// Facts answers read-only questions about a repository.
type Facts struct {
	r runner.Runner
}

// New returns a Facts provider over r.
func New(r runner.Runner) *Facts {
	return &Facts{r: r}
}

func (f *Facts) git(dir string, args ...string) (string, error) {
	return runner.Git(f.r, dir, args...)
}

// RepoRoot returns the working tree root.
func (f *Facts) RepoRoot(dir string) (string, error) {
	return f.git(dir, "rev-parse", "--show-toplevel")
}

// CurrentBranch returns the checked-out branch name.
func (f *Facts) CurrentBranch(dir string) (string, error) {
	return f.git(dir, "rev-parse", "--abbrev-ref", "HEAD")
}

// Upstream returns the tracking branch for branch, or ErrNoUpstream.
func (f *Facts) Upstream(dir, branch string) (string, error) {
	out, err := f.git(dir, "rev-parse", "--abbrev-ref", branch+"@{upstream}")
	if err != nil {
		return "", ErrNoUpstream
	}
	return out, nil
}

// AheadBehind returns how many commits branch is ahead of and behind
// its origin counterpart.
func (f *Facts) AheadBehind(dir, branch string) (ahead, behind int, err error) {
	out, err := f.git(dir, "rev-list", "--left-right", "--count",
		fmt.Sprintf("%s...origin/%s", branch, branch))
	if err != nil {
		return 0, 0, err
	}
	ahead, behind, ok := ParseAheadBehind(out)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %q", out)
	}
	return ahead, behind, nil
}

// LocalBranches lists local branch names.
func (f *Facts) LocalBranches(dir string) ([]string, error) {
	out, err := f.git(dir, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// IsDirty reports whether the working tree has any changes.
func (f *Facts) IsDirty(dir string) (bool, error) {
	out, err := f.git(dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// StagedFiles lists paths currently in the index.
func (f *Facts) StagedFiles(dir string) ([]string, error) {
	out, err := f.git(dir, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// ChangedFiles lists every changed path, staged or not.
func (f *Facts) ChangedFiles(dir string) ([]string, error) {
	out, err := f.git(dir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range splitLines(out) {
		if len(line) > 3 {
			files = append(files, strings.TrimSpace(line[3:]))
		}
	}
	return files, nil
}

// StagedDiff returns the full diff of the index against HEAD.
func (f *Facts) StagedDiff(dir string) (string, error) {
	return f.git(dir, "diff", "--cached")
}

// MergeBase returns the best common ancestor of a and b.
func (f *Facts) MergeBase(dir, a, b string) (string, error) {
	return f.git(dir, "merge-base", a, b)
}

// CommitCountBetween counts commits on feature that are not on target.
func (f *Facts) CommitCountBetween(dir, target, feature string) (int, error) {
	out, err := f.git(dir, "rev-list", "--count", target+".."+feature)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list count: %q", out)
	}
	return n, nil
}

// HasMergeCommitsBetween reports whether feature contains merge commits
// not on target. Squash collapsing assumes linear history.
func (f *Facts) HasMergeCommitsBetween(dir, target, feature string) (bool, error) {
	out, err := f.git(dir, "rev-list", "--merges", "--count", target+".."+feature)
	if err != nil {
		return false, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return false, fmt.Errorf("unexpected rev-list count: %q", out)
	}
	return n > 0, nil
}

// HasRemoteBranch reports whether origin has a branch of this name.
func (f *Facts) HasRemoteBranch(dir, branch string) (bool, error) {
	out, err := f.git(dir, "ls-remote", "--heads", "origin", branch)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// RemoteURL returns the origin URL, or "" when no remote exists.
func (f *Facts) RemoteURL(dir string) (string, error) {
	out, err := f.git(dir, "remote", "get-url", "origin")
	if err != nil {
		return "", nil // no remote is not an error
	}
	return out, nil
}

// ReflogEntries returns the n most recent reflog entries for HEAD.
func (f *Facts) ReflogEntries(dir string, n int) ([]ReflogEntry, error) {
	out, err := f.git(dir, "reflog", "-n", strconv.Itoa(n), "--format=%H%x09%gd%x09%gs")
	if err != nil {
		return nil, err
	}
	var entries []ReflogEntry
	for _, line := range splitLines(out) {
		if e, ok := ParseReflogLine(line); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// OperationInProgress reports whether a merge, rebase or cherry-pick is
// mid-flight, detected via the marker files git leaves in the git dir.
func (f *Facts) OperationInProgress(dir string) (Operation, error) {
	gitDir, err := f.git(dir, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return OpNone, err
	}
	if exists(filepath.Join(gitDir, "rebase-merge")) || exists(filepath.Join(gitDir, "rebase-apply")) {
		return OpRebase, nil
	}
	if exists(filepath.Join(gitDir, "MERGE_HEAD")) {
		return OpMerge, nil
	}
	if exists(filepath.Join(gitDir, "CHERRY_PICK_HEAD")) {
		return OpCherryPick, nil
	}
	return OpNone, nil
}

// StatusSummary returns up to max changed paths plus a count of the
// remainder, for post-undo reporting.
func (f *Facts) StatusSummary(dir string, max int) (paths []string, more int, err error) {
	files, err := f.ChangedFiles(dir)
	if err != nil {
		return nil, 0, err
	}
	if len(files) <= max {
		return files, 0, nil
	}
	return files[:max], len(files) - max, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func splitLines(out string) []string {
	if out == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
