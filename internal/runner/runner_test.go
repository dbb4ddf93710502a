package runner

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestRepo(t *testing.T, dir string) {
	t.Helper()
	cmds := [][]string{
		{"git", "-C", dir, "init"},
		{"git", "-C", dir, "config", "user.email", "test@test.com"},
		{"git", "-C", dir, "config", "user.name", "Test"},
	}
	for _, args := range cmds {
		require.NoError(t, exec.Command(args[0], args[1:]...).Run())
	}
}

func TestExecRunner_Run(t *testing.T) {
	r := NewExecRunner()
	out, err := r.Run("", "git", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "git version")
}

func TestExecRunner_RunFailureIncludesStderr(t *testing.T) {
	r := NewExecRunner()
	_, err := r.Run(t.TempDir(), "git", "rev-parse", "HEAD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git rev-parse HEAD")
}

func TestExecRunner_RunStream(t *testing.T) {
	r := NewExecRunner()
	var buf bytes.Buffer
	err := r.RunStream(context.Background(), &buf, "", "git", "version")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "git version")
}

func TestGit_DiffExitOneIsNotFailure(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	require.NoError(t, os.WriteFile(dir+"/a.txt", []byte("one\n"), 0644))
	require.NoError(t, exec.Command("git", "-C", dir, "add", ".").Run())
	require.NoError(t, exec.Command("git", "-C", dir, "commit", "-m", "init").Run())
	require.NoError(t, os.WriteFile(dir+"/a.txt", []byte("two\n"), 0644))

	// --quiet makes git diff exit 1 when differences exist.
	_, err := Git(NewExecRunner(), dir, "diff", "--quiet")
	assert.NoError(t, err)
}

func TestGit_RealFailureStillFails(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	_, err := Git(NewExecRunner(), dir, "merge", "no-such-branch")
	assert.Error(t, err)
}

func TestIsMutatingGit(t *testing.T) {
	assert.True(t, IsMutatingGit([]string{"push", "-u", "origin", "feat"}))
	assert.True(t, IsMutatingGit([]string{"branch", "-d", "feat"}))
	assert.True(t, IsMutatingGit([]string{"checkout", "-b", "feat"}))
	assert.True(t, IsMutatingGit([]string{"branch", "development", "main"}))
	assert.False(t, IsMutatingGit([]string{"branch", "--format=%(refname:short)"}))
	assert.False(t, IsMutatingGit([]string{"rev-parse", "HEAD"}))
	assert.False(t, IsMutatingGit([]string{"status", "--porcelain"}))
	assert.False(t, IsMutatingGit(nil))
}

func TestDryRunner_SkipsMutations(t *testing.T) {
	rec := &Recorder{}
	var logged []string
	d := NewDryRunner(rec, func(format string, a ...any) {
		logged = append(logged, format)
	})

	_, err := d.Run("", "git", "push", "origin", "main")
	require.NoError(t, err)
	assert.Empty(t, rec.Calls)
	assert.Len(t, logged, 1)

	_, err = d.Run("", "git", "status", "--porcelain")
	require.NoError(t, err)
	assert.Len(t, rec.Calls, 1)
}

func TestRecorder_Stubs(t *testing.T) {
	rec := &Recorder{Stubs: []Stub{
		{Match: "git rev-parse --abbrev-ref HEAD", Out: "feature/x"},
	}}
	out, err := rec.Run("/repo", "git", "rev-parse", "--abbrev-ref", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, "feature/x", out)
	assert.Len(t, rec.GitCalls(), 1)
	assert.Empty(t, rec.MutatingGitCalls())
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict("CONFLICT (content): Merge conflict in a.txt"))
	assert.True(t, IsConflict("error: could not apply abc... conflict"))
	assert.False(t, IsConflict("Fast-forward"))
}
