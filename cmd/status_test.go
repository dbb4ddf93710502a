package cmd

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geetocli/geeto/internal/output"
)

func initStatusRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cmds := [][]string{
		{"git", "-C", dir, "init"},
		{"git", "-C", dir, "config", "user.email", "test@test.com"},
		{"git", "-C", dir, "config", "user.name", "Test"},
	}
	for _, args := range cmds {
		require.NoError(t, exec.Command(args[0], args[1:]...).Run())
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\n"), 0644))
	require.NoError(t, exec.Command("git", "-C", dir, "add", ".").Run())
	require.NoError(t, exec.Command("git", "-C", dir, "commit", "-m", "init").Run())
	return dir
}

func TestStatus_UnreadableStateFileFallsBackToFresh(t *testing.T) {
	dir := initStatusRepo(t)

	// A directory at the state file path fails the read without the
	// file being missing.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".geeto", "state.json"), 0755))

	t.Chdir(dir)
	ui = output.New()
	out := &bytes.Buffer{}
	ui.Out = out
	ui.ErrOut = out

	require.NoError(t, statusRun(context.Background()))
	assert.Contains(t, out.String(), "State file unreadable")
	assert.Contains(t, out.String(), "No workflow in progress")
}

func TestStatus_FreshRepoShowsPendingSteps(t *testing.T) {
	dir := initStatusRepo(t)

	t.Chdir(dir)
	ui = output.New()
	out := &bytes.Buffer{}
	ui.Out = out
	ui.ErrOut = out

	require.NoError(t, statusRun(context.Background()))
	assert.Contains(t, out.String(), "pending")
	assert.Contains(t, out.String(), "No workflow in progress")
}
