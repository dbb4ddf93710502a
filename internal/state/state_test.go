package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepString(t *testing.T) {
	assert.Equal(t, "none", StepNone.String())
	assert.Equal(t, "cleanup", StepCleanup.String())
	assert.Equal(t, "step(42)", Step(42).String())
}

func TestStepValid(t *testing.T) {
	for s := StepNone; s <= StepCleanup; s++ {
		assert.True(t, s.Valid(), s.String())
	}
	assert.False(t, Step(-1).Valid())
	assert.False(t, Step(7).Valid())
}

func TestParseStep(t *testing.T) {
	s, err := ParseStep("push")
	require.NoError(t, err)
	assert.Equal(t, StepPushed, s)

	// "stage" is accepted as an alias for the staged step.
	s, err = ParseStep("stage")
	require.NoError(t, err)
	assert.Equal(t, StepStaged, s)

	s, err = ParseStep(" Commit ")
	require.NoError(t, err)
	assert.Equal(t, StepCommitted, s)

	_, err = ParseStep("bogus")
	assert.Error(t, err)
}

func TestFileStore_LoadMissingReturnsFresh(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ws, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, StepNone, ws.Step)
	assert.NotEmpty(t, ws.RunID)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ws := NewWorkflowState()
	ws.Step = StepPushed
	ws.WorkingBranch = "feature/parser"
	ws.TargetBranch = "development"
	ws.StagedFiles = 3
	ws.SkippedPush = true
	ws.CommitMessage = "feat: add parser"
	require.NoError(t, s.Save(ws))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, ws.RunID, loaded.RunID)
	assert.Equal(t, StepPushed, loaded.Step)
	assert.Equal(t, "feature/parser", loaded.WorkingBranch)
	assert.Equal(t, "development", loaded.TargetBranch)
	assert.Equal(t, 3, loaded.StagedFiles)
	assert.True(t, loaded.SkippedPush)
	assert.Equal(t, "feat: add parser", loaded.CommitMessage)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestFileStore_LoadRejectsOutOfRangeStep(t *testing.T) {
	root := t.TempDir()
	s := NewFileStore(root)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".geeto"), 0755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"runId":"x","step":99}`), 0644))

	ws, err := s.Load()
	assert.ErrorIs(t, err, ErrCorruptState)
	require.NotNil(t, ws)
	assert.Equal(t, StepNone, ws.Step)
}

func TestFileStore_LoadRejectsGarbage(t *testing.T) {
	root := t.TempDir()
	s := NewFileStore(root)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".geeto"), 0755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("not json"), 0644))

	ws, err := s.Load()
	assert.ErrorIs(t, err, ErrCorruptState)
	require.NotNil(t, ws)
	assert.Equal(t, StepNone, ws.Step)
}

func TestFileStore_Reset(t *testing.T) {
	s := NewFileStore(t.TempDir())
	require.NoError(t, s.Save(NewWorkflowState()))
	require.NoError(t, s.Reset())
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))

	// Resetting again is a no-op.
	assert.NoError(t, s.Reset())
}

func TestFileStore_EnsureExcluded(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "info"), 0755))
	s := NewFileStore(root)

	require.NoError(t, s.EnsureExcluded())
	data, err := os.ReadFile(filepath.Join(root, ".git", "info", "exclude"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".geeto/")

	// Second call must not duplicate the line.
	require.NoError(t, s.EnsureExcluded())
	data, err = os.ReadFile(filepath.Join(root, ".git", "info", "exclude"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), ".geeto/"))
}
