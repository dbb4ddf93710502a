package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	stateDirName  = ".geeto"
	stateFileName = "state.json"
)

// ErrCorruptState marks a state file that could not be trusted. Load
// still returns a usable fresh state alongside it; callers should warn
// and continue.
var ErrCorruptState = errors.New("corrupt state file")

// Store reads and writes the workflow state document for one repo.
// Whole-file JSON, written after every successful step transition.
type Store interface {
	Load() (*WorkflowState, error)
	Save(ws *WorkflowState) error
	Reset() error
	Path() string
}

// FileStore implements Store at <repo>/.geeto/state.json.
type FileStore struct {
	repoRoot string
}

// NewFileStore returns a Store rooted at the repository working tree.
func NewFileStore(repoRoot string) *FileStore {
	return &FileStore{repoRoot: repoRoot}
}

func (s *FileStore) Path() string {
	return filepath.Join(s.repoRoot, stateDirName, stateFileName)
}

// Load returns the persisted state, or a fresh NONE state when no file
// exists yet. A document with an out-of-range step ordinal is treated
// as corrupt and replaced by a fresh state.
func (s *FileStore) Load() (*WorkflowState, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return NewWorkflowState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var ws WorkflowState
	if err := json.Unmarshal(data, &ws); err != nil {
		return NewWorkflowState(), fmt.Errorf("parse state file %s: %w", s.Path(), ErrCorruptState)
	}
	if !ws.Step.Valid() {
		return NewWorkflowState(), fmt.Errorf("state file %s has step %d out of range: %w", s.Path(), int(ws.Step), ErrCorruptState)
	}
	if ws.RunID == "" {
		ws.RunID = NewWorkflowState().RunID
	}
	return &ws, nil
}

// Save writes the document, creating the .geeto directory on first use.
func (s *FileStore) Save(ws *WorkflowState) error {
	dir := filepath.Dir(s.Path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	ws.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(s.Path(), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Reset removes the state file. Missing file is fine.
func (s *FileStore) Reset() error {
	err := os.Remove(s.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

// EnsureExcluded keeps .geeto/ out of version control by appending it
// to .git/info/exclude once. Best-effort: a bare or unusual layout just
// skips the bookkeeping.
func (s *FileStore) EnsureExcluded() error {
	excludePath := filepath.Join(s.repoRoot, ".git", "info", "exclude")
	data, err := os.ReadFile(excludePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil
	}
	const line = stateDirName + "/"
	for _, l := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(l) == line {
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(excludePath), 0755); err != nil {
		return nil
	}
	f, err := os.OpenFile(excludePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	defer f.Close()
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(f)
	}
	_, err = fmt.Fprintln(f, line)
	return err
}
