// Package state persists wizard progress as a single JSON document per
// working directory so an interrupted run can resume where it stopped.
package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Step is the wizard's position in the fixed stage→cleanup sequence.
// Persisted as its ordinal; never decreases within a run except via
// explicit reset.
type Step int

const (
	StepNone Step = iota
	StepStaged
	StepBranchCreated
	StepCommitted
	StepPushed
	StepMerged
	StepCleanup
)

var stepNames = map[Step]string{
	StepNone:          "none",
	StepStaged:        "staged",
	StepBranchCreated: "branch",
	StepCommitted:     "commit",
	StepPushed:        "push",
	StepMerged:        "merge",
	StepCleanup:       "cleanup",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s is one of the seven enumerated steps.
func (s Step) Valid() bool {
	_, ok := stepNames[s]
	return ok
}

// ParseStep resolves a step name as used by --start-at.
func ParseStep(name string) (Step, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "stage" {
		lower = "staged"
	}
	for s, n := range stepNames {
		if n == lower {
			return s, nil
		}
	}
	return StepNone, fmt.Errorf("unknown step %q (valid: stage, branch, commit, push, merge, cleanup)", name)
}

// WorkflowState is the persisted wizard progress document.
type WorkflowState struct {
	RunID         string    `json:"runId"`
	Step          Step      `json:"step"`
	WorkingBranch string    `json:"workingBranch,omitempty"`
	TargetBranch  string    `json:"targetBranch,omitempty"`
	StagedFiles   int       `json:"stagedFiles,omitempty"`
	SkippedPush   bool      `json:"skippedPush,omitempty"`
	CommitMessage string    `json:"commitMessage,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewWorkflowState returns a fresh NONE state with a new run ID.
func NewWorkflowState() *WorkflowState {
	return &WorkflowState{
		RunID: ulid.Make().String(),
		Step:  StepNone,
	}
}
