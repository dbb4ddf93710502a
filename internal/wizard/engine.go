// Package wizard drives the stage→branch→commit→push→merge→cleanup
// workflow. Progress persists after every successful step, so an
// interrupted run resumes at the step that did not finish. The core
// contract: a step never advances past a git command that failed.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/geetocli/geeto/internal/ai"
	"github.com/geetocli/geeto/internal/gitx"
	"github.com/geetocli/geeto/internal/output"
	"github.com/geetocli/geeto/internal/prompt"
	"github.com/geetocli/geeto/internal/runner"
	"github.com/geetocli/geeto/internal/state"
)

// ErrNonLinearBranch is returned when squash is requested for a feature
// branch that contains its own merge commits. Collapsing such history
// with a soft reset would silently drop the merged-in parents.
var ErrNonLinearBranch = errors.New("feature branch contains merge commits; squash needs linear history")

// mergeRetryAttempts bounds the push-after-merge retry loop.
const mergeRetryAttempts = 3

// Engine holds everything a wizard run needs. Built once per process
// and passed explicitly; there are no package-level singletons.
type Engine struct {
	Dir    string
	R      runner.Runner
	Facts  *gitx.Facts
	Store  state.Store
	UI     *output.UI
	Prompt prompt.Prompter
	AI     ai.Provider
}

// Options tunes a single Run.
type Options struct {
	// StartAt names the step the user asked to resume at. Zero means
	// "wherever the persisted state left off".
	StartAt state.Step
}

func (e *Engine) git(args ...string) (string, error) {
	return runner.Git(e.R, e.Dir, args...)
}

// Run executes the remaining workflow steps in order and returns the
// final state. After cleanup the persisted file is removed so the next
// invocation starts a fresh cycle.
func (e *Engine) Run(ctx context.Context, opts Options) (*state.WorkflowState, error) {
	ws, err := e.Store.Load()
	if err != nil {
		if !errors.Is(err, state.ErrCorruptState) {
			return nil, err
		}
		e.UI.Warning("State file was unreadable, starting over: %v", err)
	}

	if opts.StartAt > state.StepNone {
		// The guard invariant wins: a step can only be entered when
		// every earlier step already ran.
		if ws.Step+1 < opts.StartAt {
			return ws, fmt.Errorf("cannot start at %s: recorded progress is %s, next step is %s",
				opts.StartAt, ws.Step, ws.Step+1)
		}
		e.UI.Info("Resuming at %s (recorded progress: %s)", opts.StartAt, ws.Step)
	}

	steps := []struct {
		name string
		fn   func(context.Context, *state.WorkflowState) error
	}{
		{"stage", e.stage},
		{"branch", e.branch},
		{"commit", e.commit},
		{"push", e.push},
		{"merge", e.merge},
		{"cleanup", e.cleanup},
	}
	for _, step := range steps {
		if err := step.fn(ctx, ws); err != nil {
			return ws, fmt.Errorf("%s step: %w", step.name, err)
		}
	}

	e.UI.Success("Workflow complete.")
	if err := e.Store.Reset(); err != nil {
		e.UI.Warning("Could not remove state file: %v", err)
	}
	return ws, nil
}

func (e *Engine) stage(ctx context.Context, ws *state.WorkflowState) error {
	if ws.Step >= state.StepStaged {
		e.UI.Info("Staging already done.")
		return nil
	}

	files, err := e.Facts.ChangedFiles(e.Dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("working tree is clean, nothing to stage")
	}

	e.UI.Info("%d changed file(s):", len(files))
	for _, f := range files {
		e.UI.Info("  %s", f)
	}

	all, err := e.Prompt.Confirm(fmt.Sprintf("Stage all %d file(s)?", len(files)), "")
	if err != nil {
		return err
	}
	if all {
		if _, err := e.git("add", "-A"); err != nil {
			return err
		}
	} else {
		options := make([]prompt.Option, len(files))
		for i, f := range files {
			options[i] = prompt.Opt(f)
		}
		selected, err := e.Prompt.MultiSelect("Select files to stage", options)
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			return prompt.ErrCancelled
		}
		args := append([]string{"add", "--"}, selected...)
		if _, err := e.git(args...); err != nil {
			return err
		}
	}

	staged, err := e.Facts.StagedFiles(e.Dir)
	if err != nil {
		return err
	}
	ws.StagedFiles = len(staged)
	ws.Step = state.StepStaged
	return e.Store.Save(ws)
}

func (e *Engine) branch(ctx context.Context, ws *state.WorkflowState) error {
	if ws.Step >= state.StepBranchCreated {
		e.UI.Info("Branch already created (%s).", ws.WorkingBranch)
		return nil
	}

	name, err := e.chooseBranchName(ctx)
	if err != nil {
		return err
	}

	if _, err := e.git("checkout", "-b", name); err != nil {
		return err
	}
	e.UI.Success("Created branch %s", output.Cyan(name))

	ws.WorkingBranch = name
	ws.Step = state.StepBranchCreated
	return e.Store.Save(ws)
}

func (e *Engine) chooseBranchName(ctx context.Context) (string, error) {
	if !e.AI.Available() {
		e.UI.VerboseLog("AI provider %s unavailable, entering branch name manually", e.AI.Name())
		return e.manualBranchName()
	}

	hint, err := e.Prompt.Input("Describe the change (optional, guides the suggestion)", "")
	if err != nil {
		return "", err
	}
	diff, err := e.Facts.StagedDiff(e.Dir)
	if err != nil {
		return "", err
	}

	var suggestion string
	spinErr := e.Prompt.Spin(ctx, "Drafting a branch name with "+e.AI.Name(), func() error {
		s, err := e.AI.BranchName(ctx, hint, diff)
		suggestion = s
		return err
	})
	if spinErr != nil {
		e.UI.Warning("No suggestion: %v", spinErr)
		return e.manualBranchName()
	}

	choice, err := e.Prompt.Select(fmt.Sprintf("Use branch name %q?", suggestion), []prompt.Option{
		{Label: "Use " + suggestion, Value: "use"},
		{Label: "Enter a name manually", Value: "manual"},
		{Label: "Cancel", Value: "cancel"},
	})
	if err != nil {
		return "", err
	}
	switch choice {
	case "use":
		return suggestion, nil
	case "manual":
		return e.manualBranchName()
	default:
		return "", prompt.ErrCancelled
	}
}

func (e *Engine) manualBranchName() (string, error) {
	raw, err := e.Prompt.Input("Branch name", "feat/short-slug")
	if err != nil {
		return "", err
	}
	name := ai.SanitizeBranch(raw)
	if name == "" {
		return "", fmt.Errorf("branch name %q is empty after sanitizing", raw)
	}
	return name, nil
}

func (e *Engine) commit(ctx context.Context, ws *state.WorkflowState) error {
	if ws.Step >= state.StepCommitted {
		e.UI.Info("Commit already done.")
		return nil
	}

	msg, err := e.chooseCommitMessage(ctx)
	if err != nil {
		return err
	}

	if _, err := e.git("commit", "-m", msg); err != nil {
		return err
	}
	e.UI.Success("Committed.")

	ws.CommitMessage = msg
	ws.Step = state.StepCommitted
	return e.Store.Save(ws)
}

func (e *Engine) chooseCommitMessage(ctx context.Context) (string, error) {
	if !e.AI.Available() {
		e.UI.VerboseLog("AI provider %s unavailable, entering commit message manually", e.AI.Name())
		return e.Prompt.Input("Commit message", "")
	}

	diff, err := e.Facts.StagedDiff(e.Dir)
	if err != nil {
		return "", err
	}

	var suggestion string
	spinErr := e.Prompt.Spin(ctx, "Drafting a commit message with "+e.AI.Name(), func() error {
		s, err := e.AI.CommitMessage(ctx, diff)
		suggestion = s
		return err
	})
	if spinErr != nil {
		e.UI.Warning("No suggestion: %v", spinErr)
		return e.Prompt.Input("Commit message", "")
	}

	e.UI.Info("Suggested message:\n%s", suggestion)
	choice, err := e.Prompt.Select("Use this commit message?", []prompt.Option{
		{Label: "Use it", Value: "use"},
		{Label: "Edit it", Value: "edit"},
		{Label: "Cancel", Value: "cancel"},
	})
	if err != nil {
		return "", err
	}
	switch choice {
	case "use":
		return suggestion, nil
	case "edit":
		return e.Prompt.Input("Commit message", suggestion)
	default:
		return "", prompt.ErrCancelled
	}
}

func (e *Engine) push(ctx context.Context, ws *state.WorkflowState) error {
	if ws.Step >= state.StepPushed {
		if !ws.SkippedPush {
			e.UI.Info("Push already done.")
		}
		return nil
	}

	branch, err := e.workingBranch(ws)
	if err != nil {
		return err
	}

	confirmed, err := e.Prompt.Confirm(fmt.Sprintf("Push %s to origin?", branch), "")
	if err != nil {
		return err
	}
	if !confirmed {
		e.UI.Info("Skipping push.")
		ws.SkippedPush = true
		ws.Step = state.StepPushed
		return e.Store.Save(ws)
	}

	// Errors mean no origin counterpart yet, which is the "new push"
	// case, not a failure.
	ahead, _, err := e.Facts.AheadBehind(e.Dir, branch)
	switch {
	case err != nil:
		e.UI.Info("Branch %s is not on origin yet.", branch)
	case ahead == 0:
		e.UI.Info("Branch %s is already up to date with origin.", branch)
	default:
		e.UI.Info("Pushing %d new commit(s).", ahead)
	}

	// Exactly one attempt. The bounded retry helper is reserved for
	// the push-after-merge path.
	pushErr := e.Prompt.Spin(ctx, "Pushing "+branch, func() error {
		_, err := e.git("push", "-u", "origin", branch)
		return err
	})
	if pushErr != nil {
		return pushErr
	}
	e.UI.Success("Pushed %s.", branch)

	ws.Step = state.StepPushed
	return e.Store.Save(ws)
}

func (e *Engine) merge(ctx context.Context, ws *state.WorkflowState) error {
	if ws.Step >= state.StepMerged {
		e.UI.Info("Merge already done (into %s).", ws.TargetBranch)
		return nil
	}

	feature, err := e.workingBranch(ws)
	if err != nil {
		return err
	}

	targets, err := e.mergeTargets(feature)
	if err != nil {
		return err
	}

	options := make([]prompt.Option, 0, len(targets)+1)
	for _, t := range targets {
		options = append(options, prompt.Opt(t))
	}
	options = append(options, prompt.Option{Label: "Cancel", Value: "cancel"})
	target, err := e.Prompt.Select("Merge into which branch?", options)
	if err != nil {
		return err
	}
	if target == "cancel" {
		return prompt.ErrCancelled
	}

	strategy, err := e.Prompt.Select("Merge strategy", []prompt.Option{
		{Label: "Merge with --no-ff (keep all commits)", Value: "merge"},
		{Label: "Squash to one commit, then merge --no-ff", Value: "squash"},
		{Label: "Cancel", Value: "cancel"},
	})
	if err != nil {
		return err
	}
	if strategy == "cancel" {
		return prompt.ErrCancelled
	}

	if strategy == "squash" {
		if err := e.squash(target, feature); err != nil {
			return err
		}
	}

	if _, err := e.git("checkout", target); err != nil {
		return err
	}
	out, mergeErr := e.git("merge", "--no-ff", feature)
	if mergeErr != nil {
		if runner.IsConflict(out) || runner.IsConflict(mergeErr.Error()) {
			e.UI.Error("Merge conflicts detected.")
			e.UI.Info("Resolve the conflicts and run 'git merge --continue', or abort with 'git merge --abort'.")
		}
		return mergeErr
	}
	e.UI.Success("Merged %s into %s.", feature, target)

	ws.TargetBranch = target
	ws.Step = state.StepMerged
	if err := e.Store.Save(ws); err != nil {
		return err
	}

	pushTarget, err := e.Prompt.Confirm(fmt.Sprintf("Push %s to origin?", target), "")
	if err != nil {
		return err
	}
	if pushTarget {
		if err := e.RetryPush(ctx, target, mergeRetryAttempts); err != nil {
			return err
		}
		e.UI.Success("Pushed %s.", target)
	}
	return nil
}

// mergeTargets returns candidate targets in priority order, offering to
// create a development branch when no canonical target exists.
func (e *Engine) mergeTargets(feature string) ([]string, error) {
	branches, err := e.Facts.LocalBranches(e.Dir)
	if err != nil {
		return nil, err
	}
	var targets []string
	for _, b := range branches {
		if b != feature {
			targets = append(targets, b)
		}
	}

	if !hasCanonicalTarget(targets) {
		base := pickBase(targets, feature)
		create, err := e.Prompt.Confirm(
			fmt.Sprintf("No development/main branch found. Create development from %s?", base), "")
		if err != nil {
			return nil, err
		}
		if create {
			if _, err := e.git("branch", "development", base); err != nil {
				return nil, err
			}
			targets = append(targets, "development")
		}
	}
	if len(targets) == 0 {
		return nil, errors.New("no merge target available")
	}
	return SortTargets(targets), nil
}

// squash collapses the feature branch to a single commit. One commit is
// already collapsed, so the reset and amend are skipped entirely.
func (e *Engine) squash(target, feature string) error {
	count, err := e.Facts.CommitCountBetween(e.Dir, target, feature)
	if err != nil {
		return err
	}
	if count <= 1 {
		return nil
	}

	nonLinear, err := e.Facts.HasMergeCommitsBetween(e.Dir, target, feature)
	if err != nil {
		return err
	}
	if nonLinear {
		return fmt.Errorf("%s: %w", feature, ErrNonLinearBranch)
	}

	if _, err := e.git("reset", "--soft", "HEAD~"+strconv.Itoa(count-1)); err != nil {
		return err
	}
	if _, err := e.git("commit", "--amend", "--no-edit"); err != nil {
		return err
	}
	e.UI.Info("Squashed %d commits into one.", count)
	return nil
}

func (e *Engine) cleanup(ctx context.Context, ws *state.WorkflowState) error {
	if ws.Step >= state.StepCleanup {
		e.UI.Info("Cleanup already done.")
		return nil
	}

	feature, err := e.workingBranch(ws)
	if err != nil {
		return err
	}

	if IsProtected(feature) {
		e.UI.Info("Branch %s is protected, skipping deletion.", feature)
		ws.Step = state.StepCleanup
		return e.Store.Save(ws)
	}

	del, err := e.Prompt.Confirm(fmt.Sprintf("Delete branch %s (local and remote)?", feature), "")
	if err != nil {
		return err
	}
	if !del {
		// Leave the user on their feature branch, not wherever the
		// merge step parked them.
		if _, err := e.git("checkout", feature); err != nil {
			return err
		}
		ws.Step = state.StepCleanup
		return e.Store.Save(ws)
	}

	if ws.TargetBranch != "" {
		if _, err := e.git("checkout", ws.TargetBranch); err != nil {
			return err
		}
	}
	if _, err := e.git("branch", "-d", feature); err != nil {
		return err
	}
	// Remote branch may never have existed (push was skipped).
	if _, err := e.git("push", "origin", "--delete", feature); err != nil {
		e.UI.VerboseLog("remote branch deletion skipped: %v", err)
	}
	e.UI.Success("Deleted branch %s.", feature)

	ws.Step = state.StepCleanup
	return e.Store.Save(ws)
}

// workingBranch resolves the feature branch: recorded state first, the
// checked-out branch as fallback.
func (e *Engine) workingBranch(ws *state.WorkflowState) (string, error) {
	if ws.WorkingBranch != "" {
		return ws.WorkingBranch, nil
	}
	return e.Facts.CurrentBranch(e.Dir)
}
