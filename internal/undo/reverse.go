package undo

import (
	"context"
	"fmt"

	"github.com/geetocli/geeto/internal/gitx"
	"github.com/geetocli/geeto/internal/output"
	"github.com/geetocli/geeto/internal/prompt"
	"github.com/geetocli/geeto/internal/runner"
)

// statusPathLimit caps how many changed paths the post-undo report lists.
const statusPathLimit = 10

// Reverser undoes the last git action interactively.
type Reverser struct {
	Dir    string
	R      runner.Runner
	Facts  *gitx.Facts
	UI     *output.UI
	Prompt prompt.Prompter
}

func (rv *Reverser) git(args ...string) (string, error) {
	return runner.Git(rv.R, rv.Dir, args...)
}

// Reverse dispatches to the reversal procedure for the action's
// category. Every procedure asks before acting, double-confirms hard
// resets, and reports the resulting working-tree status.
func (rv *Reverser) Reverse(ctx context.Context, action *Action) error {
	rv.UI.Info("Last action: %s (%s)", action.Type, action.Description)

	var err error
	switch action.Type {
	case CategoryCommit, CategoryCherryPick:
		err = rv.reverseCommit(action)
	case CategoryAmend:
		err = rv.reverseAmend(action)
	case CategoryMerge, CategoryMergeCommit:
		err = rv.reverseMerge(action)
	case CategoryCheckout:
		err = rv.reverseCheckout(action)
	case CategoryPull:
		err = rv.reversePull(action)
	case CategoryRebase:
		err = rv.reverseRebase(action)
	case CategoryReset:
		err = rv.reverseReset(action)
	case CategoryBranch, CategoryUnknown:
		err = rv.reverseGeneric(action)
	default:
		err = rv.reverseGeneric(action)
	}
	if err != nil {
		return err
	}
	return rv.reportStatus()
}

func (rv *Reverser) reverseCommit(action *Action) error {
	choice, err := rv.Prompt.Select("How should the last commit be undone?", []prompt.Option{
		{Label: "Soft reset (keep changes staged)", Value: "soft"},
		{Label: "Mixed reset (keep changes unstaged)", Value: "mixed"},
		{Label: "Hard reset (discard changes)", Value: "hard"},
		{Label: "Cancel", Value: "cancel"},
	})
	if err != nil {
		return err
	}
	if choice == "cancel" {
		return prompt.ErrCancelled
	}
	return rv.reset(choice, "HEAD~1")
}

func (rv *Reverser) reverseAmend(action *Action) error {
	// No hard option: an amend never touched the working tree, so
	// discarding it is never the right reversal.
	choice, err := rv.Prompt.Select("How should the amend be undone?", []prompt.Option{
		{Label: "Soft reset to the pre-amend commit (keep changes staged)", Value: "soft"},
		{Label: "Mixed reset to the pre-amend commit (keep changes unstaged)", Value: "mixed"},
		{Label: "Cancel", Value: "cancel"},
	})
	if err != nil {
		return err
	}
	if choice == "cancel" {
		return prompt.ErrCancelled
	}
	return rv.reset(choice, action.PrevHash)
}

func (rv *Reverser) reverseMerge(action *Action) error {
	op, err := rv.Facts.OperationInProgress(rv.Dir)
	if err != nil {
		return err
	}
	if op == gitx.OpMerge {
		confirmed, err := rv.Prompt.Confirm("A merge is in progress. Abort it?", "Runs git merge --abort")
		if err != nil {
			return err
		}
		if !confirmed {
			return prompt.ErrCancelled
		}
		_, err = rv.git("merge", "--abort")
		return err
	}

	choice, err := rv.Prompt.Select("How should the merge be undone?", []prompt.Option{
		{Label: "Hard reset to before the merge (discard merge result)", Value: "hard"},
		{Label: "Revert with a new commit (keeps history)", Value: "revert"},
		{Label: "Cancel", Value: "cancel"},
	})
	if err != nil {
		return err
	}
	if choice == "cancel" {
		return prompt.ErrCancelled
	}
	if choice == "revert" {
		_, err := rv.git("revert", "-m", "1", action.Hash)
		return err
	}
	return rv.reset("hard", action.PrevHash)
}

func (rv *Reverser) reverseCheckout(action *Action) error {
	from, _, ok := gitx.ParseCheckoutSubject(action.Subject)
	if !ok {
		// Subject format is a heuristic, not a contract. Tell the user
		// how to do it themselves rather than guessing.
		rv.UI.Warning("Could not parse the checkout reflog entry.")
		rv.UI.Info("Run 'git checkout -' to return to the previous branch.")
		return nil
	}
	confirmed, err := rv.Prompt.Confirm(fmt.Sprintf("Check out %s again?", from), "")
	if err != nil {
		return err
	}
	if !confirmed {
		return prompt.ErrCancelled
	}
	_, err = rv.git("checkout", from)
	return err
}

func (rv *Reverser) reversePull(action *Action) error {
	choice, err := rv.Prompt.Select("How should the pull be undone?", []prompt.Option{
		{Label: "Hard reset to before the pull (discard pulled changes)", Value: "hard"},
		{Label: "Mixed reset to before the pull (keep files, reset refs)", Value: "mixed"},
		{Label: "Cancel", Value: "cancel"},
	})
	if err != nil {
		return err
	}
	if choice == "cancel" {
		return prompt.ErrCancelled
	}
	return rv.reset(choice, action.PrevHash)
}

func (rv *Reverser) reverseRebase(action *Action) error {
	op, err := rv.Facts.OperationInProgress(rv.Dir)
	if err != nil {
		return err
	}
	if op == gitx.OpRebase {
		confirmed, err := rv.Prompt.Confirm("A rebase is in progress. Abort it?", "Runs git rebase --abort")
		if err != nil {
			return err
		}
		if !confirmed {
			return prompt.ErrCancelled
		}
		_, err = rv.git("rebase", "--abort")
		return err
	}
	return rv.reset("hard", action.PrevHash)
}

func (rv *Reverser) reverseReset(action *Action) error {
	rv.UI.Warning("Reversing a reset resets again, to where HEAD was before.")
	confirmed, err := rv.Prompt.Confirm(fmt.Sprintf("Hard reset to %s?", short(action.PrevHash)), "")
	if err != nil {
		return err
	}
	if !confirmed {
		return prompt.ErrCancelled
	}
	_, err = rv.git("reset", "--hard", action.PrevHash)
	return err
}

func (rv *Reverser) reverseGeneric(action *Action) error {
	choice, err := rv.Prompt.Select("How should the last action be undone?", []prompt.Option{
		{Label: "Soft reset (keep changes staged)", Value: "soft"},
		{Label: "Mixed reset (keep changes unstaged)", Value: "mixed"},
		{Label: "Hard reset (discard changes)", Value: "hard"},
		{Label: "Cancel", Value: "cancel"},
	})
	if err != nil {
		return err
	}
	if choice == "cancel" {
		return prompt.ErrCancelled
	}
	return rv.reset(choice, action.PrevHash)
}

// reset runs git reset with the chosen mode. Hard resets require a
// second, explicit confirmation.
func (rv *Reverser) reset(mode, target string) error {
	if mode == "hard" {
		confirmed, err := rv.Prompt.Confirm(
			fmt.Sprintf("Hard reset to %s?", short(target)),
			"Uncommitted changes will be lost. This cannot be undone.",
		)
		if err != nil {
			return err
		}
		if !confirmed {
			return prompt.ErrCancelled
		}
	}
	_, err := rv.git("reset", "--"+mode, target)
	return err
}

func (rv *Reverser) reportStatus() error {
	paths, more, err := rv.Facts.StatusSummary(rv.Dir, statusPathLimit)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		rv.UI.Success("Working tree clean.")
		return nil
	}
	rv.UI.Info("Changed paths:")
	for _, p := range paths {
		rv.UI.Info("  %s", p)
	}
	if more > 0 {
		rv.UI.Info("  ... and %d more", more)
	}
	return nil
}

func short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
