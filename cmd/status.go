package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geetocli/geeto/internal/gitx"
	"github.com/geetocli/geeto/internal/output"
	"github.com/geetocli/geeto/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workflow progress and repository state",
	Long: `Show where the saved workflow stands, step by step, together with the
live state of the repository (branch, changed files, in-progress
operations).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusRun(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(ctx context.Context) error {
	r := newRunner()
	root, err := repoRoot(r)
	if err != nil {
		return err
	}
	facts := gitx.New(r)

	store := state.NewFileStore(root)
	ws, err := store.Load()
	if err != nil {
		ui.Warning("State file unreadable: %v", err)
	}
	// Load returns no state at all for read failures that aren't
	// corruption (permissions, state.json being a directory).
	if ws == nil {
		ws = state.NewWorkflowState()
	}

	branch, _ := facts.CurrentBranch(root)
	dirty, _ := facts.IsDirty(root)
	op, _ := facts.OperationInProgress(root)

	ui.Info("Repository: %s", root)
	ui.Info("Branch:     %s", output.Cyan(branch))
	if dirty {
		ui.Warning("Working tree has uncommitted changes.")
	}
	if op != gitx.OpNone {
		ui.Warning("A %s is in progress.", op)
	}
	fmt.Fprintln(ui.Out)

	table := ui.Table([]string{"STEP", "STATUS"})
	for step := state.StepStaged; step <= state.StepCleanup; step++ {
		status := "pending"
		if ws.Step >= step {
			status = "done"
			if step == state.StepPushed && ws.SkippedPush {
				status = "skipped"
			}
		}
		table.Append([]string{output.StepColor(step.String(), ws.Step >= step), status})
	}
	table.Render()
	fmt.Fprintln(ui.Out)

	if ws.Step == state.StepNone {
		ui.Info("No workflow in progress. Run 'geeto flow' to start one.")
		return nil
	}
	if ws.WorkingBranch != "" {
		ui.Info("Working branch: %s", output.Cyan(ws.WorkingBranch))
	}
	if ws.TargetBranch != "" {
		ui.Info("Target branch:  %s", output.Cyan(ws.TargetBranch))
	}
	if ws.Step >= state.StepCleanup {
		ui.Success("Workflow finished.")
		return nil
	}
	ui.Info("Next: rerun 'geeto flow' to continue at %s.", ws.Step+1)
	return nil
}
