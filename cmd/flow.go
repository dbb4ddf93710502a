package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geetocli/geeto/internal/gitx"
	"github.com/geetocli/geeto/internal/prompt"
	"github.com/geetocli/geeto/internal/state"
	"github.com/geetocli/geeto/internal/wizard"
)

var (
	flowStartAt string
	flowReset   bool
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Run the stage → branch → commit → push → merge → cleanup wizard",
	Long: `Run the interactive workflow wizard. Each step is confirmed before any
git command runs, and progress is saved to .geeto/state.json so an
interrupted run resumes at the unfinished step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return flowRun(cmd)
	},
}

func init() {
	flowCmd.Flags().StringVar(&flowStartAt, "start-at", "", "Resume at a named step (stage, branch, commit, push, merge, cleanup)")
	flowCmd.Flags().BoolVar(&flowReset, "reset", false, "Discard saved progress and start over")
	rootCmd.AddCommand(flowCmd)
}

func flowRun(cmd *cobra.Command) error {
	r := newRunner()
	root, err := repoRoot(r)
	if err != nil {
		return err
	}

	store := state.NewFileStore(root)
	if err := store.EnsureExcluded(); err != nil {
		ui.VerboseLog("could not update .git/info/exclude: %v", err)
	}
	if flowReset {
		if err := store.Reset(); err != nil {
			return err
		}
		ui.Info("Saved progress discarded.")
	}

	opts := wizard.Options{}
	if flowStartAt != "" {
		step, err := state.ParseStep(flowStartAt)
		if err != nil {
			return err
		}
		opts.StartAt = step
	}

	engine := &wizard.Engine{
		Dir:    root,
		R:      r,
		Facts:  gitx.New(r),
		Store:  store,
		UI:     ui,
		Prompt: terminalPrompter(),
		AI:     aiProvider(),
	}

	ws, err := engine.Run(cmd.Context(), opts)
	if err != nil {
		if errors.Is(err, prompt.ErrCancelled) {
			ui.Info("Stopped. Progress is saved; rerun 'geeto flow' to continue.")
			return nil
		}
		if ws != nil {
			return fmt.Errorf("%w (progress saved at %s, rerun 'geeto flow' to resume)", err, ws.Step)
		}
		return err
	}
	return nil
}
