package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/geetocli/geeto/internal/gitx"
	"github.com/geetocli/geeto/internal/prompt"
	"github.com/geetocli/geeto/internal/undo"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last git action",
	Long: `Classify the most recent git action from the reflog and reverse it.
Every reversal is confirmed first, and anything destructive asks twice.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return undoRun(cmd)
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

func undoRun(cmd *cobra.Command) error {
	r := newRunner()
	root, err := repoRoot(r)
	if err != nil {
		return err
	}
	facts := gitx.New(r)

	action, err := undo.LastAction(facts, root)
	if err != nil {
		return err
	}

	rv := &undo.Reverser{
		Dir:    root,
		R:      r,
		Facts:  facts,
		UI:     ui,
		Prompt: terminalPrompter(),
	}
	if err := rv.Reverse(cmd.Context(), action); err != nil {
		if errors.Is(err, prompt.ErrCancelled) {
			ui.Info("Nothing undone.")
			return nil
		}
		return err
	}
	return nil
}
