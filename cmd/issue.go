package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var issueBody string

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Work with GitHub issues for this repository",
}

var issueCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Open an issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueCreateRun(cmd, args[0])
	},
}

var issueLabelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the repository's labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueLabelsRun(cmd)
	},
}

func init() {
	issueCreateCmd.Flags().StringVar(&issueBody, "body", "", "Issue body")
	issueCmd.AddCommand(issueCreateCmd)
	issueCmd.AddCommand(issueLabelsCmd)
	rootCmd.AddCommand(issueCmd)
}

func issueCreateRun(cmd *cobra.Command, title string) error {
	client, owner, repo, err := ghRepo()
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would open issue in %s/%s: %s", owner, repo, title)
		return nil
	}

	issue, err := client.CreateIssue(cmd.Context(), owner, repo, title, issueBody)
	if err != nil {
		return err
	}
	ui.Success("Opened issue #%d: %s", issue.Number, issue.URL)
	return nil
}

func issueLabelsRun(cmd *cobra.Command) error {
	client, owner, repo, err := ghRepo()
	if err != nil {
		return err
	}

	labels, err := client.ListLabels(cmd.Context(), owner, repo)
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		ui.Info("No labels in %s/%s.", owner, repo)
		return nil
	}

	table := ui.Table([]string{"LABEL", "COLOR"})
	for _, l := range labels {
		table.Append([]string{l.Name, fmt.Sprintf("#%s", l.Color)})
	}
	table.Render()
	return nil
}
