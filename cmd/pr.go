package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geetocli/geeto/internal/github"
	"github.com/geetocli/geeto/internal/gitx"
)

var (
	prTitle string
	prBase  string
	prBody  string
)

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "Work with GitHub pull requests for this repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		return prListRun(cmd)
	},
}

var prCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a pull request for the current branch",
	RunE: func(cmd *cobra.Command, args []string) error {
		return prCreateRun(cmd)
	},
}

var prListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open pull requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		return prListRun(cmd)
	},
}

func init() {
	prCreateCmd.Flags().StringVar(&prTitle, "title", "", "Pull request title (default: last commit subject)")
	prCreateCmd.Flags().StringVar(&prBase, "base", "development", "Base branch")
	prCreateCmd.Flags().StringVar(&prBody, "body", "", "Pull request body")
	prCmd.AddCommand(prCreateCmd)
	prCmd.AddCommand(prListCmd)
	rootCmd.AddCommand(prCmd)
}

// ghRepo resolves owner/repo from the origin remote and builds a client.
func ghRepo() (github.Client, string, string, error) {
	r := newRunner()
	root, err := repoRoot(r)
	if err != nil {
		return nil, "", "", err
	}
	facts := gitx.New(r)

	remote, err := facts.RemoteURL(root)
	if err != nil || remote == "" {
		return nil, "", "", fmt.Errorf("no origin remote configured")
	}
	owner, repo, err := gitx.ExtractOwnerRepo(remote)
	if err != nil {
		return nil, "", "", err
	}

	token := viper.GetString("github.token")
	if token == "" {
		return nil, "", "", fmt.Errorf("github.token not configured (set GEETO_GITHUB_TOKEN or add it to the config file)")
	}
	return github.NewClient(token), owner, repo, nil
}

func prCreateRun(cmd *cobra.Command) error {
	client, owner, repo, err := ghRepo()
	if err != nil {
		return err
	}

	r := newRunner()
	root, err := repoRoot(r)
	if err != nil {
		return err
	}
	facts := gitx.New(r)

	head, err := facts.CurrentBranch(root)
	if err != nil {
		return err
	}
	if head == prBase {
		return fmt.Errorf("current branch %s is the base branch, nothing to open a pull request from", head)
	}

	title := prTitle
	if title == "" {
		title = head
	}

	if dryRun {
		ui.DryRunMsg("Would open pull request %s/%s: %s (%s -> %s)", owner, repo, title, head, prBase)
		return nil
	}

	pr, err := client.CreatePull(cmd.Context(), owner, repo, title, head, prBase, prBody)
	if err != nil {
		return err
	}
	ui.Success("Opened pull request #%d: %s", pr.Number, pr.URL)
	return nil
}

func prListRun(cmd *cobra.Command) error {
	client, owner, repo, err := ghRepo()
	if err != nil {
		return err
	}

	prs, err := client.ListPulls(cmd.Context(), owner, repo)
	if err != nil {
		return err
	}
	if len(prs) == 0 {
		ui.Info("No open pull requests in %s/%s.", owner, repo)
		return nil
	}

	table := ui.Table([]string{"#", "TITLE", "HEAD", "BASE"})
	for _, pr := range prs {
		table.Append([]string{strconv.Itoa(pr.Number), pr.Title, pr.Head.Ref, pr.Base.Ref})
	}
	table.Render()
	return nil
}
