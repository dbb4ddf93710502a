package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geetocli/geeto/internal/ai"
	"github.com/geetocli/geeto/internal/gitx"
	"github.com/geetocli/geeto/internal/output"
	"github.com/geetocli/geeto/internal/prompt"
	"github.com/geetocli/geeto/internal/runner"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui *output.UI

	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "geeto",
	Short: "Interactive git workflow wizard",
	Long: `geeto walks you through a complete git workflow: stage, branch,
commit, push, merge, cleanup. Progress is saved after every step, so an
interrupted run resumes exactly where it stopped. It can also undo your
last git action, open pull requests, and move Trello cards.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		// Bare `geeto` in a repo shows where the workflow stands.
		if _, err := gitx.New(newRunner()).RepoRoot("."); err == nil {
			return statusRun(cmd.Context())
		}
		return cmd.Help()
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/geeto/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "geeto")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("GEETO")
	viper.AutomaticEnv()

	viper.SetDefault("ai.provider", "")
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("openrouter.api_key", "")
	viper.SetDefault("openrouter.model", "openrouter/auto")
	viper.SetDefault("github.token", "")
	viper.SetDefault("trello.api_key", "")
	viper.SetDefault("trello.token", "")
	viper.SetDefault("trello.board_id", "")

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun
}

// newRunner returns the command runner, swapping in the dry-run wrapper
// when --dry-run is set.
func newRunner() runner.Runner {
	real := runner.NewExecRunner()
	if dryRun {
		return &runner.DryRunner{Real: real, Logf: func(format string, a ...any) {
			ui.DryRunMsg(format, a...)
		}}
	}
	return real
}

// aiProvider builds the configured AI provider from viper values.
// Missing credentials yield the unavailable provider, never an error.
func aiProvider() ai.Provider {
	return ai.New(ai.Config{
		Provider:         viper.GetString("ai.provider"),
		AnthropicAPIKey:  viper.GetString("anthropic.api_key"),
		AnthropicModel:   viper.GetString("anthropic.model"),
		GeminiAPIKey:     viper.GetString("gemini.api_key"),
		GeminiModel:      viper.GetString("gemini.model"),
		OpenRouterAPIKey: viper.GetString("openrouter.api_key"),
		OpenRouterModel:  viper.GetString("openrouter.model"),
	})
}

// repoRoot resolves the repository working tree root from the cwd.
func repoRoot(r runner.Runner) (string, error) {
	root, err := gitx.New(r).RepoRoot(".")
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	return root, nil
}

// terminalPrompter returns the interactive prompter used by every
// command that asks questions.
func terminalPrompter() prompt.Prompter {
	return prompt.NewTerminal()
}
