package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/git-analyzer/internal/core/ports/driving"
	"github.com/custodia-labs/git-analyzer/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired in by the composition root.
var (
	downloader      driving.Downloader
	settingsService driving.SettingsService
	historyService  driving.HistoryService
	prompter        Prompter = NewSurveyPrompter()
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "git-analyzer",
	Short: "Download GitHub commit history for analysis",
	Long: `git-analyzer downloads the most recent commits of a GitHub repository.

Running it without a subcommand starts the interactive downloader: it asks
for a repository and a number of commits, stores one parquet file of file
changes per commit and keeps a deduplicated index.csv per repository.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runDownload,
}

// Config holds the services used by the commands.
type Config struct {
	Downloader      driving.Downloader
	SettingsService driving.SettingsService
	HistoryService  driving.HistoryService
}

// SetConfig sets the services used by the commands.
func SetConfig(config *Config) {
	if config == nil {
		return
	}
	downloader = config.Downloader
	settingsService = config.SettingsService
	historyService = config.HistoryService
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
