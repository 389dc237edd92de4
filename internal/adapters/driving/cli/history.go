package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded download runs",
	Long:  `Lists previous download runs, most recent first.`,
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one recorded run and its failures",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list (0 for all)")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	runs, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No downloads recorded.")
		return nil
	}

	renderRuns(cmd.OutOrStdout(), runs)
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	run, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	cmd.Printf("Run:        %s\n", run.ID)
	cmd.Printf("Repository: %s/%s\n", run.Owner, run.Name)
	cmd.Printf("Started:    %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Printf("Took:       %s\n", run.Duration())
	cmd.Printf("Commits:    %d listed, %d saved, %d skipped, %d failed\n",
		run.Listed, run.Persisted, run.Skipped, len(run.Failures))
	cmd.Printf("Index:      %s\n", run.IndexPath)
	cmd.Printf("Rate limit: %s\n", formatRateLimit(run.RateLimit))

	if len(run.Failures) > 0 {
		cmd.Println()
		renderFailures(cmd.OutOrStdout(), run.Failures)
	}
	return nil
}
