package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

var showCmd = &cobra.Command{
	Use:   "show <repository> <sha>",
	Short: "Print the file changes stored for a commit",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if downloader == nil {
		return errors.New("download service not configured")
	}

	name, sha := args[0], args[1]
	table, err := downloader.Show(name, sha)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("commit %s has not been downloaded for %s", sha, name)
	}
	if err != nil {
		return fmt.Errorf("read commit: %w", err)
	}

	var additions, deletions int
	for _, row := range table.Rows {
		additions += row.Additions
		deletions += row.Deletions
	}
	cmd.Printf("%s  %d files  +%d -%d\n\n", sha, table.Len(), additions, deletions)
	if table.Len() > 0 {
		renderChangeTable(cmd.OutOrStdout(), table)
	}
	return nil
}
