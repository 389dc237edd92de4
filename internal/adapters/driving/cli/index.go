package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <repository>",
	Short: "Print the stored commit index of a repository",
	Long: `Prints the commits recorded in a repository's index.csv, sorted by sha.
The repository is given by name, without the owner.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if downloader == nil {
		return errors.New("download service not configured")
	}

	name := args[0]
	entries, err := downloader.Index(name)
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}
	if len(entries) == 0 {
		cmd.Printf("No commits indexed for %s.\n", name)
		return nil
	}

	cmd.Printf("%d commits in %s\n\n", len(entries), downloader.Directory(name))
	renderIndex(cmd.OutOrStdout(), entries)
	return nil
}
