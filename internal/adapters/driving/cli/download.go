package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driving"
)

// pollInterval is how often a running download is polled for progress.
var pollInterval = 200 * time.Millisecond

func runDownload(cmd *cobra.Command, _ []string) error {
	if downloader == nil {
		return errors.New("download service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintln(out, titleStyle.Render("GitHub Repository Commits Download Tool"))
	_, _ = fmt.Fprintln(out, mutedStyle.Render(strings.Repeat("=", 38)))
	_, _ = fmt.Fprintln(out)

	owner, name, err := askRepository(ctx, out)
	if err != nil {
		return err
	}
	count, err := askCount(out)
	if err != nil {
		return err
	}

	req := domain.DownloadRequest{Owner: owner, Name: name, Count: count}

	_, _ = fmt.Fprintln(out)
	heading(out, titleStyle, "Download Directory")
	_, _ = fmt.Fprintln(out, downloader.Directory(name))

	_, _ = fmt.Fprintln(out)
	heading(out, titleStyle, fmt.Sprintf("Downloading the latest %d Commits...", count))

	result, err := downloadWithProgress(ctx, out, downloader, req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	if len(result.Failures) > 0 {
		_, _ = fmt.Fprintln(out)
		heading(out, warningStyle, fmt.Sprintf("%d commits skipped", len(result.Failures)))
		renderFailures(out, result.Failures)
	}
	_, _ = fmt.Fprintln(out, successStyle.Render("Finished"))
	_, _ = fmt.Fprintf(out, "%s\n\n", mutedStyle.Render("Rate limit: "+formatRateLimit(result.RateLimit)))

	entries, err := downloader.Index(name)
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}
	heading(out, titleStyle, "Downloaded Commits Index")
	renderIndex(out, entries)
	return nil
}

// askRepository prompts until the repository exists.
func askRepository(ctx context.Context, out io.Writer) (string, string, error) {
	for {
		_, _ = fmt.Fprintln(out, "Enter the GitHub repository information:")
		owner, err := prompter.Input("Repository Owner :")
		if err != nil {
			return "", "", err
		}
		name, err := prompter.Input("Repository Name  :")
		if err != nil {
			return "", "", err
		}
		owner, name = strings.TrimSpace(owner), strings.TrimSpace(name)

		exists, err := downloader.Exists(ctx, owner, name)
		if err != nil {
			return "", "", fmt.Errorf("check repository: %w", err)
		}
		if exists {
			return owner, name, nil
		}
		banner(out, "REPOSITORY DOES NOT EXIST")
	}
}

// askCount prompts until a non-negative integer is entered and clamps it to
// the commit limit.
func askCount(out io.Writer) (int, error) {
	prompt := fmt.Sprintf("Number of commits to download (0-%d):", domain.MaxCommitCount)
	for {
		answer, err := prompter.Input(prompt)
		if err != nil {
			return 0, err
		}
		count, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil {
			banner(out, "INVALID NUMBER OF COMMITS")
			continue
		}
		if count < 0 {
			banner(out, "NUMBER OF COMMITS MUST BE POSITIVE")
			continue
		}
		if count > domain.MaxCommitCount {
			count = domain.MaxCommitCount
			heading(out, warningStyle, fmt.Sprintf("Limit is %d commits", domain.MaxCommitCount))
			_, _ = fmt.Fprintln(out)
		}
		return count, nil
	}
}

// downloadWithProgress runs a download while displaying progress updates.
func downloadWithProgress(
	ctx context.Context,
	out io.Writer,
	d driving.Downloader,
	req domain.DownloadRequest,
) (*domain.RunResult, error) {
	type outcome struct {
		result *domain.RunResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := d.Run(ctx, req)
		done <- outcome{result, err}
	}()

	view := newProgressView(out)
	defer view.finish()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case o := <-done:
			if o.err == nil {
				view.render(domain.DownloadProgress{
					Stage:  domain.StageDone,
					Listed: o.result.Listed,
					Done:   o.result.Persisted + o.result.Skipped + len(o.result.Failures),
				})
			}
			return o.result, o.err
		case <-ticker.C:
			// Best effort; a failed poll just skips a frame
			status, err := d.Status(req.Owner, req.Name)
			if err == nil && status != nil && status.Running {
				view.render(status.DownloadProgress)
			}
		}
	}
}
