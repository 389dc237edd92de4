// Command git-analyzer downloads GitHub commit history for analysis.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/git-analyzer/internal/adapters/driven/auth"
	"github.com/custodia-labs/git-analyzer/internal/adapters/driven/config/file"
	"github.com/custodia-labs/git-analyzer/internal/adapters/driven/storage/csv"
	"github.com/custodia-labs/git-analyzer/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/git-analyzer/internal/adapters/driven/storage/parquet"
	"github.com/custodia-labs/git-analyzer/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/git-analyzer/internal/adapters/driving/cli"
	"github.com/custodia-labs/git-analyzer/internal/connectors/github"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/git-analyzer/internal/core/services"
	"github.com/custodia-labs/git-analyzer/internal/logger"
	"github.com/custodia-labs/git-analyzer/internal/normalisers/changeset"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Settings
	configStore := openConfigStore("")
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings in %s: %w", configStore.Path(), err)
	}

	// One pooled session per process run, shared by every request
	tokens := auth.NewTokenProvider(settings.TokenEnv)
	token, err := tokens.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	httpClient := github.NewHTTPClient(ctx, token, settings.Timeout)
	client, err := github.NewClient(httpClient,
		github.WithBaseURL(settings.APIBaseURL),
		github.WithRequestsPerSecond(settings.RequestsPerSecond),
	)
	if err != nil {
		return fmt.Errorf("create github client: %w", err)
	}

	// Run history; downloads still work without it
	var runStore driven.RunStore
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("run history unavailable: %v", err)
		runStore = memory.NewRunStore()
	} else {
		defer store.Close()
		runStore = store.RunStore()
	}

	downloader := services.NewDownloadService(
		github.NewCommitSource(client),
		parquet.NewCommitStore(settings.DataRoot),
		csv.NewIndexStore(settings.DataRoot),
		changeset.New(),
		runStore,
		*settings,
	)

	cli.SetConfig(&cli.Config{
		Downloader:      downloader,
		SettingsService: settingsService,
		HistoryService:  services.NewHistoryService(runStore),
	})
	cli.SetVersion(version)

	return cli.Execute()
}

// openConfigStore opens config.toml under dir, or the default directory
// when dir is empty. Without a usable directory the defaults are served
// from memory.
func openConfigStore(dir string) driven.ConfigStore {
	store, err := file.NewConfigStore(dir)
	if err != nil {
		logger.Warn("config unavailable, using defaults: %v", err)
		return memory.NewConfigStore()
	}
	return store
}
