package driving

import (
	"context"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

// Downloader fetches commits of a repository and maintains its index.
type Downloader interface {
	// Run downloads the most recent commits of a repository.
	// Per-commit failures are reported in the result; only a failed
	// existence probe, listing or index write returns an error.
	Run(ctx context.Context, req domain.DownloadRequest) (*domain.RunResult, error)

	// Exists probes whether a repository exists.
	Exists(ctx context.Context, owner, name string) (bool, error)

	// Status returns live progress for a running download.
	Status(owner, name string) (*DownloadStatus, error)

	// Index returns the stored index of a repository.
	Index(name string) ([]domain.IndexEntry, error)

	// Directory returns where a repository's data is written.
	Directory(name string) string

	// Show returns the stored change table of one commit.
	Show(name, sha string) (domain.ChangeTable, error)
}

// DownloadStatus represents the current state of a download.
type DownloadStatus struct {
	domain.DownloadProgress

	// Running indicates if the download is currently in progress.
	Running bool
}
