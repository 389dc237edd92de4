package driven

import (
	"context"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

// CommitSource reads commit data from a hosting API.
// Implementations must be safe for concurrent use so many detail
// fetches can share one connection pool.
type CommitSource interface {
	// RepositoryExists probes the repository once.
	// Returns false with a nil error when the repository does not exist.
	RepositoryExists(ctx context.Context, owner, name string) (bool, error)

	// ListPage returns one page of the commit listing, newest first.
	// A page past the end of history returns an empty slice, not an error.
	ListPage(ctx context.Context, owner, name string, page, pageSize int) ([]domain.IndexEntry, error)

	// FetchDetail fetches the full detail of one commit by its API URL.
	// Fails with domain.ErrNotFound when the commit is absent or the payload
	// is missing required fields, and with domain.ErrTransient for rate
	// limiting, server errors and network failures.
	FetchDetail(ctx context.Context, commitURL string) (*domain.CommitDetail, error)

	// RateLimit returns the counters seen on the most recent response.
	RateLimit() domain.RateLimitState
}
