package driven

import "github.com/custodia-labs/git-analyzer/internal/core/domain"

// IndexStore maintains the per-repository index of listed commits.
type IndexStore interface {
	// Path returns the index file location.
	Path(repo string) string

	// Load returns the stored entries in file order.
	// Returns an empty slice if no index exists yet.
	Load(repo string) ([]domain.IndexEntry, error)

	// Merge appends the entries whose sha is not indexed yet, in input
	// order, and returns the index path. Stored rows are never rewritten.
	Merge(repo string, entries []domain.IndexEntry) (string, error)
}
