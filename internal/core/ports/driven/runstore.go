package driven

import (
	"context"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

// RunStore persists the history of download runs.
type RunStore interface {
	// Save stores a finished run, including its failures.
	Save(ctx context.Context, run *domain.RunResult) error

	// Get retrieves a run by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.RunResult, error)

	// List returns the most recent runs first. A limit of zero or less
	// returns every run.
	List(ctx context.Context, limit int) ([]*domain.RunResult, error)
}
