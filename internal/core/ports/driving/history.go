package driving

import (
	"context"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

// HistoryService reads recorded download runs.
type HistoryService interface {
	// List returns the most recent runs first.
	List(ctx context.Context, limit int) ([]*domain.RunResult, error)

	// Get returns one run by ID.
	Get(ctx context.Context, id string) (*domain.RunResult, error)
}
