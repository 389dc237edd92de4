package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads recorded download runs.
type HistoryService struct {
	runs driven.RunStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(runs driven.RunStore) *HistoryService {
	return &HistoryService{runs: runs}
}

// List returns the most recent runs first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]*domain.RunResult, error) {
	if s.runs == nil {
		return nil, nil
	}
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.RunResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	if s.runs == nil {
		return nil, domain.ErrNotFound
	}
	return s.runs.Get(ctx, id)
}
