package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.RunResult
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.RunResult),
	}
}

// Save stores or replaces a run.
func (s *RunStore) Save(_ context.Context, run *domain.RunResult) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = copyRun(*run)
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(_ context.Context, id string) (*domain.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	run = copyRun(run)
	return &run, nil
}

// List returns runs most recent first.
func (s *RunStore) List(_ context.Context, limit int) ([]*domain.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*domain.RunResult, 0, len(s.runs))
	for _, run := range s.runs {
		run = copyRun(run)
		runs = append(runs, &run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func copyRun(run domain.RunResult) domain.RunResult {
	if run.Failures != nil {
		run.Failures = append([]domain.ItemFailure(nil), run.Failures...)
	}
	return run
}
