package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/git-analyzer/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

func TestHistoryService_List(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRunStore()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, store.Save(ctx, &domain.RunResult{
			ID:        id,
			Owner:     "octo",
			Name:      "hello",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	service := NewHistoryService(store)

	runs, err := service.List(ctx, 2)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-2", runs[1].ID)
}

func TestHistoryService_Get(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRunStore()
	require.NoError(t, store.Save(ctx, &domain.RunResult{ID: "run-1", Name: "hello"}))

	service := NewHistoryService(store)

	run, err := service.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "hello", run.Name)

	_, err = service.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = service.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryService_NilStore(t *testing.T) {
	service := NewHistoryService(nil)

	runs, err := service.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = service.Get(context.Background(), "run-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
