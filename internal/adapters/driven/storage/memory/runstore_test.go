package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

func TestRunStore_SaveAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	run := &domain.RunResult{
		ID:       "r1",
		Owner:    "o",
		Name:     "n",
		Failures: []domain.ItemFailure{{SHA: "a", Reason: "not found"}},
	}

	require.NoError(t, store.Save(ctx, run))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, run, got)

	// Stored copies are isolated from the caller.
	got.Failures[0].SHA = "changed"
	again, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Failures[0].SHA)
}

func TestRunStore_GetNotFound(t *testing.T) {
	_, err := NewRunStore().Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_SaveInvalid(t *testing.T) {
	store := NewRunStore()

	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(context.Background(), &domain.RunResult{}), domain.ErrInvalidInput)
}

func TestRunStore_List(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, store.Save(ctx, &domain.RunResult{ID: "old", StartedAt: base}))
	require.NoError(t, store.Save(ctx, &domain.RunResult{ID: "new", StartedAt: base.Add(time.Minute)}))

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "old", runs[1].ID)

	runs, err = store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "new", runs[0].ID)
}
