package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driven"
)

// commitTask holds one commit's detail between fetch and persistence.
//
// It has two states: unfetched (detail == nil) and fetched. Fetch moves it
// to fetched once and then returns the cached detail; only Refresh issues
// another request.
type commitTask struct {
	ref    domain.CommitRef
	source driven.CommitSource
	detail *domain.CommitDetail
}

func newCommitTask(ref domain.CommitRef, source driven.CommitSource) *commitTask {
	return &commitTask{ref: ref, source: source}
}

// Fetched reports whether the detail is cached.
func (t *commitTask) Fetched() bool {
	return t.detail != nil
}

// Fetch returns the commit detail, requesting it on first use.
func (t *commitTask) Fetch(ctx context.Context) (*domain.CommitDetail, error) {
	if t.detail != nil {
		return t.detail, nil
	}
	detail, err := t.source.FetchDetail(ctx, t.ref.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", t.ref.SHA, err)
	}
	t.detail = detail
	return detail, nil
}

// Refresh discards the cached detail and fetches it again.
func (t *commitTask) Refresh(ctx context.Context) (*domain.CommitDetail, error) {
	t.detail = nil
	return t.Fetch(ctx)
}

// release drops the cached detail once it has been persisted.
func (t *commitTask) release() {
	t.detail = nil
}
