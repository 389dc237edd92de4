package domain

import (
	"fmt"
	"time"
)

// MaxCommitCount is the largest commit count the interactive downloader accepts.
const MaxCommitCount = 4000

// DownloadRequest describes one download run.
type DownloadRequest struct {
	Owner string
	Name  string
	// Count is the number of most recent commits to fetch.
	Count int
	// Overwrite re-fetches and rewrites commits whose artifact exists.
	Overwrite bool
}

// FullName returns "owner/name".
func (r DownloadRequest) FullName() string {
	return r.Owner + "/" + r.Name
}

// Validate checks the request before any network call is made.
func (r DownloadRequest) Validate() error {
	if r.Owner == "" || r.Name == "" {
		return fmt.Errorf("%w: owner and repository name are required", ErrInvalidInput)
	}
	if r.Count < 0 {
		return fmt.Errorf("%w: commit count must not be negative, got %d", ErrInvalidInput, r.Count)
	}
	return nil
}

// ItemFailure records one commit that could not be persisted.
type ItemFailure struct {
	SHA    string
	Reason string
}

// RunResult summarises a completed download run.
type RunResult struct {
	ID     string
	Owner  string
	Name   string
	Target int
	// Listed is the number of commits in the truncated listing.
	Listed int
	// Persisted counts artifacts written during this run.
	Persisted int
	// Skipped counts commits whose artifact already existed.
	Skipped   int
	Failures  []ItemFailure
	IndexPath string
	RateLimit RateLimitState
	StartedAt time.Time
	// FinishedAt is zero while the run is in progress.
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (r *RunResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeeded reports whether every listed commit was persisted or skipped.
func (r *RunResult) Succeeded() bool {
	return len(r.Failures) == 0
}

// DownloadProgress is a live snapshot of a running download.
type DownloadProgress struct {
	Owner  string
	Name   string
	Stage  DownloadStage
	Listed int
	// Done counts commits that reached a terminal state
	// (persisted, skipped or failed).
	Done      int
	Failed    int
	StartedAt time.Time
}

// DownloadStage names the phase a download is in.
type DownloadStage string

// Download stages, in order.
const (
	StageProbing  DownloadStage = "probing"
	StageListing  DownloadStage = "listing"
	StageFetching DownloadStage = "fetching"
	StageIndexing DownloadStage = "indexing"
	StageDone     DownloadStage = "done"
)

// Fraction returns completion in [0, 1].
func (p DownloadProgress) Fraction() float64 {
	if p.Stage == StageDone {
		return 1
	}
	if p.Listed == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Listed)
}
