package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driving"
	"github.com/custodia-labs/git-analyzer/internal/logger"
)

// Ensure DownloadService implements the interface.
var _ driving.Downloader = (*DownloadService)(nil)

// DownloadService coordinates listing, fetching, persisting and indexing
// the commits of one repository.
type DownloadService struct {
	source  driven.CommitSource
	commits driven.CommitStore
	index   driven.IndexStore
	parser  driven.ChangeSetParser
	runs    driven.RunStore

	mode        domain.SchedulingMode
	concurrency int
	pageSize    int

	// Status tracking, keyed by repository name.
	mu         sync.RWMutex
	activeRuns map[string]*driving.DownloadStatus
}

// NewDownloadService creates a download service.
// The run store is optional; when nil, runs are not recorded.
// Mode and Concurrency are taken from settings, falling back to defaults
// when unset.
func NewDownloadService(
	source driven.CommitSource,
	commits driven.CommitStore,
	index driven.IndexStore,
	parser driven.ChangeSetParser,
	runs driven.RunStore,
	settings domain.AppSettings,
) *DownloadService {
	mode := settings.Mode
	if !mode.IsValid() {
		mode = domain.DefaultMode
	}
	concurrency := settings.Concurrency
	if concurrency < 1 {
		concurrency = domain.DefaultConcurrency
	}

	return &DownloadService{
		source:      source,
		commits:     commits,
		index:       index,
		parser:      parser,
		runs:        runs,
		mode:        mode,
		concurrency: concurrency,
		pageSize:    domain.DefaultPageSize,
		activeRuns:  make(map[string]*driving.DownloadStatus),
	}
}

// Mode returns the scheduling mode in use.
func (s *DownloadService) Mode() domain.SchedulingMode {
	return s.mode
}

// Run downloads the most recent req.Count commits of a repository.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (s *DownloadService) Run(ctx context.Context, req domain.DownloadRequest) (*domain.RunResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.begin(req); err != nil {
		return nil, err
	}
	defer s.clearStatus(req.Name)

	log := logger.With().Str("repo", req.FullName()).Str("mode", s.mode.String()).Logger()

	result := &domain.RunResult{
		ID:        uuid.NewString(),
		Owner:     req.Owner,
		Name:      req.Name,
		Target:    req.Count,
		StartedAt: time.Now().UTC(),
	}

	// 1. Probe the repository
	exists, err := s.source.RepositoryExists(ctx, req.Owner, req.Name)
	if err != nil {
		return nil, fmt.Errorf("probe repository: %w", err)
	}
	if !exists {
		return nil, &domain.RepositoryNotFoundError{Owner: req.Owner, Name: req.Name}
	}

	// 2. List pages and truncate to the requested count
	s.setStage(req.Name, domain.StageListing)
	pages := domain.PageCount(req.Count, s.pageSize)
	log.Debug().Int("pages", pages).Int("target", req.Count).Msg("listing commits")

	var listing []domain.IndexEntry
	if s.mode == domain.ModeSequential {
		listing, err = s.listSequential(ctx, req, pages, log)
	} else {
		listing, err = s.listConcurrent(ctx, req, pages, log)
	}
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	if len(listing) > req.Count {
		listing = listing[:req.Count]
	}
	result.Listed = len(listing)

	// 3. Fetch and persist every distinct commit
	refs := distinctRefs(listing)
	s.update(req.Name, func(st *driving.DownloadStatus) {
		st.Stage = domain.StageFetching
		st.Listed = len(refs)
	})

	var outcomes []commitOutcome
	if s.mode == domain.ModeSequential {
		outcomes = s.fetchSequential(ctx, req, refs, log)
	} else {
		outcomes = s.fetchConcurrent(ctx, req, refs, log)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			result.Failures = append(result.Failures, domain.ItemFailure{SHA: o.sha, Reason: o.err.Error()})
		case o.skipped:
			result.Skipped++
		default:
			result.Persisted++
		}
	}

	// 4. Merge the index after every commit has settled
	s.setStage(req.Name, domain.StageIndexing)
	indexPath, err := s.index.Merge(req.Name, listing)
	if err != nil {
		return nil, fmt.Errorf("merge index: %w", err)
	}
	result.IndexPath = indexPath
	result.RateLimit = s.source.RateLimit()
	result.FinishedAt = time.Now().UTC()
	s.setStage(req.Name, domain.StageDone)

	log.Info().
		Int("persisted", result.Persisted).
		Int("skipped", result.Skipped).
		Int("failed", len(result.Failures)).
		Dur("took", result.Duration()).
		Msg("download complete")

	// 5. Record the run
	if s.runs != nil {
		if err := s.runs.Save(ctx, result); err != nil {
			log.Warn().Err(err).Msg("failed to record run")
		}
	}

	return result, nil
}

// Exists probes whether a repository exists.
func (s *DownloadService) Exists(ctx context.Context, owner, name string) (bool, error) {
	if owner == "" || name == "" {
		return false, nil
	}
	return s.source.RepositoryExists(ctx, owner, name)
}

// Status returns download status for a repository.
func (s *DownloadService) Status(owner, name string) (*driving.DownloadStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if status, ok := s.activeRuns[name]; ok {
		// Return a copy to avoid race conditions
		cp := *status
		return &cp, nil
	}

	// Not running - return idle status
	return &driving.DownloadStatus{
		DownloadProgress: domain.DownloadProgress{Owner: owner, Name: name},
	}, nil
}

// Index returns the stored index of a repository.
func (s *DownloadService) Index(name string) ([]domain.IndexEntry, error) {
	return s.index.Load(name)
}

// Directory returns where a repository's artifacts and index are written.
func (s *DownloadService) Directory(name string) string {
	return s.commits.Dir(name)
}

// Show returns the stored change table of one commit.
func (s *DownloadService) Show(name, sha string) (domain.ChangeTable, error) {
	return s.commits.Load(name, sha)
}

// listSequential requests pages one at a time and stops at the first short
// page, since nothing can follow it.
func (s *DownloadService) listSequential(
	ctx context.Context,
	req domain.DownloadRequest,
	pages int,
	log zerolog.Logger,
) ([]domain.IndexEntry, error) {
	var listing []domain.IndexEntry
	for page := 1; page <= pages; page++ {
		entries, err := s.source.ListPage(ctx, req.Owner, req.Name, page, s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		listing = append(listing, entries...)
		if len(entries) < s.pageSize {
			if page < pages {
				log.Debug().Int("page", page).Int("pages", pages).Msg("listing ended early")
			}
			break
		}
	}
	return listing, nil
}

// listConcurrent requests every page at once and reassembles them in page
// order. The first failing page cancels the rest.
func (s *DownloadService) listConcurrent(
	ctx context.Context,
	req domain.DownloadRequest,
	pages int,
	log zerolog.Logger,
) ([]domain.IndexEntry, error) {
	results := make([][]domain.IndexEntry, pages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range results {
		page := i + 1
		g.Go(func() error {
			entries, err := s.source.ListPage(gctx, req.Owner, req.Name, page, s.pageSize)
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			if len(entries) == 0 {
				log.Debug().Int("page", page).Msg("empty page")
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var listing []domain.IndexEntry
	for _, entries := range results {
		listing = append(listing, entries...)
	}
	return listing, nil
}

// commitOutcome is the terminal state of one commit in a run.
type commitOutcome struct {
	sha     string
	skipped bool
	err     error
}

func (s *DownloadService) fetchSequential(
	ctx context.Context,
	req domain.DownloadRequest,
	refs []domain.CommitRef,
	log zerolog.Logger,
) []commitOutcome {
	outcomes := make([]commitOutcome, len(refs))
	for i, ref := range refs {
		if ctx.Err() != nil {
			break
		}
		outcomes[i] = s.processCommit(ctx, req, ref, log)
	}
	return outcomes
}

// fetchConcurrent processes commits with at most s.concurrency in flight.
// A failing commit never affects its siblings.
func (s *DownloadService) fetchConcurrent(
	ctx context.Context,
	req domain.DownloadRequest,
	refs []domain.CommitRef,
	log zerolog.Logger,
) []commitOutcome {
	outcomes := make([]commitOutcome, len(refs))
	sem := make(chan struct{}, s.concurrency)

	var wg sync.WaitGroup
	for i, ref := range refs {
		select {
		case <-ctx.Done():
			wg.Wait()
			return outcomes
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = s.processCommit(ctx, req, ref, log)
		}()
	}
	wg.Wait()
	return outcomes
}

// processCommit skips, or fetches, parses and persists one commit.
func (s *DownloadService) processCommit(
	ctx context.Context,
	req domain.DownloadRequest,
	ref domain.CommitRef,
	log zerolog.Logger,
) commitOutcome {
	outcome := commitOutcome{sha: ref.SHA}
	defer s.update(req.Name, func(st *driving.DownloadStatus) {
		st.Done++
		if outcome.err != nil {
			st.Failed++
		}
	})

	if !req.Overwrite && s.commits.Exists(req.Name, ref.SHA) {
		log.Debug().Str("sha", ref.SHA).Msg("artifact exists, skipping")
		outcome.skipped = true
		return outcome
	}

	task := newCommitTask(ref, s.source)
	defer task.release()

	detail, err := task.Fetch(ctx)
	if err != nil {
		outcome.err = err
		s.logFailure(log, ref.SHA, err)
		return outcome
	}

	table := s.parser.ToChangeTable(detail.Files)
	if _, err := s.commits.Persist(req.Name, ref.SHA, table, req.Overwrite); err != nil {
		outcome.err = fmt.Errorf("persist %s: %w", ref.SHA, err)
		s.logFailure(log, ref.SHA, outcome.err)
		return outcome
	}

	log.Debug().Str("sha", ref.SHA).Int("files", table.Len()).Msg("persisted")
	return outcome
}

func (s *DownloadService) logFailure(log zerolog.Logger, sha string, err error) {
	event := log.Warn().Str("sha", sha).Err(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		event.Msg("commit unavailable, skipping")
	case errors.Is(err, domain.ErrTransient):
		event.Msg("transient failure, skipping")
	default:
		event.Msg("commit failed, skipping")
	}
}

// distinctRefs returns the listing's commit references with repeated shas
// removed, keeping first occurrences in order.
func distinctRefs(listing []domain.IndexEntry) []domain.CommitRef {
	seen := make(map[string]struct{}, len(listing))
	refs := make([]domain.CommitRef, 0, len(listing))
	for _, e := range listing {
		if _, ok := seen[e.SHA]; ok {
			continue
		}
		seen[e.SHA] = struct{}{}
		refs = append(refs, e.Ref())
	}
	return refs
}

// begin registers a run, refusing a second concurrent run for the same
// repository since the index has a single writer.
func (s *DownloadService) begin(req domain.DownloadRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activeRuns[req.Name]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDownloadInProgress, req.Name)
	}
	s.activeRuns[req.Name] = &driving.DownloadStatus{
		DownloadProgress: domain.DownloadProgress{
			Owner:     req.Owner,
			Name:      req.Name,
			Stage:     domain.StageProbing,
			StartedAt: time.Now().UTC(),
		},
		Running: true,
	}
	return nil
}

func (s *DownloadService) setStage(name string, stage domain.DownloadStage) {
	s.update(name, func(st *driving.DownloadStatus) { st.Stage = stage })
}

func (s *DownloadService) update(name string, fn func(*driving.DownloadStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.activeRuns[name]; ok {
		fn(st)
	}
}

// clearStatus removes the status for a repository.
func (s *DownloadService) clearStatus(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.activeRuns, name)
}
