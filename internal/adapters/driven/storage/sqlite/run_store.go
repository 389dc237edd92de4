package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

const selectRun = `
	SELECT id, owner, name, target, listed, persisted, skipped, index_path,
		rate_limit, rate_remaining, rate_reset, started_at, finished_at
	FROM runs`

// Save stores a run and replaces its failures.
func (s *runStore) Save(ctx context.Context, run *domain.RunResult) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, owner, name, target, listed, persisted, skipped, index_path,
			rate_limit, rate_remaining, rate_reset, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			listed = excluded.listed,
			persisted = excluded.persisted,
			skipped = excluded.skipped,
			index_path = excluded.index_path,
			rate_limit = excluded.rate_limit,
			rate_remaining = excluded.rate_remaining,
			rate_reset = excluded.rate_reset,
			finished_at = excluded.finished_at
	`, run.ID, run.Owner, run.Name, run.Target, run.Listed, run.Persisted, run.Skipped,
		nullString(run.IndexPath), run.RateLimit.Limit, run.RateLimit.Remaining,
		formatNullableTime(run.RateLimit.ResetAt), formatTime(run.StartedAt), formatNullableTime(run.FinishedAt))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM run_failures WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clearing run failures: %w", err)
	}

	for i, f := range run.Failures {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_failures (run_id, position, sha, reason) VALUES (?, ?, ?, ?)
		`, run.ID, i, f.SHA, f.Reason)
		if err != nil {
			return fmt.Errorf("saving run failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *runStore) Get(ctx context.Context, id string) (*domain.RunResult, error) {
	row := s.store.db.QueryRowContext(ctx, selectRun+" WHERE id = ?", id)

	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	if err := s.loadFailures(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// List returns runs ordered by start time descending (most recent first).
func (s *runStore) List(ctx context.Context, limit int) ([]*domain.RunResult, error) {
	query := selectRun + " ORDER BY started_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.RunResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for _, run := range runs {
		if err := s.loadFailures(ctx, run); err != nil {
			return nil, err
		}
	}

	return runs, nil
}

func (s *runStore) loadFailures(ctx context.Context, run *domain.RunResult) error {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT sha, reason FROM run_failures WHERE run_id = ? ORDER BY position
	`, run.ID)
	if err != nil {
		return fmt.Errorf("querying run failures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f domain.ItemFailure
		if err := rows.Scan(&f.SHA, &f.Reason); err != nil {
			return fmt.Errorf("scanning run failure: %w", err)
		}
		run.Failures = append(run.Failures, f)
	}
	return rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.RunResult, error) {
	var run domain.RunResult
	var indexPath, rateReset, finishedAt sql.NullString
	var startedAt string

	err := row.Scan(&run.ID, &run.Owner, &run.Name, &run.Target, &run.Listed,
		&run.Persisted, &run.Skipped, &indexPath,
		&run.RateLimit.Limit, &run.RateLimit.Remaining, &rateReset, &startedAt, &finishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.IndexPath = indexPath.String
	run.RateLimit.ResetAt = parseNullableTime(rateReset)
	run.StartedAt = parseNullableTime(sql.NullString{String: startedAt, Valid: true})
	run.FinishedAt = parseNullableTime(finishedAt)
	return &run, nil
}

// ==================== Helper Functions ====================

// timeLayout is fixed width so lexical order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatNullableTime formats a time as RFC3339, or returns nil if zero.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
