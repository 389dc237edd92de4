package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Connectors also return it for commits whose detail payload is
	// missing required fields or cannot be decoded.
	ErrNotFound = errors.New("not found")

	// ErrRepositoryNotFound indicates the target repository does not exist
	// or is not visible with the configured credential.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrTransient indicates a failure that may succeed later:
	// rate limiting, server-side errors or network failures.
	// It is never retried internally.
	ErrTransient = errors.New("transient failure")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDownloadInProgress indicates a download for the same repository
	// is already running in this process.
	ErrDownloadInProgress = errors.New("download in progress")
)

// RepositoryNotFoundError is returned when the existence probe for a
// repository fails before any other work is attempted.
type RepositoryNotFoundError struct {
	Owner string
	Name  string
	URL   string
}

func (e *RepositoryNotFoundError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("repository not found: %s", e.URL)
	}
	return fmt.Sprintf("repository not found: %s/%s", e.Owner, e.Name)
}

// Unwrap allows errors.Is(err, ErrRepositoryNotFound).
func (e *RepositoryNotFoundError) Unwrap() error {
	return ErrRepositoryNotFound
}

// IsNotFound reports whether err marks a missing or malformed commit.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransient reports whether err marks a failure worth retrying later.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
