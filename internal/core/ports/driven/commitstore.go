package driven

import "github.com/custodia-labs/git-analyzer/internal/core/domain"

// CommitStore persists one change table per commit.
type CommitStore interface {
	// Dir returns the directory holding a repository's artifacts.
	Dir(repo string) string

	// Path returns the deterministic artifact location for a commit.
	Path(repo, sha string) string

	// Exists checks for the artifact without any network call.
	Exists(repo, sha string) bool

	// Persist writes the table and returns its path. When the artifact
	// exists and overwrite is false, nothing is written. Readers never
	// observe a partially written artifact.
	Persist(repo, sha string, table domain.ChangeTable, overwrite bool) (string, error)

	// Load reads an artifact back.
	// Returns domain.ErrNotFound if it does not exist.
	Load(repo, sha string) (domain.ChangeTable, error)
}
