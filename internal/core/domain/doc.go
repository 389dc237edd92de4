// Package domain defines the core business entities for git-analyzer.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CommitRef / IndexEntry: a commit as seen in the paginated commit listing
//   - CommitDetail / RawFile: one commit's full detail as delivered by the API
//   - FileChange / ChangeTable: the normalised per-commit change table
//   - RunResult: the outcome of one download run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
