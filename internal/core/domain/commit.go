package domain

import "time"

// DefaultPageSize is the largest page the commit listing API serves.
const DefaultPageSize = 100

// CommitRef identifies one commit as produced by the commit listing.
// It is immutable once produced.
type CommitRef struct {
	// SHA is the commit hash and the unique key of a commit.
	SHA string
	// URL is the API URL of the commit detail resource.
	URL string
}

// Signature is the committer block of a commit.
type Signature struct {
	Name  string
	Email string
	Date  time.Time
}

// TreeRef points at the root tree of a commit.
type TreeRef struct {
	SHA string
	URL string
}

// ParentRef points at a parent commit.
type ParentRef struct {
	SHA     string
	URL     string
	HTMLURL string
}

// CommitStats holds the line counts of a commit.
type CommitStats struct {
	Additions int
	Deletions int
	Total     int
}

// RawFile is one entry of a commit's file list exactly as decoded from
// the API payload. Values keep their JSON types (numbers are float64
// unless the decoder was told otherwise).
type RawFile map[string]any

// CommitDetail is the full detail of one commit.
// It is owned by the commit it describes and fetched at most once
// per download task unless explicitly refreshed.
type CommitDetail struct {
	SHA       string
	NodeID    string
	Committer Signature
	Message   string
	Tree      TreeRef
	Parents   []ParentRef
	Stats     CommitStats
	// Files is never nil for a valid detail; an empty slice means the
	// commit touched no files.
	Files []RawFile
}

// FileChange is one row of a commit's change table.
type FileChange struct {
	SHA         string
	Filename    string
	Status      string
	Additions   int
	Deletions   int
	Changes     int
	BlobURL     string
	RawURL      string
	ContentsURL string
	// Patch is nil for binary files and diffs too large to inline.
	Patch *string
}

// Column names of a change table, in storage order.
const (
	ColumnSHA         = "sha"
	ColumnFilename    = "filename"
	ColumnStatus      = "status"
	ColumnAdditions   = "additions"
	ColumnDeletions   = "deletions"
	ColumnChanges     = "changes"
	ColumnBlobURL     = "blob_url"
	ColumnRawURL      = "raw_url"
	ColumnContentsURL = "contents_url"
	ColumnPatch       = "patch"
)

// ChangeTableColumns returns the fixed column order of a change table.
// Downstream consumers depend on this order.
func ChangeTableColumns() []string {
	return []string{
		ColumnSHA,
		ColumnFilename,
		ColumnStatus,
		ColumnAdditions,
		ColumnDeletions,
		ColumnChanges,
		ColumnBlobURL,
		ColumnRawURL,
		ColumnContentsURL,
		ColumnPatch,
	}
}

// ChangeTable is the ordered set of file changes of one commit.
type ChangeTable struct {
	Rows []FileChange
}

// Columns returns the table schema. It is the same for empty tables.
func (t ChangeTable) Columns() []string {
	return ChangeTableColumns()
}

// Len returns the number of rows.
func (t ChangeTable) Len() int {
	return len(t.Rows)
}

// RateLimitState mirrors the rate-limit counters of the most recent
// response that carried them. Both counters are -1 until first observed.
type RateLimitState struct {
	Limit     int
	Remaining int

	// ResetAt is when the quota refills, zero until observed.
	ResetAt time.Time
}

// UnknownRateLimit returns the state before any response was observed.
func UnknownRateLimit() RateLimitState {
	return RateLimitState{Limit: -1, Remaining: -1}
}

// Known reports whether at least one counter has been observed.
func (s RateLimitState) Known() bool {
	return s.Limit >= 0 || s.Remaining >= 0
}

// PageCount returns how many listing pages are needed to cover count items.
func PageCount(count, pageSize int) int {
	if count <= 0 {
		return 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (count + pageSize - 1) / pageSize
}
