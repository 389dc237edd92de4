package domain

// Index column names, matching the commit listing API shape.
const (
	IndexColumnSHA         = "sha"
	IndexColumnNodeID      = "node_id"
	IndexColumnCommit      = "commit"
	IndexColumnURL         = "url"
	IndexColumnHTMLURL     = "html_url"
	IndexColumnCommentsURL = "comments_url"
	IndexColumnAuthor      = "author"
	IndexColumnCommitter   = "committer"
	IndexColumnParents     = "parents"
)

// IndexColumns returns the header of a repository index, in order.
func IndexColumns() []string {
	return []string{
		IndexColumnSHA,
		IndexColumnNodeID,
		IndexColumnCommit,
		IndexColumnURL,
		IndexColumnHTMLURL,
		IndexColumnCommentsURL,
		IndexColumnAuthor,
		IndexColumnCommitter,
		IndexColumnParents,
	}
}

// IndexEntry is one commit as listed by the hosting API and as stored
// in the repository index. Nested objects (commit, author, committer,
// parents) are kept as their JSON text so the API shape survives a
// round trip through the index unchanged.
type IndexEntry struct {
	SHA         string
	NodeID      string
	Commit      string
	URL         string
	HTMLURL     string
	CommentsURL string
	Author      string
	Committer   string
	Parents     string
}

// Ref returns the commit reference used to fetch the detail.
func (e IndexEntry) Ref() CommitRef {
	return CommitRef{SHA: e.SHA, URL: e.URL}
}

// Record returns the entry's values in IndexColumns order.
func (e IndexEntry) Record() []string {
	return []string{
		e.SHA,
		e.NodeID,
		e.Commit,
		e.URL,
		e.HTMLURL,
		e.CommentsURL,
		e.Author,
		e.Committer,
		e.Parents,
	}
}

// IndexEntryFromFields builds an entry from a column name to value map.
// Unknown columns are ignored; missing columns stay empty.
func IndexEntryFromFields(fields map[string]string) IndexEntry {
	return IndexEntry{
		SHA:         fields[IndexColumnSHA],
		NodeID:      fields[IndexColumnNodeID],
		Commit:      fields[IndexColumnCommit],
		URL:         fields[IndexColumnURL],
		HTMLURL:     fields[IndexColumnHTMLURL],
		CommentsURL: fields[IndexColumnCommentsURL],
		Author:      fields[IndexColumnAuthor],
		Committer:   fields[IndexColumnCommitter],
		Parents:     fields[IndexColumnParents],
	}
}

// NewEntries returns the entries of incoming whose SHA is neither in
// existing nor repeated earlier in incoming, preserving incoming order.
func NewEntries(existing, incoming []IndexEntry) []IndexEntry {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, e := range existing {
		seen[e.SHA] = struct{}{}
	}

	var fresh []IndexEntry
	for _, e := range incoming {
		if _, ok := seen[e.SHA]; ok {
			continue
		}
		seen[e.SHA] = struct{}{}
		fresh = append(fresh, e)
	}
	return fresh
}
