package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func entry(sha string) IndexEntry {
	return IndexEntry{SHA: sha, URL: "https://api.github.com/repos/o/r/commits/" + sha}
}

func TestIndexEntry_RecordMatchesColumns(t *testing.T) {
	e := IndexEntry{
		SHA:         "abc",
		NodeID:      "node",
		Commit:      `{"message":"m"}`,
		URL:         "u",
		HTMLURL:     "h",
		CommentsURL: "c",
		Author:      `{"login":"a"}`,
		Committer:   "null",
		Parents:     "[]",
	}

	record := e.Record()
	assert.Len(t, record, len(IndexColumns()))

	fields := make(map[string]string)
	for i, col := range IndexColumns() {
		fields[col] = record[i]
	}
	assert.Equal(t, e, IndexEntryFromFields(fields))
}

func TestIndexEntry_Ref(t *testing.T) {
	ref := entry("c1").Ref()

	assert.Equal(t, "c1", ref.SHA)
	assert.Equal(t, "https://api.github.com/repos/o/r/commits/c1", ref.URL)
}

func TestNewEntries(t *testing.T) {
	t.Run("skips existing shas", func(t *testing.T) {
		fresh := NewEntries(
			[]IndexEntry{entry("A"), entry("B")},
			[]IndexEntry{entry("B"), entry("C")},
		)
		assert.Equal(t, []IndexEntry{entry("C")}, fresh)
	})

	t.Run("dedupes within incoming", func(t *testing.T) {
		fresh := NewEntries(nil, []IndexEntry{entry("A"), entry("B"), entry("A")})
		assert.Equal(t, []IndexEntry{entry("A"), entry("B")}, fresh)
	})

	t.Run("nothing new", func(t *testing.T) {
		fresh := NewEntries([]IndexEntry{entry("A")}, []IndexEntry{entry("A")})
		assert.Empty(t, fresh)
	})
}
