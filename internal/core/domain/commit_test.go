package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeTableColumns_Order(t *testing.T) {
	assert.Equal(t, []string{
		"sha", "filename", "status", "additions", "deletions",
		"changes", "blob_url", "raw_url", "contents_url", "patch",
	}, ChangeTableColumns())
}

func TestChangeTable_EmptyKeepsSchema(t *testing.T) {
	var table ChangeTable

	assert.Equal(t, 0, table.Len())
	assert.Len(t, table.Columns(), 10)
}

func TestUnknownRateLimit(t *testing.T) {
	state := UnknownRateLimit()

	assert.Equal(t, -1, state.Limit)
	assert.Equal(t, -1, state.Remaining)
	assert.False(t, state.Known())

	state.Remaining = 0
	assert.True(t, state.Known())
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		pageSize int
		expected int
	}{
		{name: "zero count", count: 0, pageSize: 100, expected: 0},
		{name: "negative count", count: -5, pageSize: 100, expected: 0},
		{name: "exactly one page", count: 100, pageSize: 100, expected: 1},
		{name: "partial second page", count: 150, pageSize: 100, expected: 2},
		{name: "single item", count: 1, pageSize: 100, expected: 1},
		{name: "max count", count: 4000, pageSize: 100, expected: 40},
		{name: "default page size", count: 201, pageSize: 0, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PageCount(tt.count, tt.pageSize))
		})
	}
}
