// Package changeset maps a commit's raw file list to a change table.
package changeset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.ChangeSetParser = (*Normaliser)(nil)

// Normaliser maps raw file records verbatim. It holds no state.
type Normaliser struct{}

// New creates a new change set normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// ToChangeTable maps each raw file to one row, preserving input order.
func (n *Normaliser) ToChangeTable(files []domain.RawFile) domain.ChangeTable {
	rows := make([]domain.FileChange, 0, len(files))
	for _, f := range files {
		rows = append(rows, toFileChange(f))
	}
	return domain.ChangeTable{Rows: rows}
}

func toFileChange(f domain.RawFile) domain.FileChange {
	change := domain.FileChange{
		SHA:         stringField(f, domain.ColumnSHA),
		Filename:    stringField(f, domain.ColumnFilename),
		Status:      stringField(f, domain.ColumnStatus),
		Additions:   intField(f, domain.ColumnAdditions),
		Deletions:   intField(f, domain.ColumnDeletions),
		Changes:     intField(f, domain.ColumnChanges),
		BlobURL:     stringField(f, domain.ColumnBlobURL),
		RawURL:      stringField(f, domain.ColumnRawURL),
		ContentsURL: stringField(f, domain.ColumnContentsURL),
	}

	if v, ok := f[domain.ColumnPatch]; ok && v != nil {
		patch := toString(v)
		change.Patch = &patch
	}

	return change
}

func stringField(f domain.RawFile, key string) string {
	v, ok := f[key]
	if !ok || v == nil {
		return ""
	}
	return toString(v)
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

// intField accepts the numeric shapes a JSON decoder may produce.
// Anything else reads as zero.
func intField(f domain.RawFile, key string) int {
	switch v := f[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		if fl, err := v.Float64(); err == nil {
			return int(fl)
		}
		return 0
	case string:
		i, _ := strconv.Atoi(v)
		return i
	default:
		return 0
	}
}
