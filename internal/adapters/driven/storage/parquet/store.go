// Package parquet persists one change table per commit as a parquet file.
//
// Artifacts live at {dataRoot}/{repository}/{sha}.parquet. Writes go to a
// temporary file in the same directory which is synced and renamed into
// place, so readers see either no artifact or a complete one.
package parquet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/apache/arrow/go/v12/parquet"
	"github.com/apache/arrow/go/v12/parquet/pqarrow"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driven"
)

// Extension is the artifact file extension.
const Extension = ".parquet"

// Ensure CommitStore implements the interface.
var _ driven.CommitStore = (*CommitStore)(nil)

// CommitStore writes change tables under a data root.
// It is safe for concurrent use on distinct commits.
type CommitStore struct {
	root string
	mem  memory.Allocator
}

// NewCommitStore creates a store rooted at dataRoot.
func NewCommitStore(dataRoot string) *CommitStore {
	return &CommitStore{
		root: dataRoot,
		mem:  memory.NewGoAllocator(),
	}
}

// Root returns the data root.
func (s *CommitStore) Root() string {
	return s.root
}

// Dir returns the directory holding a repository's artifacts.
func (s *CommitStore) Dir(repo string) string {
	return filepath.Join(s.root, repo)
}

// Path returns the artifact location of a commit.
func (s *CommitStore) Path(repo, sha string) string {
	return filepath.Join(s.root, repo, sha+Extension)
}

// Exists reports whether the artifact is present.
func (s *CommitStore) Exists(repo, sha string) bool {
	info, err := os.Stat(s.Path(repo, sha))
	return err == nil && info.Mode().IsRegular()
}

// Persist writes the table unless the artifact exists and overwrite is false.
func (s *CommitStore) Persist(repo, sha string, table domain.ChangeTable, overwrite bool) (string, error) {
	if repo == "" || sha == "" {
		return "", fmt.Errorf("%w: repository and sha are required", domain.ErrInvalidInput)
	}

	path := s.Path(repo, sha)
	if !overwrite && s.Exists(repo, sha) {
		return path, nil
	}

	data, err := s.encode(table)
	if err != nil {
		return "", fmt.Errorf("encoding change table %s: %w", sha, err)
	}

	if err := writeAtomic(path, data); err != nil {
		return "", fmt.Errorf("writing artifact %s: %w", path, err)
	}
	return path, nil
}

// Load reads an artifact back into a change table.
func (s *CommitStore) Load(repo, sha string) (domain.ChangeTable, error) {
	path := s.Path(repo, sha)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ChangeTable{}, fmt.Errorf("artifact %s: %w", path, domain.ErrNotFound)
		}
		return domain.ChangeTable{}, fmt.Errorf("reading artifact %s: %w", path, err)
	}

	table, err := s.decode(data)
	if err != nil {
		return domain.ChangeTable{}, fmt.Errorf("decoding artifact %s: %w", path, err)
	}
	return table, nil
}

// schema mirrors domain.ChangeTableColumns.
var schema = arrow.NewSchema([]arrow.Field{
	{Name: domain.ColumnSHA, Type: arrow.BinaryTypes.String},
	{Name: domain.ColumnFilename, Type: arrow.BinaryTypes.String},
	{Name: domain.ColumnStatus, Type: arrow.BinaryTypes.String},
	{Name: domain.ColumnAdditions, Type: arrow.PrimitiveTypes.Int64},
	{Name: domain.ColumnDeletions, Type: arrow.PrimitiveTypes.Int64},
	{Name: domain.ColumnChanges, Type: arrow.PrimitiveTypes.Int64},
	{Name: domain.ColumnBlobURL, Type: arrow.BinaryTypes.String},
	{Name: domain.ColumnRawURL, Type: arrow.BinaryTypes.String},
	{Name: domain.ColumnContentsURL, Type: arrow.BinaryTypes.String},
	{Name: domain.ColumnPatch, Type: arrow.BinaryTypes.String, Nullable: true},
}, nil)

func (s *CommitStore) encode(table domain.ChangeTable) ([]byte, error) {
	b := array.NewRecordBuilder(s.mem, schema)
	defer b.Release()

	for _, r := range table.Rows {
		b.Field(0).(*array.StringBuilder).Append(r.SHA)
		b.Field(1).(*array.StringBuilder).Append(r.Filename)
		b.Field(2).(*array.StringBuilder).Append(r.Status)
		b.Field(3).(*array.Int64Builder).Append(int64(r.Additions))
		b.Field(4).(*array.Int64Builder).Append(int64(r.Deletions))
		b.Field(5).(*array.Int64Builder).Append(int64(r.Changes))
		b.Field(6).(*array.StringBuilder).Append(r.BlobURL)
		b.Field(7).(*array.StringBuilder).Append(r.RawURL)
		b.Field(8).(*array.StringBuilder).Append(r.ContentsURL)
		if r.Patch == nil {
			b.Field(9).(*array.StringBuilder).AppendNull()
		} else {
			b.Field(9).(*array.StringBuilder).Append(*r.Patch)
		}
	}

	rec := b.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer
	w, err := pqarrow.NewFileWriter(schema, &buf, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return nil, err
	}
	// An empty table still gets the full schema in the file footer.
	if rec.NumRows() > 0 {
		if err := w.Write(rec); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *CommitStore) decode(data []byte) (domain.ChangeTable, error) {
	tbl, err := pqarrow.ReadTable(context.Background(), bytes.NewReader(data),
		parquet.NewReaderProperties(s.mem), pqarrow.ArrowReadProperties{}, s.mem)
	if err != nil {
		return domain.ChangeTable{}, err
	}
	defer tbl.Release()

	cols := make(map[string]int, tbl.NumCols())
	for i, f := range tbl.Schema().Fields() {
		cols[f.Name] = i
	}
	for _, name := range domain.ChangeTableColumns() {
		if _, ok := cols[name]; !ok {
			return domain.ChangeTable{}, fmt.Errorf("missing column %q", name)
		}
	}

	rows := make([]domain.FileChange, tbl.NumRows())
	for _, name := range domain.ChangeTableColumns() {
		offset := 0
		for _, chunk := range tbl.Column(cols[name]).Data().Chunks() {
			if err := fill(rows[offset:], name, chunk); err != nil {
				return domain.ChangeTable{}, err
			}
			offset += chunk.Len()
		}
	}

	return domain.ChangeTable{Rows: rows}, nil
}

// fill copies one column chunk into rows.
func fill(rows []domain.FileChange, column string, chunk arrow.Array) error {
	switch col := chunk.(type) {
	case *array.String:
		for i := 0; i < col.Len(); i++ {
			setString(&rows[i], column, col, i)
		}
	case *array.Int64:
		for i := 0; i < col.Len(); i++ {
			setInt(&rows[i], column, int(col.Value(i)))
		}
	default:
		return fmt.Errorf("column %q has unexpected type %s", column, chunk.DataType())
	}
	return nil
}

func setString(row *domain.FileChange, column string, col *array.String, i int) {
	if col.IsNull(i) {
		return
	}
	v := col.Value(i)
	switch column {
	case domain.ColumnSHA:
		row.SHA = v
	case domain.ColumnFilename:
		row.Filename = v
	case domain.ColumnStatus:
		row.Status = v
	case domain.ColumnBlobURL:
		row.BlobURL = v
	case domain.ColumnRawURL:
		row.RawURL = v
	case domain.ColumnContentsURL:
		row.ContentsURL = v
	case domain.ColumnPatch:
		row.Patch = &v
	}
}

func setInt(row *domain.FileChange, column string, v int) {
	switch column {
	case domain.ColumnAdditions:
		row.Additions = v
	case domain.ColumnDeletions:
		row.Deletions = v
	case domain.ColumnChanges:
		row.Changes = v
	}
}

// writeAtomic writes data to a temporary sibling of path, syncs it and
// renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
