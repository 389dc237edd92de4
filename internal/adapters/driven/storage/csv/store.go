// Package csv maintains the per-repository commit index as a CSV file.
//
// The index lives at {dataRoot}/{repository}/index.csv, UTF-8 with a byte
// order mark and a header row. It is append-only: a merge adds unseen
// commits after the existing rows and never rewrites them.
package csv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driven"
)

// FileName is the index file name inside a repository directory.
const FileName = "index.csv"

// bom is the UTF-8 byte order mark written at the start of new indexes.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore reads and merges repository indexes under a data root.
type IndexStore struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewIndexStore creates a store rooted at dataRoot.
func NewIndexStore(dataRoot string) *IndexStore {
	return &IndexStore{
		root:  dataRoot,
		locks: make(map[string]*sync.Mutex),
	}
}

// Path returns the index file location.
func (s *IndexStore) Path(repo string) string {
	return filepath.Join(s.root, repo, FileName)
}

// Load returns the stored entries in file order.
func (s *IndexStore) Load(repo string) ([]domain.IndexEntry, error) {
	lock := s.lock(repo)
	lock.Lock()
	defer lock.Unlock()

	_, entries, _, err := s.read(repo)
	return entries, err
}

// Merge appends unseen entries and returns the index path.
func (s *IndexStore) Merge(repo string, entries []domain.IndexEntry) (string, error) {
	if repo == "" {
		return "", fmt.Errorf("%w: repository is required", domain.ErrInvalidInput)
	}

	lock := s.lock(repo)
	lock.Lock()
	defer lock.Unlock()

	path := s.Path(repo)

	raw, existing, header, err := s.read(repo)
	if err != nil {
		return "", err
	}

	fresh := domain.NewEntries(existing, entries)
	if len(fresh) == 0 && raw != nil {
		return path, nil
	}

	var buf bytes.Buffer
	if raw == nil {
		header = domain.IndexColumns()
		buf.Write(bom)
	} else {
		buf.Write(raw)
		if len(raw) > 0 && raw[len(raw)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}

	w := csv.NewWriter(&buf)
	if raw == nil {
		if err := w.Write(header); err != nil {
			return "", fmt.Errorf("encoding index header: %w", err)
		}
	}
	for _, e := range fresh {
		if err := w.Write(recordFor(header, e)); err != nil {
			return "", fmt.Errorf("encoding index row %s: %w", e.SHA, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("encoding index: %w", err)
	}

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("writing index %s: %w", path, err)
	}
	return path, nil
}

// lock returns the mutex guarding one repository's index.
func (s *IndexStore) lock(repo string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[repo]
	if !ok {
		l = &sync.Mutex{}
		s.locks[repo] = l
	}
	return l
}

// read returns the raw file bytes, the decoded entries and the header.
// raw is nil when no index exists yet.
func (s *IndexStore) read(repo string) ([]byte, []domain.IndexEntry, []string, error) {
	path := s.Path(repo)

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, []domain.IndexEntry{}, nil, nil
		}
		return nil, nil, nil, fmt.Errorf("reading index %s: %w", path, err)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, bom)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parsing index %s: %w", path, err)
	}

	if len(records) == 0 {
		// An empty file has no header; start over as if it were missing.
		return nil, []domain.IndexEntry{}, nil, nil
	}

	header := records[0]
	entries := make([]domain.IndexEntry, 0, len(records)-1)
	for _, rec := range records[1:] {
		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				fields[col] = rec[i]
			}
		}
		entries = append(entries, domain.IndexEntryFromFields(fields))
	}

	return raw, entries, header, nil
}

// recordFor lays out an entry in the order of an existing header.
// Columns the entry does not know are left empty.
func recordFor(header []string, e domain.IndexEntry) []string {
	record := e.Record()
	values := make(map[string]string, len(record))
	for i, col := range domain.IndexColumns() {
		values[col] = record[i]
	}

	rec := make([]string, len(header))
	for i, col := range header {
		rec[i] = values[col]
	}
	return rec
}

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

	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
