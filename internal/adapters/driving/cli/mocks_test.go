package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driving"
)

// mockDownloader implements driving.Downloader for command tests.
type mockDownloader struct {
	existing  map[string]bool
	existsErr error
	entries   []domain.IndexEntry
	result    *domain.RunResult
	runErr    error
	table     domain.ChangeTable
	showErr   error

	requests []domain.DownloadRequest
	lookups  []string
}

var _ driving.Downloader = (*mockDownloader)(nil)

func (m *mockDownloader) Run(_ context.Context, req domain.DownloadRequest) (*domain.RunResult, error) {
	m.requests = append(m.requests, req)
	if m.runErr != nil {
		return nil, m.runErr
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.RunResult{Owner: req.Owner, Name: req.Name, Listed: req.Count, Persisted: req.Count}, nil
}

func (m *mockDownloader) Exists(_ context.Context, owner, name string) (bool, error) {
	m.lookups = append(m.lookups, owner+"/"+name)
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.existing[owner+"/"+name], nil
}

func (m *mockDownloader) Status(owner, name string) (*driving.DownloadStatus, error) {
	return &driving.DownloadStatus{DownloadProgress: domain.DownloadProgress{Owner: owner, Name: name}}, nil
}

func (m *mockDownloader) Index(_ string) ([]domain.IndexEntry, error) {
	return m.entries, nil
}

func (m *mockDownloader) Directory(name string) string {
	return "/data/" + name
}

func (m *mockDownloader) Show(_, _ string) (domain.ChangeTable, error) {
	if m.showErr != nil {
		return domain.ChangeTable{}, m.showErr
	}
	return m.table, nil
}

// mockHistory implements driving.HistoryService.
type mockHistory struct {
	runs      []*domain.RunResult
	lastLimit int
}

func (m *mockHistory) List(_ context.Context, limit int) ([]*domain.RunResult, error) {
	m.lastLimit = limit
	return m.runs, nil
}

func (m *mockHistory) Get(_ context.Context, id string) (*domain.RunResult, error) {
	for _, r := range m.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// scriptedPrompter answers prompts from a fixed list.
type scriptedPrompter struct {
	answers []string
	asked   []string
}

func (p *scriptedPrompter) Input(message string) (string, error) {
	p.asked = append(p.asked, message)
	if len(p.answers) == 0 {
		return "", ErrAborted
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

// withServices installs mocks for the duration of a test.
func withServices(t *testing.T, d driving.Downloader, h driving.HistoryService, s driving.SettingsService, answers ...string) *scriptedPrompter {
	t.Helper()
	origDownloader, origHistory, origSettings, origPrompter := downloader, historyService, settingsService, prompter

	SetConfig(&Config{Downloader: d, HistoryService: h, SettingsService: s})
	p := &scriptedPrompter{answers: answers}
	prompter = p

	t.Cleanup(func() {
		downloader, historyService, settingsService, prompter = origDownloader, origHistory, origSettings, origPrompter
	})
	return p
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func indexEntry(sha, message string) domain.IndexEntry {
	return domain.IndexEntry{
		SHA:    sha,
		Commit: `{"message":"` + message + `","author":{"name":"Octo Cat","date":"2024-01-02T03:04:05Z"}}`,
	}
}
