package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/git-analyzer/internal/logger"
)

// detailPageSize is sent with every detail request. A single commit is
// not paginated, but nested file lists honour it.
const detailPageSize = 100

// Ensure CommitSource implements the interface.
var _ driven.CommitSource = (*CommitSource)(nil)

// CommitSource reads commits of GitHub repositories.
type CommitSource struct {
	client *Client
}

// NewCommitSource creates a commit source over client.
func NewCommitSource(client *Client) *CommitSource {
	return &CommitSource{client: client}
}

// RepositoryExists probes GET /repos/{owner}/{name}.
func (s *CommitSource) RepositoryExists(ctx context.Context, owner, name string) (bool, error) {
	if err := s.client.rateLimiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("rate limit wait: %w", err)
	}

	_, _, err := s.client.gh.Repositories.Get(ctx, owner, name)
	if err == nil {
		return true, nil
	}

	err = s.client.wrapError(err, "get repository")
	switch {
	case IsNotFound(err):
		return false, nil
	case IsUnauthorized(err):
		return false, fmt.Errorf("token rejected: %w", err)
	default:
		s.noteRateLimit(err)
		return false, err
	}
}

// ListPage fetches one page of GET /repos/{owner}/{name}/commits.
// Nested objects keep their JSON text so the index matches the API shape.
// An empty repository answers 409 and yields an empty page.
func (s *CommitSource) ListPage(ctx context.Context, owner, name string, page, pageSize int) ([]domain.IndexEntry, error) {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(pageSize))
	path := fmt.Sprintf("repos/%s/%s/commits?%s", url.PathEscape(owner), url.PathEscape(name), q.Encode())

	body, err := s.get(ctx, path, "list commits")
	if err != nil {
		if isEmptyRepository(err) {
			logger.Debug("github: %s/%s has no commits (page %d)", owner, name, page)
			return []domain.IndexEntry{}, nil
		}
		return nil, err
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("list commits page %d: %w: %w", page, ErrMalformedPayload, err)
	}

	entries := make([]domain.IndexEntry, 0, len(items))
	for _, item := range items {
		entry := domain.IndexEntry{
			SHA:         jsonText(item["sha"]),
			NodeID:      jsonText(item["node_id"]),
			Commit:      jsonText(item["commit"]),
			URL:         jsonText(item["url"]),
			HTMLURL:     jsonText(item["html_url"]),
			CommentsURL: jsonText(item["comments_url"]),
			Author:      jsonText(item["author"]),
			Committer:   jsonText(item["committer"]),
			Parents:     jsonText(item["parents"]),
		}
		if entry.SHA == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// FetchDetail fetches GET {commitURL}?per_page=100.
func (s *CommitSource) FetchDetail(ctx context.Context, commitURL string) (*domain.CommitDetail, error) {
	u, err := url.Parse(commitURL)
	if err != nil {
		return nil, fmt.Errorf("parse commit url: %w: %w: %w", domain.ErrNotFound, ErrMalformedPayload, err)
	}
	q := u.Query()
	q.Set("per_page", strconv.Itoa(detailPageSize))
	u.RawQuery = q.Encode()

	body, err := s.get(ctx, u.String(), "get commit")
	if err != nil {
		return nil, err
	}

	return decodeDetail(body)
}

// RateLimit returns the counters seen on the most recent response.
func (s *CommitSource) RateLimit() domain.RateLimitState {
	return s.client.rateLimiter.State()
}

// get issues one GET and returns the raw body.
func (s *CommitSource) get(ctx context.Context, urlStr, operation string) ([]byte, error) {
	if err := s.client.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := s.client.gh.NewRequest(http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	var buf bytes.Buffer
	if _, err := s.client.gh.Do(ctx, req, &buf); err != nil {
		err = s.client.wrapError(err, operation)
		s.noteRateLimit(err)
		return nil, err
	}
	return buf.Bytes(), nil
}

// noteRateLimit logs when the quota is exhausted and when it refills.
func (s *CommitSource) noteRateLimit(err error) {
	if !IsRateLimited(err) {
		return
	}
	reset := s.client.rateLimiter.State().ResetAt
	if reset.IsZero() {
		logger.Warn("github: rate limit exhausted")
		return
	}
	logger.Warn("github: rate limit exhausted, resets at %s", reset.Local().Format(time.Kitchen))
}

// detailExtras holds the fields go-github's RepositoryCommit does not
// expose in raw form.
type detailExtras struct {
	Files  []domain.RawFile `json:"files"`
	Commit struct {
		Tree struct {
			URL string `json:"url"`
		} `json:"tree"`
	} `json:"commit"`
}

func decodeDetail(body []byte) (*domain.CommitDetail, error) {
	var commit gh.RepositoryCommit
	if err := json.Unmarshal(body, &commit); err != nil {
		return nil, fmt.Errorf("decode commit: %w: %w: %w", domain.ErrNotFound, ErrMalformedPayload, err)
	}

	var extras detailExtras
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&extras); err != nil {
		return nil, fmt.Errorf("decode commit files: %w: %w: %w", domain.ErrNotFound, ErrMalformedPayload, err)
	}

	if commit.GetSHA() == "" {
		return nil, fmt.Errorf("decode commit: %w: %w: missing sha", domain.ErrNotFound, ErrMalformedPayload)
	}
	if extras.Files == nil {
		return nil, fmt.Errorf("decode commit %s: %w: %w: missing files", commit.GetSHA(), domain.ErrNotFound, ErrMalformedPayload)
	}

	inner := commit.GetCommit()
	committer := inner.GetCommitter()
	stats := commit.GetStats()

	detail := &domain.CommitDetail{
		SHA:    commit.GetSHA(),
		NodeID: commit.GetNodeID(),
		Committer: domain.Signature{
			Name:  committer.GetName(),
			Email: committer.GetEmail(),
			Date:  committer.GetDate().Time,
		},
		Message: inner.GetMessage(),
		Tree: domain.TreeRef{
			SHA: inner.GetTree().GetSHA(),
			URL: extras.Commit.Tree.URL,
		},
		Stats: domain.CommitStats{
			Additions: stats.GetAdditions(),
			Deletions: stats.GetDeletions(),
			Total:     stats.GetTotal(),
		},
		Files: extras.Files,
	}

	for _, p := range commit.Parents {
		detail.Parents = append(detail.Parents, domain.ParentRef{
			SHA:     p.GetSHA(),
			URL:     p.GetURL(),
			HTMLURL: p.GetHTMLURL(),
		})
	}

	return detail, nil
}

// jsonText returns a JSON string value unquoted and any other value as
// compact JSON text. Missing and null values become empty.
func jsonText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
