package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

const messageWidth = 60

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// sortBySHA returns a copy of entries ordered by sha ascending.
func sortBySHA(entries []domain.IndexEntry) []domain.IndexEntry {
	sorted := make([]domain.IndexEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SHA < sorted[j].SHA })
	return sorted
}

// commitSummary is the part of the nested commit object shown in listings.
type commitSummary struct {
	Message string `json:"message"`
	Author  struct {
		Name string `json:"name"`
		Date string `json:"date"`
	} `json:"author"`
}

func summarise(e domain.IndexEntry) commitSummary {
	var s commitSummary
	if e.Commit != "" {
		_ = json.Unmarshal([]byte(e.Commit), &s)
	}
	return s
}

func renderIndex(w io.Writer, entries []domain.IndexEntry) {
	table := newTable(w, []string{"SHA", "Date", "Author", "Message"})
	for _, e := range sortBySHA(entries) {
		s := summarise(e)
		table.Append([]string{e.SHA, s.Author.Date, s.Author.Name, firstLine(s.Message, messageWidth)})
	}
	table.Render()
}

func renderChangeTable(w io.Writer, table domain.ChangeTable) {
	out := newTable(w, []string{"Filename", "Status", "+", "-", "Changes"})
	for _, row := range table.Rows {
		out.Append([]string{
			row.Filename,
			row.Status,
			strconv.Itoa(row.Additions),
			strconv.Itoa(row.Deletions),
			strconv.Itoa(row.Changes),
		})
	}
	out.Render()
}

func renderRuns(w io.Writer, runs []*domain.RunResult) {
	table := newTable(w, []string{"ID", "Repository", "Started", "Target", "Listed", "Saved", "Skipped", "Failed", "Took"})
	for _, run := range runs {
		table.Append([]string{
			shortID(run.ID),
			run.Owner + "/" + run.Name,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(run.Target),
			strconv.Itoa(run.Listed),
			strconv.Itoa(run.Persisted),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(len(run.Failures)),
			run.Duration().Round(time.Millisecond).String(),
		})
	}
	table.Render()
}

func renderFailures(w io.Writer, failures []domain.ItemFailure) {
	table := newTable(w, []string{"SHA", "Reason"})
	for _, f := range failures {
		table.Append([]string{f.SHA, f.Reason})
	}
	table.Render()
}

func firstLine(s string, width int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatRateLimit(s domain.RateLimitState) string {
	if !s.Known() {
		return "unknown"
	}
	text := fmt.Sprintf("%d/%d remaining", s.Remaining, s.Limit)
	if !s.ResetAt.IsZero() {
		text += ", resets at " + s.ResetAt.Local().Format("15:04:05")
	}
	return text
}
