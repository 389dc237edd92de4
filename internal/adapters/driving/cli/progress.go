package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

const progressWidth = 40

// progressView prints download progress. On a terminal it redraws a single
// bar in place; otherwise it prints a line whenever the counters change.
type progressView struct {
	w    io.Writer
	bar  progress.Model
	tty  bool
	last string
}

func newProgressView(w io.Writer) *progressView {
	return &progressView{
		w:   w,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
		tty: isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (v *progressView) render(p domain.DownloadProgress) {
	line := describeProgress(p)
	if v.tty {
		_, _ = fmt.Fprintf(v.w, "\r%s %s", v.bar.ViewAs(p.Fraction()), line)
		return
	}
	if line == v.last {
		return
	}
	v.last = line
	_, _ = fmt.Fprintln(v.w, line)
}

func (v *progressView) finish() {
	if v.tty {
		_, _ = fmt.Fprintln(v.w)
	}
}

func describeProgress(p domain.DownloadProgress) string {
	switch p.Stage {
	case domain.StageProbing:
		return "Checking repository..."
	case domain.StageListing:
		return "Listing commits..."
	case domain.StageIndexing:
		return fmt.Sprintf("%d/%d commits, updating index...", p.Done, p.Listed)
	case domain.StageDone:
		return fmt.Sprintf("%d/%d commits", p.Done, p.Listed)
	default:
		if p.Failed > 0 {
			return fmt.Sprintf("%d/%d commits (%d failed)", p.Done, p.Listed, p.Failed)
		}
		return fmt.Sprintf("%d/%d commits", p.Done, p.Listed)
	}
}
