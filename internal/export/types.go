package export

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"photowall/internal/layout"
	"photowall/internal/photo"
	"photowall/internal/render"
	"photowall/internal/sink"
)

// ErrExportInProgress is returned when an export is requested while another
// one is still running on the same coordinator.
var ErrExportInProgress = errors.New("export already in progress")

// Mode is fixed for the lifetime of one export session.
type Mode string

const (
	ModeIndividual Mode = "individual"
	ModeArchive    Mode = "archive"
)

// State is the terminal outcome of a session.
type State string

const (
	StateRunning        State = "running"
	StateSuccess        State = "success"
	StatePartialFailure State = "partial_failure"
	StateFailure        State = "failure"
)

// Phase separates render progress from archive progress.
type Phase string

const (
	PhaseRender  Phase = "render"
	PhaseArchive Phase = "archive"
	PhaseDone    Phase = "done"
)

// Progress is one progress notification. Completed/Total count attempted
// pages; Percent is on a 0-100 scale of the current phase.
type Progress struct {
	SessionID string
	Phase     Phase
	Completed int
	Total     int
	Percent   float64
	Message   string
}

// ProgressFunc receives progress notifications on the exporting goroutine.
type ProgressFunc func(Progress)

// PageRenderer renders one page into an encoded artifact.
type PageRenderer interface {
	Render(ctx context.Context, page layout.Page, grid layout.Grid, enc render.Encoding) ([]byte, error)
}

// ArchiveBuilder accumulates artifacts and produces one package.
type ArchiveBuilder interface {
	AddEntry(name string, data []byte) error
	Finalize(ctx context.Context, onProgress func(percent float64)) ([]byte, error)
}

// ArchiveFactory creates a fresh builder for each archived session.
type ArchiveFactory func() (ArchiveBuilder, error)

// Request is the immutable input of one export.
type Request struct {
	Items     []*photo.Item
	Grid      layout.Grid
	Encoding  render.Encoding
	Threshold int
	Sink      sink.Sink
}

// Session is the observable state of an export.
type Session struct {
	ID         string
	Mode       Mode
	TotalPages int
	Completed  int
	Failed     []int
	Artifacts  []string
	Phase      Phase
	State      State
	StartedAt  time.Time
}

// PageFailure records why a page produced no artifact.
type PageFailure struct {
	Page int
	Err  error
}

// Result is the final session state.
type Result struct {
	Session
	PageErrors   []PageFailure
	ArchiveName  string
	ArchiveBytes int64
	Err          error
	FinishedAt   time.Time
}

// Summary is the user-facing completion text.
func (r Result) Summary() string {
	switch r.State {
	case StateSuccess:
		if r.Mode == ModeArchive && r.ArchiveName != "" {
			return fmt.Sprintf("Export complete: %d %s in %s", r.TotalPages, pagesWord(r.TotalPages), r.ArchiveName)
		}
		return fmt.Sprintf("Export complete: %d %s", r.TotalPages, pagesWord(r.TotalPages))
	case StatePartialFailure:
		return fmt.Sprintf("Export complete with %d failed page(s): %s", len(r.Failed), joinPages(r.Failed))
	case StateFailure:
		if r.Err != nil {
			return "Export failed: " + r.Err.Error()
		}
		return "Export failed"
	default:
		return "Export in progress"
	}
}

// Duration returns how long the session ran.
func (r Result) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ArtifactName returns the file name for a 1-based page number.
func ArtifactName(page int, format render.Format) string {
	return fmt.Sprintf("%03d.%s", page, format.Extension())
}

// ArchiveName returns the package name for a session started at ts.
func ArchiveName(ts time.Time) string {
	return "Screenshots_" + ts.Format(photo.DateLayout) + ".zip"
}

func pagesWord(n int) string {
	if n == 1 {
		return "page"
	}
	return "pages"
}

func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}
