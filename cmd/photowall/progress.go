package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressReporter draws a terminal progress bar. It is silent when the
// writer is not a terminal so piped output stays clean.
type progressReporter struct {
	bar *progressbar.ProgressBar
}

func newProgressReporter(w io.Writer, total int, description string) *progressReporter {
	if total <= 0 || !shouldColorize(w) {
		return &progressReporter{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &progressReporter{bar: bar}
}

func (p *progressReporter) set(done int) {
	if p.bar == nil {
		return
	}
	_ = p.bar.Set(done)
}

func (p *progressReporter) describe(description string) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(description)
}

func (p *progressReporter) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}
