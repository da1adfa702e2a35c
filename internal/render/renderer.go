package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"photowall/internal/layout"
	"photowall/internal/logging"
	"photowall/internal/services"
)

// PageError reports a failed page. It matches services.ErrRender and the
// underlying cause with errors.Is.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() []error {
	return []error{services.ErrRender, e.Err}
}

// Options tunes the renderer.
type Options struct {
	// Workers is the number of staging slots; values below 1 mean 1.
	Workers int
	// Timeout bounds one page composite; zero disables the deadline.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Renderer drives one page at a time through a Rasterizer.
type Renderer struct {
	rasterizer Rasterizer
	staging    chan struct{}
	timeout    time.Duration
	logger     *slog.Logger
}

// NewRenderer constructs a renderer. A nil rasterizer selects CanvasRasterizer.
func NewRenderer(rasterizer Rasterizer, opts Options) *Renderer {
	if rasterizer == nil {
		rasterizer = CanvasRasterizer{}
	}
	workers := max(opts.Workers, 1)
	return &Renderer{
		rasterizer: rasterizer,
		staging:    make(chan struct{}, workers),
		timeout:    opts.Timeout,
		logger:     logging.NewComponentLogger(opts.Logger, "render"),
	}
}

// Slots returns the number of staging slots.
func (r *Renderer) Slots() int {
	return cap(r.staging)
}

// Render composes page into an encoded artifact. The deadline covers the
// wait for a staging slot as well as the composite. A slot stays taken until
// its rasterizer returns, even after the deadline has failed the page.
func (r *Renderer) Render(ctx context.Context, page layout.Page, grid layout.Grid, enc Encoding) ([]byte, error) {
	ctx = services.WithPage(ctx, page.Number)
	logger := logging.WithContext(ctx, r.logger)

	container, err := layout.Arrange(page, grid)
	if err != nil {
		return nil, &PageError{Page: page.Number, Err: err}
	}

	var (
		renderCtx context.Context
		cancel    context.CancelFunc
	)
	if r.timeout > 0 {
		renderCtx, cancel = context.WithTimeout(ctx, r.timeout)
	} else {
		renderCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	select {
	case r.staging <- struct{}{}:
	case <-renderCtx.Done():
		if ctx.Err() != nil {
			return nil, &PageError{Page: page.Number, Err: ctx.Err()}
		}
		return nil, r.timeoutError(page.Number)
	}

	type outcome struct {
		data []byte
		err  error
	}
	done := make(chan outcome, 1)
	started := time.Now()
	go func() {
		defer func() { <-r.staging }()
		data, err := r.rasterizer.Composite(renderCtx, container, enc)
		done <- outcome{data: data, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if errors.Is(renderCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, r.timeoutError(page.Number)
			}
			return nil, &PageError{Page: page.Number, Err: out.err}
		}
		if len(out.data) == 0 {
			return nil, &PageError{Page: page.Number, Err: errors.New("rasterizer produced no data")}
		}
		logger.Debug("page composited",
			logging.Int("cells", len(container.Cells)),
			logging.Int("width", container.Width),
			logging.Int("height", container.Height),
			logging.Int64("artifact_bytes", int64(len(out.data))),
			logging.Duration("render_duration", time.Since(started)),
		)
		return out.data, nil
	case <-renderCtx.Done():
		if ctx.Err() != nil {
			return nil, &PageError{Page: page.Number, Err: ctx.Err()}
		}
		return nil, r.timeoutError(page.Number)
	}
}

func (r *Renderer) timeoutError(page int) error {
	return &PageError{
		Page: page,
		Err:  services.Wrap(services.ErrTimeout, "render", "composite", fmt.Sprintf("exceeded %s", r.timeout), nil),
	}
}
