package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"photowall/internal/archive"
	"photowall/internal/layout"
	"photowall/internal/logging"
	"photowall/internal/render"
	"photowall/internal/services"
	"photowall/internal/sink"
)

// Options wires a Coordinator's collaborators.
type Options struct {
	Renderer   PageRenderer
	NewArchive ArchiveFactory
	// Workers bounds concurrent page renders; commits stay in page order.
	Workers int
	Now     func() time.Time
	Logger  *slog.Logger
}

type activeSession struct {
	session Session
	cancel  context.CancelFunc
	done    chan struct{}
}

// Coordinator runs export sessions one at a time.
type Coordinator struct {
	renderer   PageRenderer
	newArchive ArchiveFactory
	workers    int
	now        func() time.Time
	logger     *slog.Logger
	sampler    *logging.ProgressSampler

	mu     sync.Mutex
	active *activeSession
}

// NewCoordinator constructs a coordinator. Missing collaborators fall back to
// a default renderer and a maximum-compression archive builder.
func NewCoordinator(opts Options) *Coordinator {
	c := &Coordinator{
		renderer:   opts.Renderer,
		newArchive: opts.NewArchive,
		workers:    max(opts.Workers, 1),
		now:        opts.Now,
		logger:     logging.NewComponentLogger(opts.Logger, "export"),
		sampler:    logging.NewProgressSampler(0),
	}
	if c.renderer == nil {
		c.renderer = render.NewRenderer(nil, render.Options{Workers: c.workers, Logger: opts.Logger})
	}
	if c.newArchive == nil {
		c.newArchive = func() (ArchiveBuilder, error) {
			return archive.NewBuilder(archive.Options{Level: archive.DefaultLevel})
		}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Active returns a snapshot of the running session, if any.
func (c *Coordinator) Active() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return Session{}, false
	}
	return c.active.session.clone(), true
}

// Cancel aborts the running session and waits for it to unwind. It is a no-op
// when nothing is running.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()
	if active == nil {
		return
	}
	active.cancel()
	<-active.done
}

// Validate checks a request without starting a session.
func (r Request) Validate() error {
	if err := r.Grid.Validate(); err != nil {
		return err
	}
	if err := r.Encoding.Validate(); err != nil {
		return err
	}
	if r.Threshold < 0 {
		return services.Wrap(services.ErrConfiguration, "export", "validate", "export.threshold must be non-negative", nil)
	}
	if len(r.Items) == 0 {
		return services.Wrap(services.ErrConfiguration, "export", "validate", "no items to export", nil)
	}
	if r.Sink == nil {
		return services.Wrap(services.ErrConfiguration, "export", "validate", "no download sink", nil)
	}
	return nil
}

// Export runs one session to completion. Success and partial failure return a
// nil error; a failed session returns its Result together with the cause.
func (c *Coordinator) Export(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	pages, err := layout.Plan(req.Items, req.Grid.Rows, req.Grid.Columns)
	if err != nil {
		return Result{}, err
	}

	mode := ModeIndividual
	if len(pages) > req.Threshold {
		mode = ModeArchive
	}

	c.mu.Lock()
	if c.active != nil {
		c.mu.Unlock()
		return Result{}, ErrExportInProgress
	}
	sessionCtx, cancel := context.WithCancel(ctx)
	active := &activeSession{
		session: Session{
			ID:         uuid.NewString(),
			Mode:       mode,
			TotalPages: len(pages),
			Phase:      PhaseRender,
			State:      StateRunning,
			StartedAt:  c.now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	c.active = active
	c.sampler.Reset()
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		c.active = nil
		c.mu.Unlock()
		close(active.done)
	}()

	run := &run{
		c:        c,
		active:   active,
		req:      req,
		pages:    pages,
		progress: progress,
		sampler:  c.sampler,
	}
	sessionCtx = services.WithSessionID(sessionCtx, active.session.ID)
	run.logger = logging.WithContext(sessionCtx, c.logger)
	return run.execute(sessionCtx)
}

type run struct {
	c        *Coordinator
	active   *activeSession
	req      Request
	pages    []layout.Page
	progress ProgressFunc
	sampler  *logging.ProgressSampler
	logger   *slog.Logger

	pageErrors   []PageFailure
	archiveName  string
	archiveBytes int64
}

func (r *run) execute(ctx context.Context) (Result, error) {
	total := len(r.pages)
	mode := r.active.session.Mode
	r.logger.Info("export started",
		logging.Int("item_count", len(r.req.Items)),
		logging.Int(logging.FieldPageCount, total),
		logging.String("mode", string(mode)),
		logging.String("format", string(r.req.Encoding.Format)),
	)

	if locker, ok := r.req.Sink.(sink.Locker); ok {
		if err := locker.Lock(); err != nil {
			return r.finish(err)
		}
		defer func() {
			if err := locker.Unlock(); err != nil {
				logging.WarnWithContext(r.logger, "output lock release failed", "download",
					logging.Error(err),
					logging.String(logging.FieldImpact, "a stale lock file may remain in the output directory"),
				)
			}
		}()
	}

	var builder ArchiveBuilder
	if mode == ModeArchive {
		var err error
		if builder, err = r.c.newArchive(); err != nil {
			return r.finish(services.Wrap(services.ErrArchive, "export", "new archive", "", err))
		}
	}

	if err := r.renderPages(ctx, builder); err != nil {
		return r.finish(err)
	}
	if err := ctx.Err(); err != nil {
		return r.finish(err)
	}
	if len(r.pageErrors) == total {
		errs := make([]error, 0, total)
		for _, pf := range r.pageErrors {
			errs = append(errs, pf.Err)
		}
		return r.finish(fmt.Errorf("all %d pages failed: %w", total, errors.Join(errs...)))
	}

	if builder != nil {
		if err := r.finalizeArchive(ctx, builder); err != nil {
			return r.finish(err)
		}
	}
	return r.finish(nil)
}

type outcome struct {
	data []byte
	err  error
}

// renderPages renders with up to c.workers pages in flight and commits
// artifacts strictly in page order. It returns only fatal errors.
func (r *run) renderPages(ctx context.Context, builder ArchiveBuilder) error {
	results := make([]chan outcome, len(r.pages))
	for i := range results {
		results[i] = make(chan outcome, 1)
	}

	renderCtx, stopRenders := context.WithCancel(ctx)
	defer stopRenders()

	group, groupCtx := errgroup.WithContext(renderCtx)
	group.SetLimit(r.c.workers)
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, page := range r.pages {
			if groupCtx.Err() != nil {
				results[i] <- outcome{err: groupCtx.Err()}
				continue
			}
			group.Go(func() error {
				pageCtx := services.WithPhase(services.WithPage(groupCtx, page.Number), string(PhaseRender))
				data, err := r.c.renderer.Render(pageCtx, page, r.req.Grid, r.req.Encoding)
				results[i] <- outcome{data: data, err: err}
				return nil
			})
		}
		_ = group.Wait()
	}()
	defer func() {
		stopRenders()
		<-launched
	}()

	for i, page := range r.pages {
		var out outcome
		select {
		case out = <-results[i]:
		case <-ctx.Done():
			return ctx.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := r.commit(ctx, page, out, builder); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) commit(ctx context.Context, page layout.Page, out outcome, builder ArchiveBuilder) error {
	name := ArtifactName(page.Number, r.req.Encoding.Format)
	pageErr := out.err
	if pageErr == nil {
		if builder != nil {
			if err := builder.AddEntry(name, out.data); err != nil {
				return services.Wrap(services.ErrArchive, "export", "add entry", name, err)
			}
		} else if err := r.req.Sink.Save(ctx, name, out.data); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			pageErr = err
			if !errors.Is(err, services.ErrDownload) {
				pageErr = services.Wrap(services.ErrDownload, "export", "save", name, err)
			}
		}
	}

	r.c.mu.Lock()
	s := &r.active.session
	s.Completed++
	if pageErr != nil {
		s.Failed = append(s.Failed, page.Number)
	} else {
		s.Artifacts = append(s.Artifacts, name)
	}
	completed, total := s.Completed, s.TotalPages
	r.c.mu.Unlock()

	if pageErr != nil {
		r.pageErrors = append(r.pageErrors, PageFailure{Page: page.Number, Err: pageErr})
		logging.WarnWithContext(r.logger.With(logging.Int(logging.FieldPage, page.Number)), "page export failed",
			services.Kind(pageErr),
			logging.Error(pageErr),
			logging.String(logging.FieldImpact, fmt.Sprintf("page %d will be missing from the export", page.Number)),
			logging.String(logging.FieldErrorHint, "check the source images on this page"),
		)
	}
	r.emit(Progress{
		Phase:     PhaseRender,
		Completed: completed,
		Total:     total,
		Percent:   float64(completed) * 100 / float64(total),
	})
	return nil
}

func (r *run) finalizeArchive(ctx context.Context, builder ArchiveBuilder) error {
	r.setPhase(PhaseArchive)
	r.emit(Progress{Phase: PhaseArchive, Percent: 0})

	last := 0.0
	data, err := builder.Finalize(services.WithPhase(ctx, string(PhaseArchive)), func(percent float64) {
		if percent <= last {
			return
		}
		last = percent
		r.emit(Progress{Phase: PhaseArchive, Percent: min(percent, 100)})
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, services.ErrArchive) {
			return err
		}
		return services.Wrap(services.ErrArchive, "export", "finalize", "", err)
	}

	name := ArchiveName(r.active.session.StartedAt)
	if err := r.req.Sink.Save(ctx, name, data); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, services.ErrDownload) {
			return err
		}
		return services.Wrap(services.ErrDownload, "export", "save archive", name, err)
	}

	r.c.mu.Lock()
	r.active.session.Artifacts = append(r.active.session.Artifacts, name)
	r.c.mu.Unlock()
	r.archiveName = name
	r.archiveBytes = int64(len(data))
	r.logger.Info("archive saved",
		logging.String("archive", name),
		logging.Int64("archive_bytes", r.archiveBytes),
	)
	return nil
}

func (r *run) finish(fatal error) (Result, error) {
	r.c.mu.Lock()
	s := &r.active.session
	switch {
	case fatal != nil:
		s.State = StateFailure
	case len(s.Failed) > 0:
		s.State = StatePartialFailure
	default:
		s.State = StateSuccess
	}
	s.Phase = PhaseDone
	session := s.clone()
	r.c.mu.Unlock()

	result := Result{
		Session:      session,
		PageErrors:   slices.Clone(r.pageErrors),
		ArchiveName:  r.archiveName,
		ArchiveBytes: r.archiveBytes,
		Err:          fatal,
		FinishedAt:   r.c.now(),
	}
	r.emit(Progress{
		Phase:     PhaseDone,
		Completed: session.Completed,
		Total:     session.TotalPages,
		Percent:   100,
		Message:   result.Summary(),
	})

	attrs := []logging.Attr{
		logging.String("state", string(result.State)),
		logging.Int(logging.FieldPageCount, result.TotalPages),
		logging.Pages("failed_pages", result.Failed),
		logging.Duration("export_duration", result.Duration()),
	}
	switch result.State {
	case StateFailure:
		logging.ErrorWithContext(r.logger, "export failed", services.Kind(fatal),
			append(attrs, logging.Error(fatal))...)
		return result, fatal
	case StatePartialFailure:
		logging.WarnWithContext(r.logger, "export finished with failed pages", "render",
			append(attrs, logging.String(logging.FieldImpact, result.Summary()))...)
	default:
		r.logger.Info("export finished", logging.Args(attrs...)...)
	}
	return result, nil
}

func (r *run) setPhase(phase Phase) {
	r.c.mu.Lock()
	r.active.session.Phase = phase
	r.c.mu.Unlock()
}

func (r *run) emit(p Progress) {
	p.SessionID = r.active.session.ID
	if r.sampler.Sample(string(p.Phase), p.Percent) {
		r.logger.Debug("export progress",
			logging.String(logging.FieldPhase, string(p.Phase)),
			logging.Float64(logging.FieldProgressPercent, p.Percent),
		)
	}
	if r.progress != nil {
		r.progress(p)
	}
}

func (s Session) clone() Session {
	s.Failed = slices.Clone(s.Failed)
	s.Artifacts = slices.Clone(s.Artifacts)
	return s
}
