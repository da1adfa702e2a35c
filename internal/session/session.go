package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"photowall/internal/archive"
	"photowall/internal/export"
	"photowall/internal/layout"
	"photowall/internal/logging"
	"photowall/internal/ordering"
	"photowall/internal/photo"
	"photowall/internal/render"
	"photowall/internal/services"
	"photowall/internal/sink"
)

// Session holds the items of the current import.
type Session struct {
	opts        Options
	collator    *ordering.Collator
	coordinator *export.Coordinator
	logger      *slog.Logger

	mu      sync.Mutex
	key     ordering.SortKey
	items   []*photo.Item
	skipped []photo.Skipped
}

// Dependencies overrides collaborators; zero values select the defaults.
type Dependencies struct {
	Rasterizer render.Rasterizer
	Logger     *slog.Logger
}

// New builds an empty session from a validated snapshot.
func New(opts Options, deps Dependencies) (*Session, error) {
	collator, err := ordering.NewCollator(opts.Collation)
	if err != nil {
		return nil, err
	}
	if _, err := archive.NewBuilder(archive.Options{Level: opts.CompressionLevel, MaxBytes: opts.MaxArchiveBytes}); err != nil {
		return nil, err
	}
	renderer := render.NewRenderer(deps.Rasterizer, render.Options{
		Workers: opts.Workers,
		Timeout: opts.RenderTimeout,
		Logger:  deps.Logger,
	})
	coordinator := export.NewCoordinator(export.Options{
		Renderer: renderer,
		NewArchive: func() (export.ArchiveBuilder, error) {
			return archive.NewBuilder(archive.Options{Level: opts.CompressionLevel, MaxBytes: opts.MaxArchiveBytes})
		},
		Workers: opts.Workers,
		Logger:  deps.Logger,
	})
	return &Session{
		opts:        opts,
		collator:    collator,
		coordinator: coordinator,
		logger:      logging.NewComponentLogger(deps.Logger, "session"),
		key:         opts.SortKey,
	}, nil
}

// Options returns the session snapshot.
func (s *Session) Options() Options {
	return s.opts
}

// Import replaces the session's items. Any export in flight is cancelled
// first. Items are decoded, then ordered with the current sort key.
func (s *Session) Import(ctx context.Context, records []photo.Record, decoder photo.Decoder, progress photo.ProgressFunc) (photo.ImportResult, error) {
	s.coordinator.Cancel()

	result, err := photo.Import(ctx, records, decoder, progress)
	if err != nil {
		return result, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sorted, err := ordering.Sort(result.Items, s.key, s.collator)
	if err != nil {
		return result, err
	}
	s.items = sorted
	s.skipped = slices.Clone(result.Skipped)

	attrs := []logging.Attr{
		logging.Int("item_count", len(sorted)),
		logging.Int("skipped", len(result.Skipped)),
		logging.String("sort_key", string(s.key)),
	}
	if len(result.Skipped) > 0 {
		logging.WarnWithContext(s.logger, "import skipped records", "decode",
			append(attrs, logging.String(logging.FieldImpact, "skipped records are not part of the photo wall"))...)
	} else {
		s.logger.Info("import complete", logging.Args(attrs...)...)
	}
	return result, nil
}

// Sort reorders the imported items without decoding them again.
func (s *Session) Sort(key ordering.SortKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted, err := ordering.Sort(s.items, key, s.collator)
	if err != nil {
		return err
	}
	s.items = sorted
	s.key = key
	return nil
}

// SortKey returns the current sort key.
func (s *Session) SortKey() ordering.SortKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// Items returns the ordered items.
func (s *Session) Items() []*photo.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Skipped returns the records the last import could not use.
func (s *Session) Skipped() []photo.Skipped {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.skipped)
}

// Plan pages the ordered items with the session grid.
func (s *Session) Plan() ([]layout.Page, error) {
	return layout.Plan(s.Items(), s.opts.Grid.Rows, s.opts.Grid.Columns)
}

// Preview returns the container geometry of one 1-based page, the same value
// the renderer composites.
func (s *Session) Preview(page int) (layout.Container, error) {
	pages, err := s.Plan()
	if err != nil {
		return layout.Container{}, err
	}
	if page < 1 || page > len(pages) {
		return layout.Container{}, services.Wrap(services.ErrConfiguration, "session", "preview", fmt.Sprintf("page %d out of range 1-%d", page, len(pages)), nil)
	}
	return layout.Arrange(pages[page-1], s.opts.Grid)
}

// WillArchive reports whether exporting the current items would produce an
// archive.
func (s *Session) WillArchive() bool {
	return layout.PageCount(len(s.Items()), s.opts.Grid.Capacity()) > s.opts.Threshold
}

// Export runs an export of the current items into dst.
func (s *Session) Export(ctx context.Context, dst sink.Sink, progress export.ProgressFunc) (export.Result, error) {
	return s.coordinator.Export(ctx, export.Request{
		Items:     s.Items(),
		Grid:      s.opts.Grid,
		Encoding:  s.opts.Encoding,
		Threshold: s.opts.Threshold,
		Sink:      dst,
	}, progress)
}
