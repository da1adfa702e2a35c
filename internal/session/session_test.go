package session

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"photowall/internal/config"
	"photowall/internal/export"
	"photowall/internal/layout"
	"photowall/internal/ordering"
	"photowall/internal/photo"
	"photowall/internal/render"
	"photowall/internal/services"
	"photowall/internal/sink"
	"photowall/internal/testsupport"
)

func newSession(t *testing.T, opts ...testsupport.ConfigOption) *Session {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Grid.MaxWidth = 120
	cfg.Grid.PaddingX, cfg.Grid.PaddingY = 4, 4
	snapshot, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	s, err := New(snapshot, Dependencies{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func itemNames(items []*photo.Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFormat("jpeg"))
	cfg.Grid.Background = "#000"
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	if opts.Encoding.Format != render.FormatJPG || opts.Encoding.Quality != 0.8 {
		t.Fatalf("encoding = %+v", opts.Encoding)
	}
	if opts.Grid.Background.A != 0xff || opts.Grid.Background.R != 0 {
		t.Fatalf("background = %+v", opts.Grid.Background)
	}
	if opts.SortKey != ordering.NameAsc || opts.Threshold != 10 || opts.CompressionLevel != 9 {
		t.Fatalf("unexpected snapshot %+v", opts)
	}
}

func TestOptionsFromConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"sort key", func(c *config.Config) { c.Sort.Key = "colorAsc" }},
		{"background", func(c *config.Config) { c.Grid.Background = "blue" }},
		{"format", func(c *config.Config) { c.Export.Format = "avif" }},
		{"rows", func(c *config.Config) { c.Grid.Rows = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t)
			tt.mutate(cfg)
			if _, err := OptionsFromConfig(cfg); !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("err = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestImportSortsAndResorts(t *testing.T) {
	s := newSession(t)
	result, err := s.Import(context.Background(), testsupport.Records(t, "img10.png", "img2.png", "img1.png"), nil, nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(result.Items) != 3 {
		t.Fatalf("imported %d items", len(result.Items))
	}
	if got := itemNames(s.Items()); !slices.Equal(got, []string{"img1.png", "img2.png", "img10.png"}) {
		t.Fatalf("order = %v", got)
	}

	if err := s.Sort(ordering.DateDesc); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if got := itemNames(s.Items()); !slices.Equal(got, []string{"img1.png", "img2.png", "img10.png"}) {
		t.Fatalf("date order = %v", got)
	}
	if err := s.Sort(ordering.DateAsc); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if got := itemNames(s.Items()); !slices.Equal(got, []string{"img10.png", "img2.png", "img1.png"}) {
		t.Fatalf("date order = %v", got)
	}
	if err := s.Sort("bogus"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if s.SortKey() != ordering.DateAsc {
		t.Fatalf("failed sort changed key to %s", s.SortKey())
	}
}

func TestImportReplacesItems(t *testing.T) {
	s := newSession(t)
	if _, err := s.Import(context.Background(), testsupport.Records(t, "a.png", "b.png"), nil, nil); err != nil {
		t.Fatalf("Import: %v", err)
	}
	records := append(testsupport.Records(t, "c.png"), photo.Record{Name: "notes.txt", Type: "text/plain"})
	if _, err := s.Import(context.Background(), records, nil, nil); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := itemNames(s.Items()); !slices.Equal(got, []string{"c.png"}) {
		t.Fatalf("items = %v", got)
	}
	if len(s.Skipped()) != 1 {
		t.Fatalf("skipped = %v", s.Skipped())
	}
}

func TestPlanPreviewAndExport(t *testing.T) {
	s := newSession(t, testsupport.WithGrid(2, 2), testsupport.WithThreshold(1))
	names := []string{"1.png", "2.png", "3.png", "4.png", "5.png", "6.png", "7.png"}
	if _, err := s.Import(context.Background(), testsupport.Records(t, names...), nil, nil); err != nil {
		t.Fatalf("Import: %v", err)
	}
	pages, err := s.Plan()
	if err != nil || len(pages) != 2 {
		t.Fatalf("Plan = %d pages, %v", len(pages), err)
	}
	if !s.WillArchive() {
		t.Fatal("expected archive mode for 2 pages over threshold 1")
	}
	preview, err := s.Preview(2)
	if err != nil || len(preview.Cells) != 3 {
		t.Fatalf("Preview(2) = %d cells, %v", len(preview.Cells), err)
	}
	if _, err := s.Preview(3); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("Preview(3) err = %v", err)
	}

	mem := sink.NewMemorySink()
	result, err := s.Export(context.Background(), mem, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Mode != export.ModeArchive || result.State != export.StateSuccess || len(mem.Names()) != 1 {
		t.Fatalf("mode=%s state=%s saved=%v", result.Mode, result.State, mem.Names())
	}
}

type blockingRasterizer struct {
	started chan struct{}
}

func (b blockingRasterizer) Composite(ctx context.Context, _ layout.Container, _ render.Encoding) ([]byte, error) {
	select {
	case b.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestImportCancelsRunningExport(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithGrid(1, 1))
	cfg.Grid.MaxWidth = 120
	cfg.Grid.PaddingX, cfg.Grid.PaddingY = 4, 4
	snapshot, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	raster := blockingRasterizer{started: make(chan struct{}, 1)}
	s, err := New(snapshot, Dependencies{Rasterizer: raster})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Import(context.Background(), testsupport.Records(t, "a.png", "b.png"), nil, nil); err != nil {
		t.Fatalf("Import: %v", err)
	}

	type exported struct {
		result export.Result
		err    error
	}
	done := make(chan exported, 1)
	go func() {
		result, err := s.Export(context.Background(), sink.NewMemorySink(), nil)
		done <- exported{result: result, err: err}
	}()

	select {
	case <-raster.started:
	case <-time.After(2 * time.Second):
		t.Fatal("export never reached the rasterizer")
	}

	if _, err := s.Import(context.Background(), testsupport.Records(t, "c.png"), nil, nil); err != nil {
		t.Fatalf("second Import: %v", err)
	}

	var got exported
	select {
	case got = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("export still running after a new import")
	}
	if !errors.Is(got.err, context.Canceled) {
		t.Fatalf("export err = %v, want context.Canceled", got.err)
	}
	if got.result.State != export.StateFailure {
		t.Fatalf("export state = %s, want %s", got.result.State, export.StateFailure)
	}
	if _, active := s.coordinator.Active(); active {
		t.Fatal("coordinator still reports an active export")
	}
	if names := itemNames(s.Items()); !slices.Equal(names, []string{"c.png"}) {
		t.Fatalf("items = %v", names)
	}
}
