package session

import (
	"time"

	"photowall/internal/config"
	"photowall/internal/layout"
	"photowall/internal/ordering"
	"photowall/internal/render"
)

// Options is the immutable snapshot every pipeline stage reads.
type Options struct {
	Grid             layout.Grid
	Encoding         render.Encoding
	Threshold        int
	CompressionLevel int
	MaxArchiveBytes  int64
	Workers          int
	RenderTimeout    time.Duration
	SortKey          ordering.SortKey
	Collation        ordering.Options
}

// OptionsFromConfig validates cfg and converts it into a snapshot. Errors
// match services.ErrConfiguration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	background, err := layout.ParseColor(cfg.Grid.Background)
	if err != nil {
		return Options{}, err
	}
	alignment, err := layout.ParseAlignment(cfg.Grid.Alignment)
	if err != nil {
		return Options{}, err
	}
	format, err := render.ParseFormat(cfg.Export.Format)
	if err != nil {
		return Options{}, err
	}
	key, err := ordering.ParseSortKey(cfg.Sort.Key)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Grid: layout.Grid{
			Rows:        cfg.Grid.Rows,
			Columns:     cfg.Grid.Columns,
			RowGap:      cfg.Grid.RowGap,
			ColumnGap:   cfg.Grid.ColumnGap,
			PaddingX:    cfg.Grid.PaddingX,
			PaddingY:    cfg.Grid.PaddingY,
			ItemPadding: cfg.Grid.ItemPadding,
			Background:  background,
			PageRadius:  cfg.Grid.PageRadius,
			ItemRadius:  cfg.Grid.ItemRadius,
			MaxWidth:    cfg.Grid.MaxWidth,
			Alignment:   alignment,
		},
		Encoding:         render.Encoding{Format: format, Quality: cfg.Quality()},
		Threshold:        cfg.Export.Threshold,
		CompressionLevel: cfg.Export.CompressionLevel,
		MaxArchiveBytes:  cfg.Export.MaxArchiveBytes,
		Workers:          cfg.Export.Workers,
		RenderTimeout:    cfg.RenderTimeout(),
		SortKey:          key,
		Collation:        ordering.Options{Locale: cfg.Sort.Locale, IgnoreCase: cfg.Sort.IgnoreCase},
	}
	if err := opts.Grid.Validate(); err != nil {
		return Options{}, err
	}
	if err := opts.Encoding.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
