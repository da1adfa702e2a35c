package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"photowall/internal/config"
	"photowall/internal/ordering"
	"photowall/internal/session"
)

// pipelineFlags are the per-invocation overrides shared by scan and export.
type pipelineFlags struct {
	rows       int
	columns    int
	background string
	alignment  string
	maxWidth   int
	format     string
	quality    int
	threshold  int
	workers    int
	sortKey    string
	output     string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.rows, "rows", 0, "Rows per page")
	flags.IntVar(&f.columns, "columns", 0, "Columns per page")
	flags.StringVar(&f.background, "background", "", "Page background colour (#rrggbb or transparent)")
	flags.StringVar(&f.alignment, "alignment", "", "Item alignment within a row (start|center|end|stretch)")
	flags.IntVar(&f.maxWidth, "max-width", 0, "Page width in pixels")
	flags.StringVar(&f.format, "format", "", "Output format (png|jpg|gif|bmp|tiff)")
	flags.IntVar(&f.quality, "quality", 0, "Quality percentage for lossy formats")
	flags.IntVar(&f.threshold, "threshold", 0, "Page count above which pages are bundled into an archive")
	flags.IntVar(&f.workers, "workers", 0, "Pages rendered concurrently")
	flags.StringVar(&f.sortKey, "sort", "", "Sort key ("+strings.Join(sortKeyNames(), "|")+")")
	flags.StringVarP(&f.output, "output", "o", "", "Output directory")
}

// apply returns a copy of cfg with every explicitly set flag applied.
func (f *pipelineFlags) apply(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	out := *cfg
	changed := cmd.Flags().Changed
	if changed("rows") {
		out.Grid.Rows = f.rows
	}
	if changed("columns") {
		out.Grid.Columns = f.columns
	}
	if changed("background") {
		out.Grid.Background = strings.TrimSpace(f.background)
	}
	if changed("alignment") {
		out.Grid.Alignment = strings.ToLower(strings.TrimSpace(f.alignment))
	}
	if changed("max-width") {
		out.Grid.MaxWidth = f.maxWidth
	}
	if changed("format") {
		out.Export.Format = strings.ToLower(strings.TrimSpace(f.format))
	}
	if changed("quality") {
		out.Export.Quality = f.quality
	}
	if changed("threshold") {
		out.Export.Threshold = f.threshold
	}
	if changed("workers") {
		out.Export.Workers = f.workers
	}
	if changed("sort") {
		out.Sort.Key = strings.TrimSpace(f.sortKey)
	}
	if changed("output") {
		dir, err := config.ExpandPath(strings.TrimSpace(f.output))
		if err != nil {
			return nil, fmt.Errorf("resolve output directory: %w", err)
		}
		out.Paths.OutputDir = dir
	}
	return &out, nil
}

// snapshot applies the overrides and freezes the result for one command.
func (f *pipelineFlags) snapshot(cmd *cobra.Command, cfg *config.Config) (*config.Config, session.Options, error) {
	scoped, err := f.apply(cmd, cfg)
	if err != nil {
		return nil, session.Options{}, err
	}
	opts, err := session.OptionsFromConfig(scoped)
	if err != nil {
		return nil, session.Options{}, err
	}
	return scoped, opts, nil
}

func sortKeyNames() []string {
	keys := ordering.Keys()
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = string(key)
	}
	return names
}
