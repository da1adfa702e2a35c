package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"photowall/internal/services"
)

// Validate ensures the configuration is usable. Every failure wraps
// services.ErrConfiguration.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateGrid,
		c.validateExport,
		c.validateSort,
		c.validateLogging,
		c.validateNotifications,
	} {
		if err := check(); err != nil {
			if errors.Is(err, services.ErrConfiguration) {
				return err
			}
			return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
		}
	}
	return nil
}

func (c *Config) validateGrid() error {
	if err := ensurePositive(map[string]int{
		"grid.rows":      c.Grid.Rows,
		"grid.columns":   c.Grid.Columns,
		"grid.max_width": c.Grid.MaxWidth,
	}); err != nil {
		return err
	}
	if c.Grid.Rows > math.MaxInt/c.Grid.Columns {
		return fmt.Errorf("grid.rows %d by grid.columns %d overflows the page capacity", c.Grid.Rows, c.Grid.Columns)
	}
	if err := ensureNonNegative(map[string]int{
		"grid.row_gap":      c.Grid.RowGap,
		"grid.column_gap":   c.Grid.ColumnGap,
		"grid.padding_x":    c.Grid.PaddingX,
		"grid.padding_y":    c.Grid.PaddingY,
		"grid.item_padding": c.Grid.ItemPadding,
		"grid.page_radius":  c.Grid.PageRadius,
		"grid.item_radius":  c.Grid.ItemRadius,
	}); err != nil {
		return err
	}
	if c.Grid.Background == "" {
		return errors.New("grid.background must be set")
	}
	inner := c.Grid.MaxWidth - 2*c.Grid.PaddingX - (c.Grid.Columns-1)*c.Grid.ColumnGap
	if inner < c.Grid.Columns {
		return fmt.Errorf("grid.max_width %d leaves no room for %d columns", c.Grid.MaxWidth, c.Grid.Columns)
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.Format == "" {
		return errors.New("export.format must be set")
	}
	if c.Export.Quality < 1 || c.Export.Quality > 100 {
		return errors.New("export.quality must be between 1 and 100")
	}
	if c.Export.Threshold < 0 {
		return errors.New("export.threshold must be >= 0")
	}
	if c.Export.CompressionLevel < 0 || c.Export.CompressionLevel > 9 {
		return errors.New("export.compression_level must be between 0 and 9")
	}
	if c.Export.Workers < 1 {
		return errors.New("export.workers must be positive")
	}
	if c.Export.RenderTimeoutSeconds < 0 {
		return errors.New("export.render_timeout_seconds must be >= 0")
	}
	if c.Export.MaxArchiveBytes < 0 {
		return errors.New("export.max_archive_bytes must be >= 0")
	}
	return nil
}

func (c *Config) validateSort() error {
	if c.Sort.Key == "" {
		return errors.New("sort.key must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	topic := c.Notifications.NtfyTopic
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return errors.New("notifications.ntfy_topic must be a full http(s) URL")
	}
	return nil
}

func ensurePositive(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

func ensureNonNegative(values map[string]int) error {
	for key, value := range values {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	return nil
}
