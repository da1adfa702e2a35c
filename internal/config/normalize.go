package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGrid()
	c.normalizeExport()
	c.normalizeSort()
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeGrid() {
	c.Grid.Background = strings.TrimSpace(c.Grid.Background)
	if c.Grid.Background == "" {
		c.Grid.Background = defaultBackground
	}
	c.Grid.Alignment = strings.ToLower(strings.TrimSpace(c.Grid.Alignment))
	if c.Grid.Alignment == "" {
		c.Grid.Alignment = defaultAlignment
	}
}

func (c *Config) normalizeExport() {
	c.Export.Format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Export.Format), "."))
	if c.Export.Format == "" {
		c.Export.Format = defaultFormat
	}
	if c.Export.Workers == 0 {
		c.Export.Workers = defaultWorkers
	}
}

func (c *Config) normalizeSort() {
	c.Sort.Key = strings.TrimSpace(c.Sort.Key)
	if c.Sort.Key == "" {
		c.Sort.Key = defaultSortKey
	}
	c.Sort.Locale = strings.TrimSpace(c.Sort.Locale)
	if c.Sort.Locale == "" {
		c.Sort.Locale = defaultSortLocale
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if value, ok := os.LookupEnv("PHOTOWALL_NTFY_TOPIC"); ok && strings.TrimSpace(value) != "" {
		c.Notifications.NtfyTopic = strings.TrimSpace(value)
	}
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}
