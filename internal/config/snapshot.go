package config

import "time"

// RenderTimeout returns the per-page render deadline; zero disables it.
func (c *Config) RenderTimeout() time.Duration {
	if c.Export.RenderTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Export.RenderTimeoutSeconds) * time.Second
}

// NotifyTimeout returns the ntfy HTTP request timeout.
func (c *Config) NotifyTimeout() time.Duration {
	if c.Notifications.RequestTimeout <= 0 {
		return defaultNotifyRequestTimeout * time.Second
	}
	return time.Duration(c.Notifications.RequestTimeout) * time.Second
}

// Quality returns the lossy encoding quality in [0,1].
func (c *Config) Quality() float64 {
	return float64(c.Export.Quality) / 100
}
