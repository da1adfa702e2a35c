// Package config loads, normalizes, and validates photowall configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PHOTOWALL_NTFY_TOPIC. The Config type centralizes every knob the CLI and the
// export pipeline need: grid shape and styling, output encoding, archive
// threshold, sort order, logging, and notifications.
//
// Always obtain settings through this package so downstream code receives
// typed snapshots (layout.Grid, render.Encoding) and clear validation errors
// that name the offending TOML key.
package config
