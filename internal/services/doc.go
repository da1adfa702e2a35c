// Package services defines shared utilities consumed by the import, render and
// export components.
//
// Key responsibilities:
//   - Context helpers that stamp export session IDs, page numbers, and phase
//     names for logging.
//   - Structured error markers plus the Wrap helper that keep failures
//     classifiable (configuration vs decode vs render vs archive vs download)
//     after they have been annotated with context.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform across the export pipeline.
package services
