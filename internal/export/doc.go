// Package export coordinates a batch export: it plans pages, drives the page
// renderer, routes artifacts to the sink or an archive builder depending on the
// page threshold, and reports progress per phase.
//
// One Coordinator runs at most one export at a time. Page failures are
// recorded and the batch continues; configuration errors abort before work
// starts and archive failures abort the session.
package export
