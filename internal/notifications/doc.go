// Package notifications sends optional ntfy push messages when an export
// finishes or fails. Without a configured topic every call is a no-op.
package notifications
