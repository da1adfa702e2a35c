// Package photo turns raw image records into immutable Items.
//
// Import decodes each record once, derives the metadata every sort key and
// layout needs (dimensions, aspect ratio, resolution), and reports records it
// had to skip instead of failing the whole batch. LoadRecords expands glob
// patterns (including ** segments) into records read from disk.
package photo
