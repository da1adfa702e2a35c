// Package archive accumulates named page artifacts and finalizes them into a
// single ZIP package using klauspost/compress deflate at a configurable level.
package archive
