// Package layout partitions ordered items into pages and computes the pixel
// geometry of one page.
//
// Plan and PageCount are pure functions over counts; Arrange turns a page and
// a Grid into a Container that both the preview output and the rasterizer
// consume, so what the user inspects is exactly what gets exported.
package layout
