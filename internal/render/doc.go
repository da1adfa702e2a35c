// Package render composes one page of items into an encoded raster artifact.
//
// Renderer owns the staging slots and per-page deadline and delegates pixel
// work to a Rasterizer. CanvasRasterizer is the reference implementation built
// on image/draw with high quality scaling from golang.org/x/image/draw.
package render
