package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"photowall/internal/layout"
)

// Rasterizer turns a container description into encoded bytes.
type Rasterizer interface {
	Composite(ctx context.Context, container layout.Container, enc Encoding) ([]byte, error)
}

// CanvasRasterizer draws containers onto an in-memory NRGBA canvas.
type CanvasRasterizer struct {
	// Scaler resamples item images; nil selects Catmull-Rom.
	Scaler xdraw.Scaler
}

// Composite implements Rasterizer.
func (r CanvasRasterizer) Composite(ctx context.Context, container layout.Container, enc Encoding) ([]byte, error) {
	if container.Width <= 0 || container.Height <= 0 {
		return nil, fmt.Errorf("empty canvas %dx%d", container.Width, container.Height)
	}
	scaler := r.Scaler
	if scaler == nil {
		scaler = xdraw.CatmullRom
	}

	bounds := image.Rect(0, 0, container.Width, container.Height)
	canvas := image.NewNRGBA(bounds)
	draw.DrawMask(canvas, bounds, image.NewUniform(container.Background), image.Point{}, newRoundedMask(bounds, container.Radius), bounds.Min, draw.Src)

	for _, cell := range container.Cells {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cell.Item == nil || cell.Item.Image == nil || cell.Content.Empty() {
			continue
		}
		scaled := image.NewNRGBA(image.Rect(0, 0, cell.Content.Dx(), cell.Content.Dy()))
		scaler.Scale(scaled, scaled.Bounds(), cell.Item.Image, cell.Item.Image.Bounds(), draw.Src, nil)
		mask := newRoundedMask(scaled.Bounds(), container.ItemRadius)
		draw.DrawMask(canvas, cell.Content, scaled, image.Point{}, mask, image.Point{}, draw.Over)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return encode(canvas, enc)
}

func encode(img *image.NRGBA, enc Encoding) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch enc.Format {
	case FormatPNG:
		err = (&png.Encoder{CompressionLevel: png.DefaultCompression}).Encode(&buf, img)
	case FormatJPG:
		err = jpeg.Encode(&buf, flatten(img, color.White), &jpeg.Options{Quality: jpegQuality(enc.Quality)})
	case FormatGIF:
		err = gif.Encode(&buf, img, &gif.Options{NumColors: 256})
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	case FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		_, err = ParseFormat(string(enc.Format))
		if err == nil {
			err = fmt.Errorf("no encoder for %s", enc.Format)
		}
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flatten composites img over an opaque background for formats without alpha.
func flatten(img *image.NRGBA, bg color.Color) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}

func jpegQuality(q float64) int {
	v := int(q*100 + 0.5)
	return max(1, min(v, 100))
}
