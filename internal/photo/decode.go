package photo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoded is the result of decoding one record.
type Decoded struct {
	Image  image.Image
	Width  int
	Height int
	Format string
}

// Decoder turns encoded bytes into an image.
type Decoder interface {
	Decode(ctx context.Context, data []byte) (Decoded, error)
}

// ImageDecoder decodes png, jpeg, gif, webp, bmp and tiff data.
type ImageDecoder struct{}

// Decode implements Decoder.
func (ImageDecoder) Decode(ctx context.Context, data []byte) (Decoded, error) {
	if err := ctx.Err(); err != nil {
		return Decoded{}, err
	}
	if len(data) == 0 {
		return Decoded{}, fmt.Errorf("empty image data")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Decoded{}, err
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return Decoded{}, fmt.Errorf("image has no pixels (%dx%d)", bounds.Dx(), bounds.Dy())
	}
	return Decoded{Image: img, Width: bounds.Dx(), Height: bounds.Dy(), Format: format}, nil
}
