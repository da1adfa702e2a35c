package render

import (
	"fmt"
	"strings"

	"photowall/internal/services"
)

// Format is an output raster format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatPNG, FormatJPG, FormatGIF, FormatBMP, FormatTIFF}
}

// ParseFormat validates a format name. "jpeg" and "tif" are accepted aliases.
func ParseFormat(value string) (Format, error) {
	v := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(value)), ".")
	switch v {
	case "jpeg":
		return FormatJPG, nil
	case "tif":
		return FormatTIFF, nil
	}
	for _, f := range Formats() {
		if string(f) == v {
			return f, nil
		}
	}
	return "", services.Wrap(services.ErrConfiguration, "render", "parse format", fmt.Sprintf("unsupported export.format %q", value), nil)
}

// Extension returns the file extension without a leading dot.
func (f Format) Extension() string {
	return string(f)
}

// Lossy reports whether Quality applies to the format.
func (f Format) Lossy() bool {
	return f == FormatJPG
}

// Encoding is the immutable output encoding snapshot.
type Encoding struct {
	Format  Format
	Quality float64
}

// Validate checks the format and the [0,1] quality range.
func (e Encoding) Validate() error {
	if _, err := ParseFormat(string(e.Format)); err != nil {
		return err
	}
	if e.Quality < 0 || e.Quality > 1 {
		return services.Wrap(services.ErrConfiguration, "render", "validate encoding", fmt.Sprintf("quality %.2f outside [0,1]", e.Quality), nil)
	}
	return nil
}
