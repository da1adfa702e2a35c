package layout

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"photowall/internal/services"
)

// Alignment controls vertical placement of an item within its row.
type Alignment string

const (
	AlignStart   Alignment = "start"
	AlignCenter  Alignment = "center"
	AlignEnd     Alignment = "end"
	AlignStretch Alignment = "stretch"
)

// ParseAlignment validates an alignment name.
func ParseAlignment(value string) (Alignment, error) {
	switch a := Alignment(strings.ToLower(strings.TrimSpace(value))); a {
	case AlignStart, AlignCenter, AlignEnd, AlignStretch:
		return a, nil
	case "":
		return AlignCenter, nil
	default:
		return "", configError("grid.alignment must be start, center, end or stretch, got %q", value)
	}
}

// Grid is the immutable grid configuration snapshot. All lengths are pixels.
type Grid struct {
	Rows        int
	Columns     int
	RowGap      int
	ColumnGap   int
	PaddingX    int
	PaddingY    int
	ItemPadding int
	Background  color.NRGBA
	PageRadius  int
	ItemRadius  int
	MaxWidth    int
	Alignment   Alignment
}

// Capacity returns the number of items per page, or 0 when the grid cannot
// hold a page.
func (g Grid) Capacity() int {
	if g.Rows <= 0 || g.Columns <= 0 || g.Rows > math.MaxInt/g.Columns {
		return 0
	}
	return g.Rows * g.Columns
}

// InnerWidth returns the width available to columns after padding and gaps.
func (g Grid) InnerWidth() int {
	return g.MaxWidth - 2*g.PaddingX - (g.Columns-1)*g.ColumnGap
}

// Validate reports the first invalid field.
func (g Grid) Validate() error {
	switch {
	case g.Rows < 1:
		return configError("grid.rows must be positive")
	case g.Columns < 1:
		return configError("grid.columns must be positive")
	case g.Rows > math.MaxInt/g.Columns:
		return configError("grid.rows %d by grid.columns %d overflows the page capacity", g.Rows, g.Columns)
	case g.RowGap < 0, g.ColumnGap < 0:
		return configError("grid gaps must be non-negative")
	case g.PaddingX < 0, g.PaddingY < 0, g.ItemPadding < 0:
		return configError("grid padding must be non-negative")
	case g.PageRadius < 0, g.ItemRadius < 0:
		return configError("grid radii must be non-negative")
	case g.MaxWidth < 1:
		return configError("grid.max_width must be positive")
	}
	if _, err := ParseAlignment(string(g.Alignment)); err != nil {
		return err
	}
	if g.InnerWidth()/g.Columns <= 2*g.ItemPadding {
		return configError("grid.max_width %d leaves no room for %d columns", g.MaxWidth, g.Columns)
	}
	return nil
}

// ParseColor parses #rgb, #rrggbb, #rrggbbaa or "transparent".
func ParseColor(value string) (color.NRGBA, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "transparent" {
		return color.NRGBA{}, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, configError("grid.background must be a hex colour, got %q", value)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, configError("grid.background must be a hex colour, got %q", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, configError("grid.background must be a hex colour, got %q", value)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func configError(format string, args ...any) error {
	return services.Wrap(services.ErrConfiguration, "layout", "", fmt.Sprintf(format, args...), nil)
}
