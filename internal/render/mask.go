package render

import (
	"image"
	"image/color"
)

// roundedMask is an alpha mask that is opaque inside rect except outside the
// quarter circles of radius r at each corner.
type roundedMask struct {
	rect image.Rectangle
	r    int
}

func newRoundedMask(rect image.Rectangle, radius int) image.Image {
	limit := min(rect.Dx(), rect.Dy()) / 2
	return &roundedMask{rect: rect, r: max(0, min(radius, limit))}
}

func (m *roundedMask) ColorModel() color.Model { return color.AlphaModel }

func (m *roundedMask) Bounds() image.Rectangle { return m.rect }

func (m *roundedMask) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(m.rect) {
		return color.Transparent
	}
	if m.r == 0 {
		return color.Opaque
	}
	cx, cy := -1, -1
	switch {
	case x < m.rect.Min.X+m.r:
		cx = m.rect.Min.X + m.r
	case x >= m.rect.Max.X-m.r:
		cx = m.rect.Max.X - m.r - 1
	}
	switch {
	case y < m.rect.Min.Y+m.r:
		cy = m.rect.Min.Y + m.r
	case y >= m.rect.Max.Y-m.r:
		cy = m.rect.Max.Y - m.r - 1
	}
	if cx < 0 || cy < 0 {
		return color.Opaque
	}
	dx, dy := x-cx, y-cy
	if dx*dx+dy*dy > m.r*m.r {
		return color.Transparent
	}
	return color.Opaque
}
