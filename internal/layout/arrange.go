package layout

import (
	"image"
	"image/color"

	"photowall/internal/photo"
)

// Cell places one item. Frame is the grid cell; Content is where the image
// is drawn inside it.
type Cell struct {
	Item    *photo.Item
	Frame   image.Rectangle
	Content image.Rectangle
}

// Container describes the full page canvas.
type Container struct {
	Width      int
	Height     int
	Rows       int
	Columns    int
	Background color.NRGBA
	Radius     int
	ItemRadius int
	Cells      []Cell
}

// Arrange computes the page geometry. Columns share the inner width evenly;
// each image fills its column width and keeps its aspect ratio; a row is as
// tall as its tallest item and shorter items are aligned per grid.Alignment.
func Arrange(page Page, grid Grid) (Container, error) {
	if err := grid.Validate(); err != nil {
		return Container{}, err
	}
	columnX, columnW := columnSpans(grid)
	pad := grid.ItemPadding

	container := Container{
		Width:      grid.MaxWidth,
		Columns:    grid.Columns,
		Background: grid.Background,
		Radius:     grid.PageRadius,
		ItemRadius: grid.ItemRadius,
		Cells:      make([]Cell, 0, len(page.Items)),
	}

	y := grid.PaddingY
	for start := 0; start < len(page.Items); start += grid.Columns {
		end := min(start+grid.Columns, len(page.Items))
		row := page.Items[start:end]

		heights := make([]int, len(row))
		rowHeight := 0
		for i, item := range row {
			heights[i] = contentHeight(item, columnW[i]-2*pad)
			rowHeight = max(rowHeight, heights[i]+2*pad)
		}
		if container.Rows > 0 {
			y += grid.RowGap
		}

		for i, item := range row {
			frame := image.Rect(columnX[i], y, columnX[i]+columnW[i], y+rowHeight)
			inner := frame.Inset(pad)
			content := inner
			switch grid.Alignment {
			case AlignStart:
				content.Max.Y = inner.Min.Y + heights[i]
			case AlignEnd:
				content.Min.Y = inner.Max.Y - heights[i]
			case AlignStretch:
			default:
				offset := (inner.Dy() - heights[i]) / 2
				content.Min.Y = inner.Min.Y + offset
				content.Max.Y = content.Min.Y + heights[i]
			}
			container.Cells = append(container.Cells, Cell{Item: item, Frame: frame, Content: content})
		}

		y += rowHeight
		container.Rows++
	}
	container.Height = y + grid.PaddingY
	return container, nil
}

func columnSpans(grid Grid) ([]int, []int) {
	inner := grid.InnerWidth()
	base, extra := inner/grid.Columns, inner%grid.Columns
	xs := make([]int, grid.Columns)
	ws := make([]int, grid.Columns)
	x := grid.PaddingX
	for i := range grid.Columns {
		w := base
		if i < extra {
			w++
		}
		xs[i], ws[i] = x, w
		x += w + grid.ColumnGap
	}
	return xs, ws
}

func contentHeight(item *photo.Item, width int) int {
	if item == nil || item.Width <= 0 || item.Height <= 0 {
		return width
	}
	h := (width*item.Height + item.Width/2) / item.Width
	return max(h, 1)
}
