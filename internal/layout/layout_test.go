package layout

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"photowall/internal/services"
	"photowall/internal/testsupport"
)

func TestPlanPartitionsExactly(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4, 5, 7, 9, 10, 25} {
		for _, shape := range [][2]int{{1, 1}, {2, 2}, {3, 3}, {1, 4}} {
			items := testsupport.Items(n)
			pages, err := Plan(items, shape[0], shape[1])
			if err != nil {
				t.Fatalf("Plan(%d, %v): %v", n, shape, err)
			}
			capacity := shape[0] * shape[1]
			if len(pages) != PageCount(n, capacity) {
				t.Fatalf("n=%d cap=%d: %d pages, want %d", n, capacity, len(pages), PageCount(n, capacity))
			}
			next := 0
			for i, page := range pages {
				if page.Number != i+1 || page.Offset != next {
					t.Fatalf("page %d: number=%d offset=%d, want offset %d", i, page.Number, page.Offset, next)
				}
				if len(page.Items) == 0 || len(page.Items) > capacity {
					t.Fatalf("page %d has %d items (capacity %d)", page.Number, len(page.Items), capacity)
				}
				if i < len(pages)-1 && len(page.Items) != capacity {
					t.Fatalf("non-final page %d is not full", page.Number)
				}
				for j, item := range page.Items {
					if item != items[next+j] {
						t.Fatalf("page %d item %d out of order", page.Number, j)
					}
				}
				next += len(page.Items)
			}
			if next != n {
				t.Fatalf("pages cover %d items, want %d", next, n)
			}
		}
	}
}

func TestPlanRejectsZeroCapacity(t *testing.T) {
	for _, shape := range [][2]int{{0, 3}, {3, 0}, {-1, 2}, {1 << 62, 4}, {math.MaxInt, 2}} {
		if _, err := Plan(testsupport.Items(3), shape[0], shape[1]); !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("Plan(%v) err = %v, want ErrConfiguration", shape, err)
		}
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		n, capacity, want int
	}{
		{0, 4, 0},
		{7, 4, 2},
		{8, 4, 2},
		{9, 4, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := PageCount(tt.n, tt.capacity); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.n, tt.capacity, got, tt.want)
		}
	}
}

func testGrid() Grid {
	return Grid{
		Rows:       2,
		Columns:    2,
		RowGap:     4,
		ColumnGap:  10,
		PaddingX:   10,
		PaddingY:   5,
		Background: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		MaxWidth:   100,
		Alignment:  AlignCenter,
	}
}

func TestArrangeGeometry(t *testing.T) {
	pages, err := Plan(testsupport.Items(3), 2, 2)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	c, err := Arrange(pages[0], testGrid())
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if c.Width != 100 || c.Height != 61 || c.Rows != 2 || len(c.Cells) != 3 {
		t.Fatalf("container = %dx%d rows=%d cells=%d, want 100x61 rows=2 cells=3", c.Width, c.Height, c.Rows, len(c.Cells))
	}
	wantFrames := []image.Rectangle{
		image.Rect(10, 5, 45, 31),
		image.Rect(55, 5, 90, 31),
		image.Rect(10, 35, 45, 56),
	}
	for i, want := range wantFrames {
		if c.Cells[i].Frame != want {
			t.Fatalf("cell %d frame = %v, want %v", i, c.Cells[i].Frame, want)
		}
	}
	if got := c.Cells[1].Content; got != image.Rect(55, 6, 90, 29) {
		t.Fatalf("centered content = %v", got)
	}
}

func TestArrangeAlignment(t *testing.T) {
	pages, _ := Plan(testsupport.Items(2), 1, 2)
	tests := []struct {
		align Alignment
		want  image.Rectangle
	}{
		{AlignStart, image.Rect(55, 5, 90, 28)},
		{AlignEnd, image.Rect(55, 8, 90, 31)},
		{AlignStretch, image.Rect(55, 5, 90, 31)},
	}
	for _, tt := range tests {
		t.Run(string(tt.align), func(t *testing.T) {
			grid := testGrid()
			grid.Alignment = tt.align
			c, err := Arrange(pages[0], grid)
			if err != nil {
				t.Fatalf("Arrange: %v", err)
			}
			if got := c.Cells[1].Content; got != tt.want {
				t.Fatalf("content = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArrangeItemPadding(t *testing.T) {
	pages, _ := Plan(testsupport.Items(1), 1, 2)
	grid := testGrid()
	grid.ItemPadding = 3
	c, err := Arrange(pages[0], grid)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	cell := c.Cells[0]
	if cell.Content.Min.X != cell.Frame.Min.X+3 || cell.Content.Max.X != cell.Frame.Max.X-3 {
		t.Fatalf("content %v not inset from frame %v", cell.Content, cell.Frame)
	}
}

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Grid)
	}{
		{"zero rows", func(g *Grid) { g.Rows = 0 }},
		{"zero columns", func(g *Grid) { g.Columns = 0 }},
		{"capacity overflow", func(g *Grid) { g.Rows = 1 << 62 }},
		{"negative gap", func(g *Grid) { g.RowGap = -1 }},
		{"negative padding", func(g *Grid) { g.ItemPadding = -2 }},
		{"no room", func(g *Grid) { g.MaxWidth = 30 }},
		{"bad alignment", func(g *Grid) { g.Alignment = "diagonal" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := testGrid()
			tt.mutate(&grid)
			if err := grid.Validate(); !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("Validate err = %v, want ErrConfiguration", err)
			}
		})
	}
	if err := testGrid().Validate(); err != nil {
		t.Fatalf("valid grid rejected: %v", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, false},
		{"#102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, false},
		{"#10203080", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x80}, false},
		{"transparent", color.NRGBA{}, false},
		{"white", color.NRGBA{}, true},
		{"#12345", color.NRGBA{}, true},
		{"#gggggg", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseColor(%q) err = %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
