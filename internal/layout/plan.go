package layout

import (
	"math"

	"photowall/internal/photo"
)

// Page is one contiguous slice of the ordered sequence.
type Page struct {
	Number int
	Offset int
	Items  []*photo.Item
}

// PageCount returns ceil(n/capacity), or 0 when there is nothing to page.
func PageCount(n, capacity int) int {
	if n <= 0 || capacity <= 0 {
		return 0
	}
	return (n + capacity - 1) / capacity
}

// Plan partitions items into pages of rows*columns items. Page i holds items
// [(i-1)*capacity, i*capacity) and the last page holds the remainder.
func Plan(items []*photo.Item, rows, columns int) ([]Page, error) {
	if rows < 1 || columns < 1 {
		return nil, configError("page capacity must be at least 1 (rows=%d, columns=%d)", rows, columns)
	}
	if rows > math.MaxInt/columns {
		return nil, configError("page capacity overflows (rows=%d, columns=%d)", rows, columns)
	}
	capacity := rows * columns
	pages := make([]Page, 0, PageCount(len(items), capacity))
	for offset := 0; offset < len(items); offset += capacity {
		end := min(offset+capacity, len(items))
		pages = append(pages, Page{
			Number: len(pages) + 1,
			Offset: offset,
			Items:  items[offset:end:end],
		})
	}
	return pages, nil
}
