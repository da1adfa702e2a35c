package photo

import (
	"image"
	"math"
	"time"
)

// DateLayout formats modification times for display and archive names.
const DateLayout = "2006-01-02_15-04-05"

// Record is one raw import input.
type Record struct {
	Name    string
	Size    int64
	ModTime time.Time
	Type    string
	Data    []byte
}

// Item is one imported image plus its derived metadata. Items are immutable
// after import.
type Item struct {
	Index       int
	Name        string
	Size        int64
	ModTime     time.Time
	Type        string
	Width       int
	Height      int
	AspectRatio float64
	Resolution  int64
	Image       image.Image
}

// NewItem builds an Item from a record and its decoded image, computing the
// derived attributes.
func NewItem(index int, rec Record, decoded Decoded) *Item {
	item := &Item{
		Index:   index,
		Name:    rec.Name,
		Size:    rec.Size,
		ModTime: rec.ModTime,
		Type:    rec.Type,
		Width:   decoded.Width,
		Height:  decoded.Height,
		Image:   decoded.Image,
	}
	if item.Size == 0 {
		item.Size = int64(len(rec.Data))
	}
	if decoded.Height > 0 {
		item.AspectRatio = math.Round(float64(decoded.Width)/float64(decoded.Height)*100) / 100
	}
	item.Resolution = int64(decoded.Width) * int64(decoded.Height)
	return item
}

// FormattedDate returns the modification time in local time using DateLayout.
func (i *Item) FormattedDate() string {
	if i == nil || i.ModTime.IsZero() {
		return ""
	}
	return i.ModTime.Local().Format(DateLayout)
}
