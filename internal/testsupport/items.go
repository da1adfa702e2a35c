package testsupport

import (
	"fmt"
	"image"
	"image/color"
	"testing"
	"time"

	"photowall/internal/photo"
)

// Records builds PNG records named after names, each 4x3 pixels and one
// minute apart.
func Records(t testing.TB, names ...string) []photo.Record {
	t.Helper()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	records := make([]photo.Record, 0, len(names))
	for idx, name := range names {
		data := PNG(t, 4, 3, color.NRGBA{R: uint8(idx * 20), G: 0x40, B: 0x80, A: 0xff})
		records = append(records, photo.Record{
			Name:    name,
			Size:    int64(len(data)),
			ModTime: base.Add(time.Duration(idx) * time.Minute),
			Type:    "image/png",
			Data:    data,
		})
	}
	return records
}

// Items builds n in-memory items named img1.png..imgN.png without encoding.
func Items(n int) []*photo.Item {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	items := make([]*photo.Item, 0, n)
	for i := 0; i < n; i++ {
		w, h := 8+i, 6
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		rec := photo.Record{
			Name:    fmt.Sprintf("img%d.png", i+1),
			Size:    int64(100 * (i + 1)),
			ModTime: base.Add(time.Duration(i) * time.Minute),
			Type:    "image/png",
		}
		items = append(items, photo.NewItem(i, rec, photo.Decoded{Image: img, Width: w, Height: h, Format: "png"}))
	}
	return items
}
