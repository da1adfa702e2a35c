package ordering

import (
	"fmt"
	"slices"
	"strings"

	"photowall/internal/photo"
	"photowall/internal/services"
)

// SortKey selects the primary ordering criterion and direction.
type SortKey string

const (
	NameAsc         SortKey = "nameAsc"
	NameDesc        SortKey = "nameDesc"
	DateAsc         SortKey = "dateAsc"
	DateDesc        SortKey = "dateDesc"
	SizeAsc         SortKey = "sizeAsc"
	SizeDesc        SortKey = "sizeDesc"
	TypeAsc         SortKey = "typeAsc"
	TypeDesc        SortKey = "typeDesc"
	WidthAsc        SortKey = "widthAsc"
	WidthDesc       SortKey = "widthDesc"
	HeightAsc       SortKey = "heightAsc"
	HeightDesc      SortKey = "heightDesc"
	AspectRatioAsc  SortKey = "aspectRatioAsc"
	AspectRatioDesc SortKey = "aspectRatioDesc"
	ResolutionAsc   SortKey = "resolutionAsc"
	ResolutionDesc  SortKey = "resolutionDesc"
)

// CompareFunc is a three-way comparison over items.
type CompareFunc func(a, b *photo.Item) int

type primaryFunc func(c *Collator, a, b *photo.Item) int

var primaries = map[string]primaryFunc{
	"name": func(*Collator, *photo.Item, *photo.Item) int { return 0 },
	"date": func(_ *Collator, a, b *photo.Item) int { return a.ModTime.Compare(b.ModTime) },
	"size": func(_ *Collator, a, b *photo.Item) int { return cmpOrdered(a.Size, b.Size) },
	"type": func(c *Collator, a, b *photo.Item) int { return c.Compare(a.Type, b.Type) },
	"width": func(_ *Collator, a, b *photo.Item) int {
		return cmpOrdered(a.Width, b.Width)
	},
	"height": func(_ *Collator, a, b *photo.Item) int {
		return cmpOrdered(a.Height, b.Height)
	},
	"aspectRatio": func(_ *Collator, a, b *photo.Item) int {
		return cmpOrdered(a.AspectRatio, b.AspectRatio)
	},
	"resolution": func(_ *Collator, a, b *photo.Item) int {
		return cmpOrdered(a.Resolution, b.Resolution)
	},
}

// Keys lists every supported sort key in a stable order.
func Keys() []SortKey {
	return []SortKey{
		NameAsc, NameDesc, DateAsc, DateDesc, SizeAsc, SizeDesc,
		TypeAsc, TypeDesc, WidthAsc, WidthDesc, HeightAsc, HeightDesc,
		AspectRatioAsc, AspectRatioDesc, ResolutionAsc, ResolutionDesc,
	}
}

// ParseSortKey validates a sort key string. Unknown keys are configuration
// errors rather than a silent fallback.
func ParseSortKey(value string) (SortKey, error) {
	value = strings.TrimSpace(value)
	for _, key := range Keys() {
		if string(key) == value {
			return key, nil
		}
	}
	return "", services.Wrap(services.ErrConfiguration, "ordering", "parse sort key", fmt.Sprintf("unknown sort key %q", value), nil)
}

// Split returns the criterion name and whether the key is descending.
func (k SortKey) Split() (string, bool) {
	s := string(k)
	switch {
	case strings.HasSuffix(s, "Desc"):
		return strings.TrimSuffix(s, "Desc"), true
	case strings.HasSuffix(s, "Asc"):
		return strings.TrimSuffix(s, "Asc"), false
	default:
		return s, false
	}
}

// Reverse returns the key with the opposite direction.
func (k SortKey) Reverse() SortKey {
	criterion, desc := k.Split()
	if desc {
		return SortKey(criterion + "Asc")
	}
	return SortKey(criterion + "Desc")
}

// Comparator returns the total order for key. The ascending chain is primary
// criterion, collated name, raw name, import index; descending negates it.
func Comparator(key SortKey, collator *Collator) (CompareFunc, error) {
	if _, err := ParseSortKey(string(key)); err != nil {
		return nil, err
	}
	if collator == nil {
		var err error
		if collator, err = NewCollator(Options{}); err != nil {
			return nil, err
		}
	}
	criterion, desc := key.Split()
	primary := primaries[criterion]
	asc := func(a, b *photo.Item) int {
		if c := primary(collator, a, b); c != 0 {
			return c
		}
		if c := collator.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmpOrdered(a.Index, b.Index)
	}
	if desc {
		return func(a, b *photo.Item) int { return -asc(a, b) }, nil
	}
	return asc, nil
}

// Sort returns a sorted copy of items; the input slice is not modified.
func Sort(items []*photo.Item, key SortKey, collator *Collator) ([]*photo.Item, error) {
	cmp, err := Comparator(key, collator)
	if err != nil {
		return nil, err
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, cmp)
	return sorted, nil
}

func cmpOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
