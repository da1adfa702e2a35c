package photo

import (
	"context"
	"strings"

	"photowall/internal/services"
)

// Skipped describes a record that was not imported.
type Skipped struct {
	Index  int
	Name   string
	Reason string
}

// ImportResult lists imported items in import order plus skipped records.
type ImportResult struct {
	Items   []*Item
	Skipped []Skipped
}

// ProgressFunc receives import progress after every record.
type ProgressFunc func(done, total int)

// IsImageType reports whether a MIME type tag denotes an image.
func IsImageType(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}

// Import decodes records into items. A record that is not an image or fails
// to decode is skipped; only context cancellation aborts the import.
func Import(ctx context.Context, records []Record, decoder Decoder, progress ProgressFunc) (ImportResult, error) {
	if decoder == nil {
		decoder = ImageDecoder{}
	}
	result := ImportResult{Items: make([]*Item, 0, len(records))}
	total := len(records)
	for idx, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !IsImageType(rec.Type) {
			result.Skipped = append(result.Skipped, Skipped{
				Index:  idx,
				Name:   rec.Name,
				Reason: "unsupported type " + quoteType(rec.Type),
			})
		} else if decoded, err := decoder.Decode(ctx, rec.Data); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			wrapped := services.Wrap(services.ErrDecode, "photo", "decode", rec.Name, err)
			result.Skipped = append(result.Skipped, Skipped{Index: idx, Name: rec.Name, Reason: wrapped.Error()})
		} else {
			result.Items = append(result.Items, NewItem(idx, rec, decoded))
		}
		if progress != nil {
			progress(idx+1, total)
		}
	}
	return result, nil
}

func quoteType(mimeType string) string {
	if strings.TrimSpace(mimeType) == "" {
		return "(unknown)"
	}
	return mimeType
}
