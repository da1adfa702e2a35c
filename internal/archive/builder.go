package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"photowall/internal/services"
)

// DefaultLevel is the deflate level used when none is configured.
const DefaultLevel = 9

// Options configures a Builder.
type Options struct {
	// Level is the deflate level 0-9; 0 stores entries uncompressed.
	Level int
	// MaxBytes caps the finalized package size; zero means unlimited.
	MaxBytes int64
	// Modified stamps every entry; zero uses the time Finalize runs.
	Modified time.Time
}

type entry struct {
	name string
	data []byte
}

// Builder collects entries in insertion order.
type Builder struct {
	mu      sync.Mutex
	opts    Options
	entries []entry
	names   map[string]struct{}
	size    int64
}

// NewBuilder validates opts and returns an empty builder.
func NewBuilder(opts Options) (*Builder, error) {
	if opts.Level < 0 || opts.Level > 9 {
		return nil, services.Wrap(services.ErrConfiguration, "archive", "new builder", fmt.Sprintf("export.compression_level %d outside 0-9", opts.Level), nil)
	}
	if opts.MaxBytes < 0 {
		return nil, services.Wrap(services.ErrConfiguration, "archive", "new builder", "export.max_archive_bytes must be non-negative", nil)
	}
	return &Builder{opts: opts, names: make(map[string]struct{})}, nil
}

// AddEntry appends a named artifact. Names must be unique, non-empty, relative
// paths.
func (b *Builder) AddEntry(name string, data []byte) error {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		return services.Wrap(services.ErrArchive, "archive", "add entry", fmt.Sprintf("invalid entry name %q", name), nil)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.names[name]; exists {
		return services.Wrap(services.ErrArchive, "archive", "add entry", fmt.Sprintf("duplicate entry %q", name), nil)
	}
	b.names[name] = struct{}{}
	b.entries = append(b.entries, entry{name: name, data: data})
	b.size += int64(len(data))
	return nil
}

// Len returns the number of entries added so far.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Names returns entry names in insertion order.
func (b *Builder) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, len(b.entries))
	for i, e := range b.entries {
		names[i] = e.name
	}
	return names
}

// Finalize writes every entry into one ZIP package. onProgress receives a
// monotonically increasing percentage of input bytes written, ending at 100.
func (b *Builder) Finalize(ctx context.Context, onProgress func(percent float64)) ([]byte, error) {
	b.mu.Lock()
	entries := append([]entry(nil), b.entries...)
	total := b.size
	b.mu.Unlock()

	modified := b.opts.Modified
	if modified.IsZero() {
		modified = time.Now()
	}
	method := zip.Deflate
	if b.opts.Level == 0 {
		method = zip.Store
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	level := b.opts.Level
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	report := func(done int64) {
		if onProgress == nil {
			return
		}
		if total == 0 {
			onProgress(100)
			return
		}
		onProgress(float64(done) * 100 / float64(total))
	}

	var written int64
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: method, Modified: modified})
		if err != nil {
			return nil, services.Wrap(services.ErrArchive, "archive", "create entry", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, services.Wrap(services.ErrArchive, "archive", "write entry", e.name, err)
		}
		written += int64(len(e.data))
		if b.opts.MaxBytes > 0 && int64(buf.Len()) > b.opts.MaxBytes {
			return nil, b.sizeError(int64(buf.Len()))
		}
		if written < total {
			report(written)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, services.Wrap(services.ErrArchive, "archive", "finalize", "", err)
	}
	if b.opts.MaxBytes > 0 && int64(buf.Len()) > b.opts.MaxBytes {
		return nil, b.sizeError(int64(buf.Len()))
	}
	report(total)
	return buf.Bytes(), nil
}

func (b *Builder) sizeError(size int64) error {
	return services.Wrap(services.ErrArchive, "archive", "finalize", fmt.Sprintf("package exceeds %d bytes (%d)", b.opts.MaxBytes, size), nil)
}
