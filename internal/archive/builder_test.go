package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"

	"photowall/internal/services"
)

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		out[f.Name] = string(body)
	}
	return out
}

func TestFinalizeRoundTrip(t *testing.T) {
	for _, level := range []int{0, 1, DefaultLevel} {
		b, err := NewBuilder(Options{Level: level})
		if err != nil {
			t.Fatalf("NewBuilder(%d): %v", level, err)
		}
		if err := b.AddEntry("001.png", bytes.Repeat([]byte("a"), 4096)); err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
		if err := b.AddEntry("002.png", []byte("second")); err != nil {
			t.Fatalf("AddEntry: %v", err)
		}

		var progress []float64
		data, err := b.Finalize(context.Background(), func(p float64) { progress = append(progress, p) })
		if err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		files := readZip(t, data)
		if len(files) != 2 || files["002.png"] != "second" || len(files["001.png"]) != 4096 {
			t.Fatalf("level %d: unexpected entries %v", level, len(files))
		}
		if len(progress) == 0 || progress[len(progress)-1] != 100 {
			t.Fatalf("progress = %v, want final 100", progress)
		}
		for i := 1; i < len(progress); i++ {
			if progress[i] < progress[i-1] {
				t.Fatalf("progress not monotonic: %v", progress)
			}
		}
	}
}

func TestEntriesKeepInsertionOrder(t *testing.T) {
	b, _ := NewBuilder(Options{Level: DefaultLevel})
	for _, name := range []string{"003.png", "001.png", "002.png"} {
		if err := b.AddEntry(name, []byte(name)); err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
	}
	data, err := b.Finalize(context.Background(), nil)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	for i, want := range b.Names() {
		if zr.File[i].Name != want {
			t.Fatalf("entry %d = %s, want %s", i, zr.File[i].Name, want)
		}
	}
}

func TestAddEntryRejectsDuplicatesAndBadNames(t *testing.T) {
	b, _ := NewBuilder(Options{Level: DefaultLevel})
	if err := b.AddEntry("001.png", []byte("x")); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	for _, name := range []string{"001.png", "", "../escape.png", "/abs.png"} {
		if err := b.AddEntry(name, []byte("x")); !errors.Is(err, services.ErrArchive) {
			t.Fatalf("AddEntry(%q) err = %v, want ErrArchive", name, err)
		}
	}
	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
}

func TestFinalizeSizeLimit(t *testing.T) {
	b, _ := NewBuilder(Options{Level: 0, MaxBytes: 64})
	if err := b.AddEntry("001.png", bytes.Repeat([]byte("z"), 512)); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := b.Finalize(context.Background(), nil); !errors.Is(err, services.ErrArchive) {
		t.Fatalf("err = %v, want ErrArchive", err)
	}
}

func TestFinalizeCancelled(t *testing.T) {
	b, _ := NewBuilder(Options{Level: DefaultLevel})
	_ = b.AddEntry("001.png", []byte("x"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Finalize(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestNewBuilderValidatesLevel(t *testing.T) {
	for _, level := range []int{-1, 10} {
		if _, err := NewBuilder(Options{Level: level}); !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("level %d err = %v, want ErrConfiguration", level, err)
		}
	}
}
