package sink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"photowall/internal/services"
)

func TestDirSinkSaveAtomically(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := NewDirSink(dir)
	if err := s.Save(context.Background(), "001.png", []byte("page one")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "001.png"))
	if err != nil || string(data) != "page one" {
		t.Fatalf("read back %q, %v", data, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the artifact, found %d entries", len(entries))
	}
}

func TestDirSinkRejectsUnsafeNames(t *testing.T) {
	s := NewDirSink(t.TempDir())
	for _, name := range []string{"", "../x.png", "a/b.png", ".hidden"} {
		if err := s.Save(context.Background(), name, []byte("x")); !errors.Is(err, services.ErrDownload) {
			t.Fatalf("Save(%q) err = %v, want ErrDownload", name, err)
		}
	}
}

func TestDirSinkLockIsExclusive(t *testing.T) {
	dir := t.TempDir()
	first := NewDirSink(dir)
	if err := first.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	second := NewDirSink(dir)
	if err := second.Lock(); !errors.Is(err, services.ErrDownload) {
		t.Fatalf("second Lock err = %v, want ErrDownload", err)
	}
	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if err := second.Lock(); err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	_ = second.Unlock()
}

func TestMemorySink(t *testing.T) {
	m := NewMemorySink()
	ctx := context.Background()
	_ = m.Save(ctx, "002.png", []byte("b"))
	_ = m.Save(ctx, "001.png", []byte("a"))
	_ = m.Save(ctx, "002.png", []byte("bb"))
	if got := m.Names(); !slices.Equal(got, []string{"002.png", "001.png"}) {
		t.Fatalf("Names = %v", got)
	}
	if data, ok := m.Data("002.png"); !ok || string(data) != "bb" {
		t.Fatalf("Data = %q, %v", data, ok)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := m.Save(cancelled, "003.png", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
