package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"photowall/internal/services"
)

// LockFileName is created inside the output directory while an export runs.
const LockFileName = ".photowall.lock"

// Sink receives named artifacts. Failures are reported to the caller.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) error
}

// Locker is implemented by sinks that need exclusive access for the duration
// of an export.
type Locker interface {
	Lock() error
	Unlock() error
}

// DirSink writes artifacts into a directory.
type DirSink struct {
	dir  string
	lock *flock.Flock
}

// NewDirSink returns a sink rooted at dir. The directory is created on Lock or
// on the first Save.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir, lock: flock.New(filepath.Join(dir, LockFileName))}
}

// Dir returns the output directory.
func (s *DirSink) Dir() string {
	return s.dir
}

// Lock acquires the output directory lock without blocking.
func (s *DirSink) Lock() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return services.Wrap(services.ErrDownload, "sink", "lock", "create output directory", err)
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrDownload, "sink", "lock", s.lock.Path(), err)
	}
	if !ok {
		return services.Wrap(services.ErrDownload, "sink", "lock", fmt.Sprintf("output directory %s is in use by another export", s.dir), nil)
	}
	return nil
}

// Unlock releases the output directory lock.
func (s *DirSink) Unlock() error {
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("release output lock: %w", err)
	}
	return nil
}

// Save writes data to dir/name via a temp file and rename.
func (s *DirSink) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return services.Wrap(services.ErrDownload, "sink", "save", "create output directory", err)
	}
	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return services.Wrap(services.ErrDownload, "sink", "save", name, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return services.Wrap(services.ErrDownload, "sink", "save", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return services.Wrap(services.ErrDownload, "sink", "save", name, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return services.Wrap(services.ErrDownload, "sink", "save", name, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return services.Wrap(services.ErrDownload, "sink", "save", name, err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return services.Wrap(services.ErrDownload, "sink", "save", fmt.Sprintf("invalid artifact name %q", name), nil)
	}
	return nil
}

// MemorySink keeps artifacts in memory in save order.
type MemorySink struct {
	mu    sync.Mutex
	names []string
	files map[string][]byte
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// Save implements Sink. Saving a name twice replaces the data.
func (m *MemorySink) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		m.names = append(m.names, name)
	}
	m.files[name] = slices.Clone(data)
	return nil
}

// Names returns saved artifact names in save order.
func (m *MemorySink) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.names)
}

// Data returns the bytes saved under name.
func (m *MemorySink) Data(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}
