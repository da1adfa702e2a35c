package photo

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"photowall/internal/services"
)

// LoadRecords expands file paths, directories and glob patterns (with **
// support) into records read from disk. Directories are walked recursively.
// Hidden files and directories are ignored. Paths are returned sorted and
// deduplicated so import order is deterministic.
func LoadRecords(patterns []string) ([]Record, error) {
	paths, err := expandPatterns(patterns)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(paths))
	for _, path := range paths {
		rec, err := readRecord(path)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if info, err := os.Stat(pattern); err == nil && info.IsDir() {
			pattern = filepath.Join(pattern, "**", "*")
		}
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, services.Wrap(services.ErrConfiguration, "photo", "expand patterns", fmt.Sprintf("invalid pattern %q", pattern), nil)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "photo", "expand patterns", pattern, err)
		}
		for _, match := range matches {
			if isHiddenPath(match) {
				continue
			}
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			paths = append(paths, match)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func isHiddenPath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}

func readRecord(path string) (Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Record{}, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Record{
		Name:    filepath.Base(path),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Type:    detectType(path, data),
		Data:    data,
	}, nil
}

var imageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

func detectType(path string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if known, ok := imageExtensions[ext]; ok {
		return known
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		if idx := strings.IndexByte(byExt, ';'); idx >= 0 {
			byExt = byExt[:idx]
		}
		return strings.TrimSpace(byExt)
	}
	sniffed := http.DetectContentType(data)
	if idx := strings.IndexByte(sniffed, ';'); idx >= 0 {
		sniffed = sniffed[:idx]
	}
	return strings.TrimSpace(sniffed)
}
