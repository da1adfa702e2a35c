package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// consoleHandler renders records as a one-line header followed by indented
// "Label: value" lines. Debug records keep raw keys and every attribute.
type consoleHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// consoleEntry is a record split into its subject and remaining fields.
type consoleEntry struct {
	component string
	sessionID string
	phase     string
	page      int
	fields    []kv
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	entry := h.collect(record)

	var buf bytes.Buffer
	buf.Grow(256 + len(entry.fields)*32)
	h.writeHeader(&buf, record, entry)
	writeFields(&buf, entry.fields, record.Level < slog.LevelInfo)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) collect(record slog.Record) consoleEntry {
	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	for _, attr := range h.attrs {
		flattenAttr(&kvs, h.groups, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})

	var entry consoleEntry
	for _, item := range dedupeKVsByKey(kvs) {
		switch item.key {
		case FieldComponent:
			entry.component = plainValue(item.value, false)
			continue
		case FieldSessionID:
			entry.sessionID = plainValue(item.value, false)
		case FieldPhase:
			entry.phase = plainValue(item.value, false)
		case FieldPage:
			if v := item.value.Resolve(); v.Kind() == slog.KindInt64 {
				entry.page = int(v.Int64())
			}
		}
		entry.fields = append(entry.fields, item)
	}
	return entry
}

func (h *consoleHandler) writeHeader(buf *bytes.Buffer, record slog.Record, entry consoleEntry) {
	buf.WriteString(consoleTime(record.Time))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(record.Level))
	if entry.component != "" {
		buf.WriteString(" [" + entry.component + "]")
	}
	if subject := FormatSubject(entry.sessionID, entry.page, entry.phase); subject != "" {
		buf.WriteString(" " + subject)
	}

	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}
	buf.WriteString(" – " + message)

	if src := record.Source(); h.addSource && src != nil {
		buf.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
	}
	buf.WriteByte('\n')
}

func writeFields(buf *bytes.Buffer, fields []kv, debug bool) {
	for _, field := range fields {
		switch {
		case debug:
			buf.WriteString("    " + field.key + ": " + plainValue(field.value, true) + "\n")
		case skipInfoKey(field.key):
		default:
			buf.WriteString("    - " + displayLabel(field.key) + ": " + formatValueForKey(field.key, field.value) + "\n")
		}
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *consoleHandler) clone() *consoleHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	c.groups = append([]string(nil), h.groups...)
	return &c
}

type kv struct {
	key   string
	value slog.Value
}

// dedupeKVsByKey keeps the first position of each key with the last value written.
func dedupeKVsByKey(attrs []kv) []kv {
	positions := make(map[string]int, len(attrs))
	deduped := make([]kv, 0, len(attrs))
	for _, attr := range attrs {
		if attr.key == "" {
			continue
		}
		if pos, ok := positions[attr.key]; ok {
			deduped[pos].value = attr.value
			continue
		}
		positions[attr.key] = len(deduped)
		deduped = append(deduped, attr)
	}
	return deduped
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(slices.Clone(prefix), attr.Key)
		}
		for _, member := range attr.Value.Group() {
			flattenAttr(dst, next, member)
		}
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(prefix, ".") + "." + key
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}
