package logging

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Attr is the attribute type accepted by every helper in this package.
type Attr = slog.Attr

// Bool records a boolean field.
func Bool(key string, value bool) Attr {
	return slog.Bool(key, value)
}

// Duration records a duration; the JSON handler rounds it to milliseconds.
func Duration(key string, value time.Duration) Attr {
	return slog.Duration(key, value)
}

// Float64 records a floating point field such as a progress percentage.
func Float64(key string, value float64) Attr {
	return slog.Float64(key, value)
}

// Int records an integer field.
func Int(key string, value int) Attr {
	return slog.Int(key, value)
}

// Int64 records a 64-bit integer field such as a byte count.
func Int64(key string, value int64) Attr {
	return slog.Int64(key, value)
}

// String records a string field.
func String(key string, value string) Attr {
	return slog.String(key, value)
}

// Error records err under the "error" key.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Pages records a list of page numbers as "2, 4, 7", or "none".
func Pages(key string, pages []int) Attr {
	if len(pages) == 0 {
		return slog.String(key, "none")
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return slog.String(key, strings.Join(parts, ", "))
}

// Args converts attributes into the variadic form slog methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with a component name. A nil logger yields a
// discarding one.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact; missing fields get defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefaults(attrs,
		String(FieldEventType, eventType),
		String(FieldErrorHint, "check logs for details"),
		String(FieldImpact, "export completed with warnings"),
	)
	logger.Warn(msg, Args(attrs...)...)
}

// ErrorWithContext logs an error that always carries event_type and
// error_hint.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefaults(attrs,
		String(FieldEventType, eventType),
		String(FieldErrorHint, "check logs for details"),
	)
	logger.Error(msg, Args(attrs...)...)
}

func withDefaults(attrs []Attr, defaults ...Attr) []Attr {
	for _, def := range defaults {
		if !slices.ContainsFunc(attrs, func(a Attr) bool { return a.Key == def.Key }) {
			attrs = append(attrs, def)
		}
	}
	return attrs
}
