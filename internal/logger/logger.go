// Package logger provides slog-based logging with two extra levels and a
// compact line format for the logotint CLI.
//
// Records render as:
//
//	2006-01-02T15:04:05.000Z [LEVEL] message | key=value, key2=value2
//
// One-shot runs log to stderr; watch mode logs to a rotating file in the
// data directory. Custom levels beyond the standard slog set:
//   - LevelTrace (-8): fine-grained diagnostics
//   - LevelFail  (12): errors the process cannot continue past
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ///////////////////////////////////////////////
// Custom Levels
// ///////////////////////////////////////////////

const (
	LevelTrace slog.Level = -8
	LevelDebug slog.Level = slog.LevelDebug // -4
	LevelInfo  slog.Level = slog.LevelInfo  // 0
	LevelWarn  slog.Level = slog.LevelWarn  // 4
	LevelError slog.Level = slog.LevelError // 8
	LevelFail  slog.Level = 12
)

// levelThresholds maps levels to display names, coarsest first. A record
// between two named levels takes the name of the nearest one at or above it.
var levelThresholds = []struct {
	max  slog.Level
	name string
}{
	{LevelTrace, "TRACE"},
	{LevelDebug, "DEBUG"},
	{LevelInfo, "INFO"},
	{LevelWarn, "WARN"},
	{LevelError, "ERROR"},
}

// levelName returns the bracketed display name for a level.
func levelName(l slog.Level) string {
	for _, t := range levelThresholds {
		if l <= t.max {
			return t.name
		}
	}
	return "FAIL"
}

// levelsByName holds the accepted config spellings for [ParseLevel].
var levelsByName = map[string]slog.Level{
	"trace": LevelTrace,
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"error": LevelError,
	"fail":  LevelFail,
}

// ParseLevel maps a config spelling (trace, debug, info, warn, error,
// fail; any case) to its slog.Level. Unrecognized strings read as
// LevelInfo.
func ParseLevel(s string) slog.Level {
	if l, ok := levelsByName[strings.ToLower(s)]; ok {
		return l
	}
	return LevelInfo
}

// ///////////////////////////////////////////////
// Handler
// ///////////////////////////////////////////////

// lineEnding matches the platform convention: CRLF on Windows, LF elsewhere.
var lineEnding = "\n"

func init() {
	if runtime.GOOS == "windows" {
		lineEnding = "\r\n"
	}
}

// Handler is the slog.Handler behind the line format above:
//
//	2006-01-02T15:04:05.000Z [LEVEL] message | key=value, ...
type Handler struct {
	// w receives the formatted lines.
	w io.Writer
	// mu keeps concurrent log calls from interleaving their lines on w.
	mu *sync.Mutex
	// level is the emission floor; records below it are dropped.
	level slog.Level
	// attrs are the pre-bound attributes from [Handler.WithAttrs].
	attrs []slog.Attr
	// group prefixes attribute keys, dot-separated, per [Handler.WithGroup].
	group string
}

// NewHandler returns a Handler writing to w that drops records below level.
func NewHandler(w io.Writer, level slog.Level) *Handler {
	return &Handler{w: w, level: level, mu: &sync.Mutex{}}
}

// Enabled reports whether records at level clear the emission floor.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle renders one record into a line and writes it.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	line := make([]byte, 0, 128)

	line = r.Time.UTC().AppendFormat(line, "2006-01-02T15:04:05.000Z")
	line = append(line, " ["...)
	line = append(line, levelName(r.Level)...)
	line = append(line, "] "...)
	line = append(line, r.Message...)

	sep := " | "
	appendAttr := func(a slog.Attr) {
		line = append(line, sep...)
		sep = ", "
		if h.group != "" {
			line = append(line, h.group...)
			line = append(line, '.')
		}
		line = append(line, a.Key...)
		line = append(line, '=')
		line = append(line, a.Value.String()...)
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(a)
		return true
	})

	line = append(line, lineEnding...)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(line)
	return err
}

// WithAttrs returns a Handler that prepends attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)
	return &Handler{w: h.w, mu: h.mu, level: h.level, attrs: merged, group: h.group}
}

// WithGroup returns a Handler whose attribute keys carry the group name
// as a dotted prefix ("group.key").
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroup := name
	if h.group != "" {
		newGroup = h.group + "." + name
	}
	return &Handler{w: h.w, mu: h.mu, level: h.level, attrs: h.attrs, group: newGroup}
}

// ///////////////////////////////////////////////
// Logger Constructors
// ///////////////////////////////////////////////

// NewLogger builds a slog.Logger backed by a rotating file. Watch mode
// uses it so long-running sessions cannot fill the disk. Close the
// returned io.Closer on shutdown to flush pending writes.
func NewLogger(logPath string, minLevel slog.Level, maxSizeMB int) (*slog.Logger, io.Closer, error) {
	lj := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   false,
	}

	handler := NewHandler(lj, minLevel)
	return slog.New(handler), lj, nil
}

// NewConsoleLogger creates a slog.Logger that writes to w with no rotation.
// One-shot runs use this with os.Stderr.
func NewConsoleLogger(w io.Writer, minLevel slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, minLevel))
}

// ///////////////////////////////////////////////
// Helper Functions
// ///////////////////////////////////////////////

// Trace logs msg at LevelTrace.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}

// Fail logs msg at LevelFail.
func Fail(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelFail, msg, args...)
}

// ///////////////////////////////////////////////
// ReadTail
// ///////////////////////////////////////////////

// ReadTail returns the last n lines from the file at path, joined with "\n".
// Rotation caps the file at a few megabytes, so it is read whole. Returns an
// error if the file cannot be read.
func ReadTail(path string, n int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	text := strings.TrimRight(string(data), "\r\n")
	if text == "" || n <= 0 {
		return "", nil
	}

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n"), nil
}
