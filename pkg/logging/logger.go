package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"liftoff/pkg/config"
	"liftoff/pkg/model"
)

// RequestLogger is the logger instance for HTTP requests.
var RequestLogger *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var (
	eventLogPath string
	eventLogMu   sync.Mutex
)

// Option adjusts Init.
type Option func(*options)

type options struct {
	console bool
}

// WithoutConsole keeps server logs off stdout, for hosts that own the terminal.
func WithoutConsole() Option {
	return func(o *options) { o.console = false }
}

// Init initializes the logging system based on configuration.
// It returns a cleanup function to close log files. An empty requests path
// discards request logs.
func Init(cfg *config.LogConfig, opts ...Option) (func(), error) {
	o := options{console: true}
	for _, opt := range opts {
		opt(&o)
	}

	rotatePaths(cfg.Server.Path, cfg.Requests.Path, cfg.Events.Path)
	SetEventLogPath(cfg.Events.Path)
	SetTrace(isTrace(cfg.Server.Level))

	var closers []io.Closer

	// Server: file + optional console + capture
	serverHandler, file1, err := setupHandler(cfg.Server.Path, cfg.Server.Level, o.console, true)
	if err != nil {
		return nil, fmt.Errorf("failed to setup server logger: %w", err)
	}
	closers = append(closers, file1)
	slog.SetDefault(slog.New(serverHandler))

	// Requests: file only
	if cfg.Requests.Path != "" {
		requestHandler, file2, err := setupHandler(cfg.Requests.Path, cfg.Requests.Level, false, false)
		if err != nil {
			file1.Close()
			return nil, fmt.Errorf("failed to setup requests logger: %w", err)
		}
		closers = append(closers, file2)
		RequestLogger = slog.New(requestHandler)
	}

	return func() {
		for _, c := range closers {
			c.Close()
		}
	}, nil
}

// ParseLevel maps a config level name to a slog level. TRACE is DEBUG plus
// per-frame lines. Unknown names mean INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case LevelTrace, "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func setupHandler(path, levelStr string, console, capture bool) (slog.Handler, *os.File, error) {
	level := ParseLevel(levelStr)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	handlers := []slog.Handler{slog.NewTextHandler(file, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})}
	if console {
		handlers = append(handlers, slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: max(level, slog.LevelInfo),
		}))
	}
	if capture {
		handlers = append(handlers, slog.NewTextHandler(GlobalLogCapture, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	if len(handlers) == 1 {
		return handlers[0], file, nil
	}
	return &multiHandler{handlers: handlers}, file, nil
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// nolint:gocritic // r must be passed by value to implement slog.Handler
func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: hs}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: hs}
}

// rotatePaths renames existing log files to .old so every run starts fresh.
func rotatePaths(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			old := p + ".old"
			_ = os.Remove(old)
			_ = os.Rename(p, old)
		}
	}
}

// SetEventLogPath configures the path for the event log file. Empty disables it.
func SetEventLogPath(path string) {
	eventLogMu.Lock()
	defer eventLogMu.Unlock()
	eventLogPath = path
}

// FormatEvent renders an event as a single log line without newline.
func FormatEvent(event *model.FlightEvent) string {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	line := fmt.Sprintf("[%s] [%s] %s", ts.Format("2006-01-02 15:04:05"), event.Type, event.Title)
	if event.Summary != "" {
		line += " - " + event.Summary
	}
	return line
}

// LogEvent appends a flight event to the event log and the event capture.
func LogEvent(event *model.FlightEvent) {
	line := FormatEvent(event)
	_, _ = GlobalEventCapture.Write([]byte(line))

	eventLogMu.Lock()
	defer eventLogMu.Unlock()
	if eventLogPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(eventLogPath), 0o755); err != nil {
		slog.Error("failed to create event log directory", "error", err)
		return
	}
	f, err := os.OpenFile(eventLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("failed to open event log", "error", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		slog.Error("failed to write event log", "error", err)
	}
}
