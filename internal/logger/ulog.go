package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fhuszti/assets-ms-go/internal/api_context"
)

var std *slog.Logger

type jobCtxKey struct{}

type jobAttrs struct {
	taskType string
	taskID   string
}

// WithJob tags every record logged with ctx with the job being processed.
func WithJob(ctx context.Context, taskType, taskID string) context.Context {
	return context.WithValue(ctx, jobCtxKey{}, jobAttrs{taskType: taskType, taskID: taskID})
}

// --- handler that appends uid (and job info in workers) as attributes ---

type ctxAttrHandler struct{ h slog.Handler }

func (c ctxAttrHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return c.h.Enabled(ctx, lvl)
}

func (c ctxAttrHandler) Handle(ctx context.Context, r slog.Record) error {
	if uid, ok := api_context.AuthUserIDFromContext(ctx); ok {
		r.AddAttrs(slog.String("uid", uid.String()))
	} else {
		r.AddAttrs(slog.String("uid", "system"))
	}
	if j, ok := ctx.Value(jobCtxKey{}).(jobAttrs); ok {
		r.AddAttrs(slog.String("task", j.taskType), slog.String("task_id", j.taskID))
	}
	return c.h.Handle(ctx, r)
}

func (c ctxAttrHandler) WithAttrs(a []slog.Attr) slog.Handler {
	return ctxAttrHandler{h: c.h.WithAttrs(a)}
}
func (c ctxAttrHandler) WithGroup(n string) slog.Handler {
	return ctxAttrHandler{h: c.h.WithGroup(n)}
}

// --- public API ---

// Init configures the process-wide logger for the given service name.
// ENV:
//
//	LOG_FORMAT    json|text (default: json)
//	LOG_LEVEL     debug|info|warn|error (default: info)
//	LOG_SOURCE    true|false (default: false)
func Init(svc string) {
	initWith(os.Stdout, svc)
}

func initWith(w io.Writer, svc string) {
	level := parseLevel(getEnv("LOG_LEVEL", "info"))
	addSource := parseBool(getEnv("LOG_SOURCE", "false"))
	format := strings.ToLower(getEnv("LOG_FORMAT", "json"))

	opts := &slog.HandlerOptions{Level: level, AddSource: addSource}

	var base slog.Handler
	if format == "text" {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}

	std = slog.New(ctxAttrHandler{h: base}).With("svc", svc)
	slog.SetDefault(std)

	// Repositories still log through the standard log package.
	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(base, slog.LevelInfo).Writer())
}

// --- small helpers ---

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func activeLogger() *slog.Logger {
	if std != nil {
		return std
	}
	return slog.Default()
}

// --- convenience wrappers ---

func Info(ctx context.Context, msg string, attrs ...any) {
	activeLogger().InfoContext(ctx, msg, attrs...)
}
func Warn(ctx context.Context, msg string, attrs ...any) {
	activeLogger().WarnContext(ctx, msg, attrs...)
}
func Error(ctx context.Context, msg string, attrs ...any) {
	activeLogger().ErrorContext(ctx, msg, attrs...)
}
func Debug(ctx context.Context, msg string, attrs ...any) {
	activeLogger().DebugContext(ctx, msg, attrs...)
}

func Infof(ctx context.Context, format string, a ...any) {
	activeLogger().InfoContext(ctx, fmt.Sprintf(format, a...))
}
func Errorf(ctx context.Context, format string, a ...any) {
	activeLogger().ErrorContext(ctx, fmt.Sprintf(format, a...))
}
func Warnf(ctx context.Context, format string, a ...any) {
	activeLogger().WarnContext(ctx, fmt.Sprintf(format, a...))
}
func Debugf(ctx context.Context, format string, a ...any) {
	activeLogger().DebugContext(ctx, fmt.Sprintf(format, a...))
}
