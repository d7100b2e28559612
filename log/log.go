package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Logger is a leveled structured logger safe for concurrent use.
//
// The zero Logger drops every message, so a struct holding a Logger field
// can be used without configuring one.
type Logger struct {
	*slog.Logger
	config
}

// Make returns a Logger writing to w. Without options it uses
// [DefaultFormat], [DefaultLevel] and [DefaultTimeLayout] and omits the
// caller.
func Make(w io.Writer, opts ...Option) Logger {
	return fromConfig(makeConfig(w, opts...), nil)
}

// fromConfig builds a Logger around cfg. A non-nil h replaces the handler
// cfg would build, which keeps attributes bound by [Logger.With].
func fromConfig(cfg config, h slog.Handler) Logger {
	if h == nil {
		h = cfg.handler()
	}

	return Logger{Logger: slog.New(h), config: cfg}
}

// snapshot copies the configuration under the read lock.
func (l Logger) snapshot(opts ...Option) config {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.clone(opts...)
}

// Wrap returns a copy of l with opts applied on top of its configuration.
// Attributes bound with [Logger.With] are not carried over.
func (l Logger) Wrap(opts ...Option) Logger {
	if l.Logger == nil {
		return l
	}

	return fromConfig(l.snapshot(opts...), nil)
}

// With returns a copy of l that adds attrs to every message.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}

	return fromConfig(l.snapshot(), l.Handler().WithAttrs(attrs))
}

// Level reports the minimum level l writes.
func (l Logger) Level() Level {
	if l.Logger == nil || l.mutex == nil {
		return DefaultLevel
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.level
}

// Format reports the output format of l.
func (l Logger) Format() Format {
	if l.Logger == nil || l.mutex == nil {
		return DefaultFormat
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.format
}

// Trace and its siblings log msg at the named level with the default context.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelTrace, msg, attrs)
}

func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelDebug, msg, attrs)
}

func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelInfo, msg, attrs)
}

func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelWarn, msg, attrs)
}

func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelError, msg, attrs)
}

// TraceContext and its siblings log msg at the named level with ctx.
func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelTrace, msg, attrs)
}

func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelDebug, msg, attrs)
}

func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelInfo, msg, attrs)
}

func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelWarn, msg, attrs)
}

func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelError, msg, attrs)
}

// emit must be called directly by an exported method so the caller frame
// recorded for [WithCaller] is the method's caller.
func (l Logger) emit(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if l.Logger == nil {
		return
	}

	if l.mutex != nil {
		l.mutex.RLock()
		defer l.mutex.RUnlock()
	}

	if !l.Enabled(ctx, slog.Level(level)) {
		return
	}

	// runtime.Callers, emit, exported method
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])
	r.AddAttrs(attrs...)

	_ = l.Handler().Handle(ctx, r)
}
