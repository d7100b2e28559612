package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// jsonLogger returns an unpretty JSON logger writing to a fresh buffer.
func jsonLogger(opts ...Option) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer

	return Make(&buf, append([]Option{WithFormat(FormatJSON), WithPretty(false)}, opts...)...), &buf
}

// records decodes one JSON object per line of buf.
func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for line := range strings.Lines(buf.String()) {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}

		out = append(out, rec)
	}

	return out
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		min  Level
		want []string
	}{
		{LevelTrace, []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{LevelInfo, []string{"INFO", "WARN", "ERROR"}},
		{LevelError, []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.min.String(), func(t *testing.T) {
			logger, buf := jsonLogger(WithLevel(tt.min))

			logger.Trace("t")
			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")
			logger.Error("e")

			recs := records(t, buf)
			if len(recs) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(recs), len(tt.want))
			}

			for i, rec := range recs {
				if rec["level"] != tt.want[i] {
					t.Errorf("record %d level = %v, want %s", i, rec["level"], tt.want[i])
				}
			}

			if got := logger.Level(); got != tt.min {
				t.Errorf("Level() = %v, want %v", got, tt.min)
			}
		})
	}
}

func TestLogger_ContextMethods(t *testing.T) {
	logger, buf := jsonLogger(WithLevel(LevelTrace))
	ctx := context.Background()

	for _, fn := range []func(context.Context, string, ...slog.Attr){
		logger.TraceContext,
		logger.DebugContext,
		logger.InfoContext,
		logger.WarnContext,
		logger.ErrorContext,
	} {
		fn(ctx, "ctx", slog.Int("n", 1))
	}

	recs := records(t, buf)
	if len(recs) != 5 {
		t.Fatalf("got %d records, want 5", len(recs))
	}

	for _, rec := range recs {
		if rec["msg"] != "ctx" || rec["n"] != float64(1) {
			t.Errorf("record = %v", rec)
		}
	}
}

func TestLogger_Caller(t *testing.T) {
	logger, buf := jsonLogger(WithCaller(true))
	logger.Info("where")

	src, ok := records(t, buf)[0]["source"].(map[string]any)
	if !ok {
		t.Fatalf("missing source in %q", buf.String())
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %q, want this file", file)
	}
}

func TestLogger_TimeOmitted(t *testing.T) {
	logger, buf := jsonLogger(WithTimeLayout("none"))
	logger.Info("timeless")

	if _, ok := records(t, buf)[0]["time"]; ok {
		t.Errorf("time present in %q", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	base, buf := jsonLogger()
	text := base.Wrap(WithFormat(FormatText))

	if base.Format() != FormatJSON || text.Format() != FormatText {
		t.Fatalf("formats = %v, %v", base.Format(), text.Format())
	}

	text.Info("plain", slog.String("k", "v"))

	if out := buf.String(); !strings.Contains(out, "msg=plain") || !strings.Contains(out, "k=v") {
		t.Errorf("wrapped output = %q", out)
	}
}

func TestLogger_With(t *testing.T) {
	base, buf := jsonLogger()
	scoped := base.With(slog.String("script", "main.snek"))

	scoped.Info("bound")
	base.Info("unbound")

	recs := records(t, buf)
	if recs[0]["script"] != "main.snek" {
		t.Errorf("bound record = %v", recs[0])
	}

	if _, ok := recs[1]["script"]; ok {
		t.Errorf("With changed the original logger: %v", recs[1])
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var logger Logger

	logger.Info("dropped")
	logger.ErrorContext(context.Background(), "dropped")

	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Error("zero logger did not report defaults")
	}

	if w := logger.Wrap(WithLevel(LevelError)); w.Logger != nil {
		t.Error("Wrap of zero logger produced a live logger")
	}

	if w := logger.With(slog.Bool("x", true)); w.Logger != nil {
		t.Error("With of zero logger produced a live logger")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	logger, buf := jsonLogger()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	// the handler serializes writes, the buffer does not
	safe := logger.Wrap(WithOutput(writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()

		return buf.Write(p)
	})))

	for i := range 20 {
		wg.Go(func() {
			safe.With(slog.Int("worker", i)).Info("tick")
			_ = safe.Level()
		})
	}

	wg.Wait()

	if n := len(records(t, buf)); n != 20 {
		t.Errorf("got %d records, want 20", n)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func BenchmarkLogger_Info(b *testing.B) {
	logger := Make(nil, WithFormat(FormatJSON), WithPretty(false))

	for b.Loop() {
		logger.Info("bench", slog.String("k", "v"))
	}
}

func BenchmarkLogger_Info_Pretty(b *testing.B) {
	logger := Make(nil, WithFormat(FormatText), WithCaller(true))

	for b.Loop() {
		logger.Info("bench", slog.Int("n", 42))
	}
}
