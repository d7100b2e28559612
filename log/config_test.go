package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestOptions(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name  string
		opt   Option
		check func(config) bool
	}{
		{"level", WithLevel(LevelTrace), func(c config) bool { return c.level == LevelTrace }},
		{"format", WithFormat(FormatText), func(c config) bool { return c.format == FormatText }},
		{"caller", WithCaller(true), func(c config) bool { return c.caller }},
		{"pretty", WithPretty(false), func(c config) bool { return !c.pretty }},
		{"output", WithOutput(&buf), func(c config) bool { return c.output == &buf }},
		{"nil_output", WithOutput(nil), func(c config) bool { return c.output != nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// both a zero config and a locked one
			for _, base := range []config{{}, makeConfig(nil)} {
				if c := tt.opt(base); !tt.check(c) {
					t.Errorf("option not applied to %+v", c)
				}
			}
		})
	}
}

func TestMakeConfig_Defaults(t *testing.T) {
	c := makeConfig(nil)

	if c.level != DefaultLevel || c.format != DefaultFormat ||
		c.caller != DefaultCaller || c.pretty != DefaultPretty {
		t.Errorf("makeConfig(nil) = %+v, want defaults", c)
	}

	if c.output == nil {
		t.Error("makeConfig(nil) left output nil")
	}
}

func TestClone_Independent(t *testing.T) {
	a := makeConfig(nil)
	b := a.clone(WithLevel(LevelError))

	if a.mutex == b.mutex {
		t.Error("clone shares mutex")
	}

	if a.level == b.level {
		t.Error("clone option changed the original")
	}
}

func TestHandler_Kinds(t *testing.T) {
	tests := []struct {
		format Format
		pretty bool
		want   string
	}{
		{FormatJSON, false, `"msg":"hi"`},
		{FormatText, false, "msg=hi"},
		{FormatText, true, "msg=hi"},
		{FormatJSON, true, "msg: hi"},
	}

	for _, tt := range tests {
		t.Run(tt.format.String()+map[bool]string{true: "_pretty"}[tt.pretty], func(t *testing.T) {
			var buf bytes.Buffer

			h := makeConfig(&buf, WithFormat(tt.format), WithPretty(tt.pretty), WithTimeLayout("")).handler()
			slog.New(h).Info("hi")

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestHandler_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	h := makeConfig(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false)).handler()
	slog.New(h).Log(t.Context(), slog.Level(LevelTrace), "deep")

	if !strings.Contains(buf.String(), `"level":"TRACE"`) {
		t.Errorf("output = %q, want TRACE level", buf.String())
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"named", "RFC3339", "2023-10-15T14:30:45Z"},
		{"named_nano", "rfc-3339-nano", "2023-10-15T14:30:45.123456789Z"},
		{"short", "ms", "Oct 15 14:30:45.123"},
		{"datetime", "DateTime", "2023-10-15 14:30:45"},
		{"custom_verbatim", "  2006-01-02", "  2023-10-15"},
		{"unknown_verbatim", "UNKNOWN_FORMAT", "UNKNOWN_FORMAT"},
		{"empty", "", ""},
		{"whitespace", "  \t ", ""},
		{"none", "None", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(now); got != tt.want {
				t.Errorf("format(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func BenchmarkFormatTime(b *testing.B) {
	format := makeFormatTimeFunc("RFC3339Nano")
	now := time.Now()

	for b.Loop() {
		_ = format(now)
	}
}
