package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used to colorize pretty log output. Styles are
// bound to a renderer for the handler's writer, so color is dropped when
// the writer is not a terminal.
type palette struct {
	key, str, num, yes, no, dur, when, null lipgloss.Style
	trace, debug, info, warn, fail          lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		when:  fg("4"),
		null:  fg("8"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		fail:  fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) string {
	s := strings.ToUpper(Level(l).String())

	switch {
	case l >= slog.LevelError:
		return p.fail.Render(s)
	case l >= slog.LevelWarn:
		return p.warn.Render(s)
	case l >= slog.LevelInfo:
		return p.info.Render(s)
	case l >= slog.LevelDebug:
		return p.debug.Render(s)
	default:
		return p.trace.Render(s)
	}
}

// field is an attribute captured by WithAttrs along with the groups that
// were open when it was added.
type field struct {
	attr   slog.Attr
	groups []string
}

// prettyHandler renders records either as colorized key=value pairs or as
// indented, colorized JSON-like objects. Nested groups are flattened into
// dotted keys in both forms.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    palette
	fields []field
	groups []string
	json   bool
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, json bool) *prettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &prettyHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
		pal:  makePalette(w),
		json: json,
	}
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return newPrettyHandler(w, opts, false)
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return newPrettyHandler(w, opts, true)
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.fields = make([]field, len(h.fields), len(h.fields)+len(attrs))
	copy(c.fields, h.fields)

	for _, a := range attrs {
		c.fields = append(c.fields, field{attr: a, groups: h.groups})
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	e := entry{pal: h.pal, json: h.json}

	if !r.Time.IsZero() {
		t := slog.Time(slog.TimeKey, r.Time)
		if h.opts.ReplaceAttr != nil {
			t = h.opts.ReplaceAttr(nil, t)
		}

		if t.Key != "" {
			e.raw(t.Key, h.pal.when.Render(timeText(t.Value)))
		}
	}

	e.raw(slog.LevelKey, h.pal.level(r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			e.raw(slog.SourceKey, h.pal.str.Render(src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	e.raw(slog.MessageKey, h.pal.str.Render(r.Message))

	for _, f := range h.fields {
		e.attr(f.groups, f.attr)
	}

	r.Attrs(func(a slog.Attr) bool {
		e.attr(h.groups, a)

		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(e.bytes())

	return err
}

func timeText(v slog.Value) string {
	if v.Kind() == slog.KindTime {
		return v.Time().Format(time.RFC3339)
	}

	return v.String()
}

// entry accumulates one rendered record.
type entry struct {
	buf  bytes.Buffer
	pal  palette
	n    int
	json bool
}

func (e *entry) raw(key, val string) {
	if e.json {
		if e.n == 0 {
			e.buf.WriteString("{\n")
		} else {
			e.buf.WriteString(",\n")
		}

		e.buf.WriteString("  ")
	} else if e.n > 0 {
		e.buf.WriteByte(' ')
	}

	e.n++

	e.buf.WriteString(e.pal.key.Render(key))

	if e.json {
		e.buf.WriteString(": ")
	} else {
		e.buf.WriteByte('=')
	}

	e.buf.WriteString(val)
}

func (e *entry) attr(groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, ga := range a.Value.Group() {
			e.attr(sub, ga)
		}

		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	e.raw(key, e.value(a.Value))
}

func (e *entry) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return e.pal.str.Render(v.String())
	case slog.KindInt64:
		return e.pal.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return e.pal.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return e.pal.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return e.pal.yes.Render("true")
		}

		return e.pal.no.Render("false")
	case slog.KindDuration:
		return e.pal.dur.Render(v.Duration().String())
	case slog.KindTime:
		return e.pal.when.Render(v.Time().Format(time.RFC3339))
	}

	switch x := v.Any().(type) {
	case nil:
		return e.pal.null.Render("null")
	case slog.Level:
		return e.pal.level(x)
	case error:
		return e.pal.no.Render(x.Error())
	default:
		return e.pal.str.Render(fmt.Sprint(x))
	}
}

func (e *entry) bytes() []byte {
	if e.json {
		if e.n == 0 {
			e.buf.WriteString("{")
		}

		e.buf.WriteString("\n}")
	}

	e.buf.WriteByte('\n')

	return e.buf.Bytes()
}
