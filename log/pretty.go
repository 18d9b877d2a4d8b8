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
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler holds the state shared by the colorized handlers: options,
// the output writer and its lock, plus attributes and group prefix
// accumulated through WithAttrs and WithGroup.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	prefix     string
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	qualified := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	qualified = append(qualified, h.attrs...)

	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		qualified = append(qualified, a)
	}

	h.attrs = qualified

	return h
}

func (h prettyHandler) withGroup(name string) prettyHandler {
	if name != "" {
		h.prefix += name + "."
	}

	return h
}

// fields flattens the record into an ordered attribute list: time, level,
// source, message, then handler attributes and record attributes.
func (h *prettyHandler) fields(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if s := h.formatTime(r.Time); s != "" {
			out = append(out, slog.String(slog.TimeKey, s))
		}
	}

	out = append(out, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			out = append(out,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	out = append(out, slog.String(slog.MessageKey, r.Message))
	out = append(out, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		a.Key = h.prefix + a.Key
		out = append(out, a)

		return true
	})

	return out
}

func (h *prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for _, a := range h.fields(r) {
		writeTextAttr(&buf, "", a)
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func writeTextAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			writeTextAttr(buf, prefix+a.Key+".", ga)
		}

		return
	}

	if a.Key == "" {
		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(colorGray)
	buf.WriteString(prefix + a.Key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')
	writeColorValue(buf, v, false)
}

// prettyJSONHandler writes an indented, colorized JSON-like object per
// record.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{")
	writeJSONAttrs(&buf, h.fields(r), 1)
	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func writeJSONAttrs(buf *bytes.Buffer, attrs []slog.Attr, depth int) {
	indent := strings.Repeat("  ", depth)
	first := true

	for _, a := range attrs {
		if a.Key == "" {
			continue
		}

		if !first {
			buf.WriteByte(',')
		}

		first = false

		buf.WriteByte('\n')
		buf.WriteString(indent)
		buf.WriteString(colorGray)
		buf.WriteString(strconv.Quote(a.Key))
		buf.WriteString(colorReset)
		buf.WriteString(": ")

		v := a.Value.Resolve()
		if v.Kind() == slog.KindGroup {
			buf.WriteString("{")
			writeJSONAttrs(buf, v.Group(), depth+1)
			buf.WriteString("\n" + indent + "}")

			continue
		}

		writeColorValue(buf, v, true)
	}
}

func writeColorValue(buf *bytes.Buffer, v slog.Value, quote bool) {
	str := func(s string) string {
		if quote {
			return strconv.Quote(s)
		}

		return s
	}

	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(colorCyan + str(v.String()) + colorReset)

	case slog.KindInt64:
		buf.WriteString(colorYellow + strconv.FormatInt(v.Int64(), 10) + colorReset)

	case slog.KindUint64:
		buf.WriteString(colorYellow + strconv.FormatUint(v.Uint64(), 10) + colorReset)

	case slog.KindFloat64:
		buf.WriteString(colorYellow + strconv.FormatFloat(v.Float64(), 'g', -1, 64) + colorReset)

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(colorGreen + "true" + colorReset)
		} else {
			buf.WriteString(colorRed + "false" + colorReset)
		}

	case slog.KindDuration:
		buf.WriteString(colorMagenta + str(v.Duration().String()) + colorReset)

	case slog.KindTime:
		buf.WriteString(colorBlue + str(v.Time().String()) + colorReset)

	default:
		if level, ok := v.Any().(slog.Level); ok {
			var color string

			switch {
			case level >= slog.LevelError:
				color = colorRed
			case level >= slog.LevelWarn:
				color = colorYellow
			case level >= slog.LevelInfo:
				color = colorGreen
			default:
				color = colorBlue
			}

			name := strings.ToUpper(Level(level).String())
			buf.WriteString(color + str(name) + colorReset)

			return
		}

		if v.Any() == nil {
			buf.WriteString(colorGray + "null" + colorReset)

			return
		}

		buf.WriteString(colorCyan + str(fmt.Sprint(v.Any())) + colorReset)
	}
}
