package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

type Logger interface {
	With(fields map[string]any) Logger

	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// sink es lo que comparten un logger y todos sus hijos de With.
type sink struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	format Format
	now    func() time.Time
}

// StdLogger escribe una línea por evento (texto key=value o JSON).
type StdLogger struct {
	sink   *sink
	fields map[string]any
}

type Options struct {
	Level  Level
	Format Format
	App    string

	// Output por defecto es os.Stdout.
	Output io.Writer

	// Now se usa en tests para fijar "ts".
	Now func() time.Time
}

func New(opts Options) Logger {
	s := &sink{
		out:    opts.Output,
		level:  opts.Level,
		format: opts.Format,
		now:    opts.Now,
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.format == "" {
		s.format = FormatText
	}
	if s.now == nil {
		s.now = time.Now
	}

	fields := map[string]any{}
	if app := strings.TrimSpace(opts.App); app != "" {
		fields["app"] = app
	}
	return &StdLogger{sink: s, fields: fields}
}

// Discard no escribe nada; lo usan tests y el router cuando no recibe logger.
func Discard() Logger {
	return New(Options{Level: Error + 1, Output: io.Discard})
}

func (l *StdLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	merged := maps.Clone(l.fields)
	addFields(merged, fields)
	return &StdLogger{sink: l.sink, fields: merged}
}

func (l *StdLogger) Debug(msg string, fields map[string]any) { l.log(Debug, msg, fields) }
func (l *StdLogger) Info(msg string, fields map[string]any)  { l.log(Info, msg, fields) }
func (l *StdLogger) Warn(msg string, fields map[string]any)  { l.log(Warn, msg, fields) }
func (l *StdLogger) Error(msg string, fields map[string]any) { l.log(Error, msg, fields) }

func (l *StdLogger) log(lvl Level, msg string, fields map[string]any) {
	s := l.sink
	if lvl < s.level {
		return
	}

	extra := maps.Clone(l.fields)
	addFields(extra, fields)

	var line string
	ts := s.now().UTC().Format(time.RFC3339Nano)
	if s.format == FormatJSON {
		entry := maps.Clone(extra)
		entry["ts"] = ts
		entry["level"] = lvl.String()
		entry["msg"] = msg
		b, err := json.Marshal(entry)
		if err != nil {
			b, _ = json.Marshal(map[string]any{"ts": ts, "level": lvl.String(), "msg": msg, "log_error": err.Error()})
		}
		line = string(b)
	} else {
		line = formatText(ts, lvl, msg, extra)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.out, line+"\n")
}

func addFields(dst, src map[string]any) {
	for k, v := range src {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if err, ok := v.(error); ok {
			// json.Marshal de un error da "{}"
			v = err.Error()
		}
		dst[k] = v
	}
}

// formatText: ts, level y msg primero; el resto ordenado por key.
func formatText(ts string, lvl Level, msg string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString("ts=" + ts)
	b.WriteString(" level=" + lvl.String())
	b.WriteString(" msg=" + quote(msg))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		b.WriteString(" " + k + "=" + quote(fmt.Sprint(fields[k])))
	}
	return b.String()
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

type ctxKey struct{}

// Into guarda un logger en el contexto (el middleware de request lo hace con request_id).
func Into(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From devuelve el logger del contexto, o fallback si no hay.
func From(ctx context.Context, fallback Logger) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	if fallback == nil {
		return Discard()
	}
	return fallback
}
