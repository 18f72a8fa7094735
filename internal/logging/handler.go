// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/rs/zerolog"
)

// Rule sets the level of a module. An empty module sets the default level.
type Rule struct {
	Module string     `json:"module,omitempty" toml:"module,omitempty" yaml:"module,omitempty"`
	Level  slog.Level `json:"level" toml:"level" yaml:"level"`
}

// Options configures [NewHandler].
type Options struct {
	// Format is text (or plain) or json.
	Format string

	// Rules sets the default and per-module levels. The default level is
	// error if no rule sets it.
	Rules []Rule

	// Out is where records are written. Defaults to stderr.
	Out io.Writer

	// NoColor disables color in text output.
	NoColor bool
}

// ParseRules parses a level specification such as "info;submit=debug". A
// bare level or "*=level" sets the default.
func ParseRules(s string) ([]Rule, error) {
	var rules []Rule
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' }) {
		module, level, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			module, level = "", module
		}
		if module == "*" {
			module = ""
		}

		var l slog.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return nil, errors.BadRequest.WithFormat("invalid log level %q: %w", level, err)
		}
		rules = append(rules, Rule{Module: module, Level: l})
	}
	return rules, nil
}

// NewHandler creates a handler that filters records by the level of their
// module attribute and adds the attributes carried by the context.
func NewHandler(opts Options) (slog.Handler, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	defaultLevel := slog.LevelError
	lowestLevel := defaultLevel
	modules := map[string]slog.Level{}
	for _, r := range opts.Rules {
		if r.Module == "" {
			defaultLevel = r.Level
		} else {
			modules[strings.ToLower(r.Module)] = r.Level
		}
		if r.Level < lowestLevel {
			lowestLevel = r.Level
		}
	}

	ho := &slog.HandlerOptions{Level: lowestLevel}

	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text", "plain":
		// zerolog's console writer renders the JSON records
		ho.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.MessageKey {
				return a
			}
			if a.Value.Kind() == slog.KindString {
				return slog.Any(zerolog.MessageFieldName, a.Value)
			}
			return slog.String(zerolog.MessageFieldName, fmt.Sprint(a.Value.Any()))
		}
		h = slog.NewJSONHandler(NewConsoleWriter(out, opts.NoColor), ho)

	case "json":
		h = slog.NewJSONHandler(out, ho)

	default:
		return nil, errors.BadRequest.WithFormat("log format %q is not supported", opts.Format)
	}

	return &moduleHandler{
		handler:      h,
		defaultLevel: defaultLevel,
		lowestLevel:  lowestLevel,
		modules:      modules,
	}, nil
}

// NewConsoleWriter returns a zerolog console writer with upper case levels.
func NewConsoleWriter(w io.Writer, noColor bool) *zerolog.ConsoleWriter {
	return &zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			if ll, ok := i.(string); ok {
				return strings.ToUpper(ll)
			}
			return "????"
		},
		FormatMessage: func(i interface{}) string {
			s, ok := i.(string)
			if ok {
				return s
			}
			return fmt.Sprint(i)
		},
	}
}

type moduleHandler struct {
	handler      slog.Handler
	defaultLevel slog.Level
	lowestLevel  slog.Level
	modules      map[string]slog.Level

	// module is set when a module attribute was attached with WithAttrs
	module *slog.Level
}

func (h *moduleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	i := *h
	i.handler = h.handler.WithAttrs(attrs)
	if l, ok := h.moduleLevel(attrsFunc(attrs)); ok {
		i.module = &l
	}
	return &i
}

func (h *moduleHandler) WithGroup(name string) slog.Handler {
	i := *h
	i.handler = h.handler.WithGroup(name)
	return &i
}

func (h *moduleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < h.lowestLevel {
		return false
	}
	if h.module != nil && level < *h.module {
		return false
	}
	return h.handler.Enabled(ctx, level)
}

func (h *moduleHandler) Handle(ctx context.Context, record slog.Record) error {
	attrs := Attrs(ctx)

	level, ok := h.moduleLevel(record.Attrs)
	if !ok {
		level, ok = h.moduleLevel(attrsFunc(attrs))
	}
	switch {
	case ok:
	case h.module != nil:
		level = *h.module
	default:
		level = h.defaultLevel
	}
	if record.Level < level {
		return nil
	}

	if len(attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(attrs...)
	}
	return h.handler.Handle(ctx, record)
}

// moduleLevel returns the level of the first module attribute that has a
// rule.
func (h *moduleHandler) moduleLevel(each func(func(slog.Attr) bool)) (slog.Level, bool) {
	var level slog.Level
	var found bool
	each(func(a slog.Attr) bool {
		if a.Key != "module" {
			return true
		}
		level, found = h.modules[strings.ToLower(a.Value.String())]
		return false
	})
	return level, found
}

func attrsFunc(attrs []slog.Attr) func(func(slog.Attr) bool) {
	return func(fn func(slog.Attr) bool) {
		for _, a := range attrs {
			if !fn(a) {
				return
			}
		}
	}
}
