// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggingCtxAttrs(t *testing.T) {
	var records records
	logger := slog.New(&moduleHandler{
		handler:      handler{&records},
		defaultLevel: slog.LevelDebug,
		lowestLevel:  slog.LevelDebug,
	})

	ctx := With(context.Background(), "foo", "bar")
	logger.InfoContext(ctx, "Hello world")

	require.Len(t, records, 1)
	r := records[0]
	require.Equal(t, "Hello world", r.Message)

	var foo *slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "foo" {
			foo = &a
		}
		return foo == nil
	})
	require.NotNil(t, foo)
	require.Equal(t, "bar", foo.Value.String())
}

func TestWithDoesNotAlias(t *testing.T) {
	base := With(context.Background(), "a", 1)
	c1 := With(base, "b", 2)
	c2 := With(base, "c", 3)
	require.Len(t, Attrs(base), 1)
	require.Equal(t, "b", Attrs(c1)[1].Key)
	require.Equal(t, "c", Attrs(c2)[1].Key)
}

func TestParseRules(t *testing.T) {
	rules, err := ParseRules("info;submit=debug;*=warn")
	require.NoError(t, err)
	require.Equal(t, []Rule{
		{Level: slog.LevelInfo},
		{Module: "submit", Level: slog.LevelDebug},
		{Level: slog.LevelWarn},
	}, rules)

	_, err = ParseRules("submit=loud")
	require.Error(t, err)
}

func TestModuleLevels(t *testing.T) {
	buf := new(bytes.Buffer)
	h, err := NewHandler(Options{
		Format: "json",
		Out:    buf,
		Rules: []Rule{
			{Level: slog.LevelWarn},
			{Module: "submit", Level: slog.LevelDebug},
		},
	})
	require.NoError(t, err)
	logger := slog.New(h)

	logger.Debug("Dropped", "module", "nonce")
	logger.Debug("Kept", "module", "submit")
	logger.Warn("Also kept", "module", "nonce")
	logger.With("module", "submit").Debug("Kept by attrs")

	// A module attribute carried by the context counts too
	logger.DebugContext(With(context.Background(), "module", "submit"), "Kept by context")

	var messages []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &v))
		messages = append(messages, v["msg"].(string))
	}
	require.Equal(t, []string{"Kept", "Also kept", "Kept by attrs", "Kept by context"}, messages)
}

func TestPlainLogging(t *testing.T) {
	buf := new(bytes.Buffer)
	h, err := NewHandler(Options{
		Out:     buf,
		NoColor: true,
		Rules:   []Rule{{Level: slog.LevelDebug}},
	})
	require.NoError(t, err)

	slog.New(h).Info("Hello world", "module", "submit")
	require.Contains(t, buf.String(), "INFO Hello world")
	require.Contains(t, buf.String(), "module=submit")
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := NewHandler(Options{Format: "xml"})
	require.Error(t, err)
}

type records []slog.Record

func (*records) Enabled(context.Context, slog.Level) bool { return true }

func (r *records) Handle(_ context.Context, record slog.Record) error {
	*r = append(*r, record)
	return nil
}

// handler adds WithAttrs and WithGroup to a bare record sink.
type handler struct {
	justHandler
}

type justHandler interface {
	Handle(context.Context, slog.Record) error
}

func (h handler) Enabled(context.Context, slog.Level) bool { return true }
func (h handler) WithAttrs(attrs []slog.Attr) slog.Handler { return &attrHandler{h, attrs} }
func (h handler) WithGroup(name string) slog.Handler       { return h }

type attrHandler struct {
	slog.Handler
	attrs []slog.Attr
}

func (h *attrHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.attrs...)
	return h.Handler.Handle(ctx, r)
}
