// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

// TestLogger writes each record to the test log.
type TestLogger struct {
	Test testing.TB
}

var _ io.Writer = (*TestLogger)(nil)

func (l *TestLogger) Write(b []byte) (int, error) {
	l.Test.Helper()
	l.Test.Log(strings.TrimSuffix(string(b), "\n"))
	return len(b), nil
}

// NewTestLogger returns a logger that writes to the test log. levels is a
// rule specification for [ParseRules].
func NewTestLogger(t testing.TB, levels string) *slog.Logger {
	rules, err := ParseRules(levels)
	if err != nil {
		t.Fatal(err)
	}
	h, err := NewHandler(Options{
		Format:  "text",
		Rules:   rules,
		Out:     &TestLogger{Test: t},
		NoColor: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return slog.New(h)
}
