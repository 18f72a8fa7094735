// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"context"
	"log/slog"
)

type attrsKey struct{}

// WithAttrs returns a context that carries attrs in addition to the
// attributes of ctx. Records logged with the context include them.
func WithAttrs(ctx context.Context, attrs []slog.Attr) context.Context {
	old := Attrs(ctx)
	v := make([]slog.Attr, 0, len(old)+len(attrs))
	v = append(v, old...)
	v = append(v, attrs...)
	return context.WithValue(ctx, attrsKey{}, v)
}

// Attrs returns the attributes carried by ctx.
func Attrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return v
}

// With is [WithAttrs] with key-value pairs, parsed the way [slog.Logger.With]
// parses them.
func With(ctx context.Context, args ...any) context.Context {
	return WithAttrs(ctx, slog.Group("", args...).Value.Group())
}
