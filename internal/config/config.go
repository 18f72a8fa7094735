// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default returns a configuration for a local node.
func Default() *Config {
	return &Config{
		NetworkID: "localnet",
		Endpoints: []string{"http://127.0.0.1:3030"},
	}
}

func (c *Config) FilePath() string { return c.file }

func (c *Config) LoadFrom(file string) error {
	dir, name := filepath.Split(file)
	if dir == "" {
		dir = "."
	}
	return c.LoadFromFS(os.DirFS(dir), name)
}

func (c *Config) LoadFromFS(fs fs.FS, file string) error {
	var format func([]byte, any) error
	switch s := filepath.Ext(file); s {
	case ".toml", ".tml", ".ini":
		format = toml.Unmarshal
	case ".yaml", ".yml":
		format = yaml.Unmarshal
	case ".json":
		format = json.Unmarshal
	default:
		return errors.BadRequest.WithFormat("unknown file type %s", s)
	}

	f, err := fs.Open(file)
	if err != nil {
		return errors.NotFound.WithFormat("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	b, err := io.ReadAll(f)
	if err != nil {
		return errors.UnknownError.WithFormat("read config: %w", err)
	}

	c.file = file
	c.fs = fs
	return c.Load(b, format)
}

// Load decodes the configuration and expands ${VAR} references if dot-env
// is set. It does not validate.
func (c *Config) Load(b []byte, format func([]byte, any) error) error {
	var v any
	err := format(b, &v)
	if err != nil {
		return errors.BadRequest.WithFormat("decode config: %w", err)
	}

	v = remap(v, kebab2camel, nil)
	b, err = json.Marshal(v)
	if err != nil {
		return errors.EncodingError.Wrap(err)
	}

	err = json.Unmarshal(b, c)
	if err != nil {
		return errors.BadRequest.WithFormat("decode config: %w", err)
	}

	return c.applyDotEnv()
}

func (c *Config) applyDotEnv() error {
	if c.DotEnv == nil || !*c.DotEnv {
		return nil
	}

	file := ".env"
	if c.file != "" {
		file = filepath.Join(filepath.Dir(c.file), file)
	}
	if c.fs == nil {
		c.fs = os.DirFS(".")
	}

	var expand func(name string) string
	var errs []error

	f, err := c.fs.Open(file)
	switch {
	case err == nil:
		defer func() { _ = f.Close() }()

		env, err := godotenv.Parse(f)
		if err != nil {
			return errors.BadRequest.WithFormat("parse %s: %w", file, err)
		}

		expand = func(name string) string {
			value, ok := env[name]
			if ok {
				return value
			}
			errs = append(errs, fmt.Errorf("%q is not defined", name))
			return fmt.Sprintf("#!MISSING(%q)", name)
		}

	case errors.Is(err, fs.ErrNotExist):
		// Only an error if something references a variable
		expand = func(name string) string {
			if len(errs) == 0 {
				errs = append(errs, err)
			}
			return fmt.Sprintf("#!MISSING(%q)", name)
		}

	default:
		return errors.UnknownError.Wrap(err)
	}

	expandEnv(reflect.ValueOf(c), expand)
	return errors.Join(errs...)
}

func (c *Config) SaveTo(file string) error {
	var format func(any) ([]byte, error)
	switch s := filepath.Ext(file); s {
	case ".toml", ".tml", ".ini":
		format = marshalTOML
	case ".yaml", ".yml":
		format = yaml.Marshal
	case ".json":
		format = func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	default:
		return errors.BadRequest.WithFormat("unknown file type %s", s)
	}

	b, err := c.Marshal(format)
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0600)
}

func marshalTOML(a any) ([]byte, error) {
	b := new(bytes.Buffer)
	err := toml.NewEncoder(b).Encode(a)
	return b.Bytes(), err
}

// Marshal encodes the configuration with kebab-case keys.
func (c *Config) Marshal(format func(any) ([]byte, error)) ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, errors.EncodingError.Wrap(err)
	}

	var v any
	err = json.Unmarshal(b, &v)
	if err != nil {
		return nil, errors.EncodingError.Wrap(err)
	}

	v = remap(v, camel2kebab, float2int)
	b, err = format(v)
	if err != nil {
		return nil, errors.EncodingError.Wrap(err)
	}
	return b, nil
}

func remap(v any, mapKey func(string) string, mapValue func(reflect.Value) any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		u := make([]any, rv.Len())
		for i := range u {
			u[i] = remap(rv.Index(i).Interface(), mapKey, mapValue)
		}
		return u

	case reflect.Map:
		u := make(map[string]any, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			u[mapKey(it.Key().String())] = remap(it.Value().Interface(), mapKey, mapValue)
		}
		return u

	default:
		if mapValue != nil {
			return mapValue(rv)
		}
		return v
	}
}

var reKebab = regexp.MustCompile(`-[a-z]`)
var reCamel = regexp.MustCompile(`[a-z][A-Z]+`)

func kebab2camel(s string) string {
	return reKebab.ReplaceAllStringFunc(s, func(s string) string {
		return strings.ToUpper(s[1:])
	})
}

func camel2kebab(s string) string {
	return strings.ToLower(reCamel.ReplaceAllStringFunc(s, func(s string) string {
		return s[:1] + "-" + s[1:]
	}))
}

func float2int(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		// JSON decodes every number as a float
		f := v.Float()
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case reflect.Invalid:
		return nil
	default:
		return v.Interface()
	}
}

func expandEnv(v reflect.Value, expand func(string) string) {
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(os.Expand(v.String(), expand))
		}

	case reflect.Pointer, reflect.Interface:
		expandEnv(v.Elem(), expand)

	case reflect.Slice, reflect.Array:
		for i, n := 0, v.Len(); i < n; i++ {
			expandEnv(v.Index(i), expand)
		}

	case reflect.Struct:
		typ := v.Type()
		for i, n := 0, typ.NumField(); i < n; i++ {
			if typ.Field(i).IsExported() {
				expandEnv(v.Field(i), expand)
			}
		}
	}
}
