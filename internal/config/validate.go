// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"fmt"
	"reflect"

	"github.com/Olovorr/near-api-js-ext/internal/logging"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that knows the config's custom tags.
func NewValidator() (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation("log-rules", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			panic(fmt.Errorf("%q is not a string", fl.FieldName()))
		}

		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := logging.ParseRules(s)
		return err == nil
	})
	return v, err
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	v, err := NewValidator()
	if err != nil {
		return errors.InternalError.Wrap(err)
	}

	err = v.Struct(c)
	if err == nil {
		if c.Submit.MaxDelay != 0 && c.Submit.MaxDelay < c.Submit.BaseDelay {
			return errors.BadRequest.With("submit max-delay is less than base-delay")
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.BadRequest.Wrap(err)
	}
	errs := make([]error, len(verrs))
	for i, e := range verrs {
		errs[i] = fmt.Errorf("%s: failed %q", e.Namespace(), e.Tag())
	}
	return errors.BadRequest.WithFormat("invalid config: %w", errors.Join(errs...))
}
