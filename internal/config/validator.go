// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `bind` calls `validateDocument` right after the TOML tree has been
// decoded into the pointer-based document.  The rules live in struct tags
// on document.go:
//
//   - `required`  the key must be present (a nil pointer fails)
//   - `min`/`max` integer range of the target width
//   - `min=1`     non-empty text
//
// Field names are reported with their TOML keys, not Go names, so an
// operator sees `server.port` rather than `Server.Port`.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// Reasons attached to ShapeErrors produced by validation.
var (
	errMissing    = errors.New("missing required field")
	errOutOfRange = errors.New("integer out of range")
	errEmpty      = errors.New("must not be empty")
)

//
// public API
//

// validateDocument returns the first rule violation as a field path and a
// reason, or ("", nil) on success.
func validateDocument(d *document) (string, error) {
	err := v.Struct(d)
	if err == nil {
		return "", nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return "", err
	}
	fe := ves[0]
	return fieldPath(fe.Namespace()), reason(fe)
}

// fieldPath drops the root type name: "document.server.port" → "server.port".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func reason(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return errMissing
	case "min", "max":
		if fe.Kind() == reflect.String {
			return errEmpty
		}
		return fmt.Errorf("%w: %v", errOutOfRange, fe.Value())
	default:
		return fmt.Errorf("failed rule %q", fe.Tag())
	}
}
