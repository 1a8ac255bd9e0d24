// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load(path)` turns one TOML file into one immutable `*Config`.  The work is
strictly linear; each stage either hands off to the next or returns the
single error that ends the load:

  1. Read     koanf file provider, then a UTF-8 check      → ReadError
  2. Parse    koanf rawbytes provider + TOML parser         → ParseError
  3. Bind     koanf → mapstructure → validator on document  → ShapeError
  4. Default  nil leaves replaced by schema defaults        → *Config

Nothing else is consulted: no environment overlay, no working-directory
discovery, no clock.  The same bytes always yield the same Config.

Unknown keys
------------
`Load` ignores keys the schema does not name, at any depth, so newer
documents keep loading on older binaries.  `LoadStrict` is the separate
variant that rejects them.

Instrumentation
---------------
  - DEBUG spans for each completed stage.
  - ERROR span on failure with the stage and path.
  - Logs go through the global sugared logger (`zap.S()`), which is a
    no-op until the entry point installs the real one.
*/
package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"unicode/utf8"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	koanf "github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

/*─────────────────────────────── loaders ──────────────────────────────────*/

// Load reads, parses, binds, and defaults the TOML document at path.
// Unknown keys are ignored.
func Load(path string) (*Config, error) {
	return load(path, false)
}

// LoadStrict behaves like Load but fails with a ShapeError when the
// document contains keys the schema does not name.
func LoadStrict(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, strict bool) (*Config, error) {
	raw, err := read(path)
	if err != nil {
		zap.S().Errorw("config read failed", "file", path, "err", err)
		return nil, err
	}
	zap.S().Debugw("config file read", "file", path, "bytes", len(raw))

	k, err := parse(path, raw)
	if err != nil {
		zap.S().Errorw("config parse failed", "file", path, "err", err)
		return nil, err
	}
	zap.S().Debugw("config parsed", "file", path, "keys", len(k.Keys()))

	doc, err := bind(path, k, strict)
	if err != nil {
		zap.S().Errorw("config bind failed", "file", path, "err", err)
		return nil, err
	}

	cfg := doc.toConfig()
	zap.S().Debugw("config defaults applied", "file", path)
	return cfg, nil
}

/*──────────────────────────────── stages ──────────────────────────────────*/

func read(path string) ([]byte, error) {
	b, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if !utf8.Valid(b) {
		return nil, &ReadError{Path: path, Err: ErrNotUTF8}
	}
	return b, nil
}

func parse(path string, raw []byte) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(raw), toml.Parser()); err != nil {
		pe := &ParseError{Path: path, Err: err}
		var de *gotoml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return nil, pe
	}
	return k, nil
}

func bind(path string, k *koanf.Koanf, strict bool) (*document, error) {
	var doc document
	err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       rejectFloatToInt,
			ErrorUnused:      strict,
			WeaklyTypedInput: false,
			Result:           &doc,
		},
	})
	if err != nil {
		return nil, &ShapeError{Path: path, Field: decodeField(err), Err: err}
	}

	if field, err := validateDocument(&doc); err != nil {
		return nil, &ShapeError{Path: path, Field: field, Err: err}
	}
	return &doc, nil
}

/*──────────────────────────── decode hooks ────────────────────────────────*/

// rejectFloatToInt stops mapstructure from truncating `port = 80.5` into
// 80.  TOML integers arrive as int64 and pass through untouched.
var rejectFloatToInt mapstructure.DecodeHookFuncType = func(from, to reflect.Type, data any) (any, error) {
	for to.Kind() == reflect.Pointer {
		to = to.Elem()
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if k := from.Kind(); k == reflect.Float32 || k == reflect.Float64 {
			return nil, fmt.Errorf("expected an integer, found float %v", data)
		}
	}
	return data, nil
}

// decodeKey matches the quoted dotted key mapstructure puts first in its
// messages, e.g. `'server.port' expected type 'int64'` or
// `error decoding 'server.port': …`.
var decodeKey = regexp.MustCompile(`'([A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)*)'`)

// decodeField extracts the TOML path a mapstructure error is about, or ""
// when the error names none (unknown keys at the root).
func decodeField(err error) string {
	m := decodeKey.FindStringSubmatch(err.Error())
	if m == nil {
		return ""
	}
	return m[1]
}
