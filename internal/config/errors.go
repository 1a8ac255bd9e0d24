// internal/config/errors.go
//
// Loader error kinds.
//
// Context
// -------
// `Load` fails in exactly one of three stages and returns exactly one
// error.  Each kind carries the file path so the outermost message tells
// an operator which file to open, and each wraps its cause so `Chain` can
// print the full story top to bottom.
//
//   - ReadError   file missing, unreadable, or not UTF-8
//   - ParseError  not a syntactically valid TOML document
//   - ShapeError  valid TOML that does not match the schema
//
// All three satisfy `errors.Is` against the matching sentinel, so callers
// can branch on kind without a type switch.

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is.
var (
	ErrRead  = errors.New("config: read error")
	ErrParse = errors.New("config: parse error")
	ErrShape = errors.New("config: shape error")
)

// ErrNotUTF8 is the cause of a ReadError for files that are not valid
// UTF-8 text.
var ErrNotUTF8 = errors.New("stream did not contain valid UTF-8")

//
// ReadError
//

// ReadError reports that the file's bytes could not be obtained.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("Could not read configuration file: %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error        { return e.Err }
func (e *ReadError) Is(target error) bool { return target == ErrRead }

//
// ParseError
//

// ParseError reports a TOML syntax error.  Line and Column are 1-based and
// zero when the parser did not report a position.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse configuration file: %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error        { return e.Err }
func (e *ParseError) Is(target error) bool { return target == ErrParse }

//
// ShapeError
//

// ShapeError reports a schema mismatch.  Field is the dotted TOML path
// (e.g. "server.port").  It is empty only when the failure names no key,
// such as unknown keys at the document root under LoadStrict.
type ShapeError struct {
	Path  string
	Field string
	Err   error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("Failed to parse configuration file: %s: %v", e.Path, e.cause())
}

func (e *ShapeError) Unwrap() error        { return e.cause() }
func (e *ShapeError) Is(target error) bool { return target == ErrShape }

func (e *ShapeError) cause() error {
	if e.Field == "" {
		return e.Err
	}
	return &fieldError{field: e.Field, err: e.Err}
}

// fieldError is the "server.port: …" layer between a ShapeError and its
// root cause.
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string { return fmt.Sprintf("field `%s`: %v", e.field, e.err) }
func (e *fieldError) Unwrap() error { return e.err }

/*──────────────────────────── chain display ───────────────────────────────*/

// Chain splits err into its context layers, outermost first.  Each entry
// holds only the text that layer adds on top of its cause, which is how
// the entry point prints "Error:" followed by "Caused by:" lines.
func Chain(err error) []string {
	var out []string
	for err != nil {
		msg := err.Error()
		next := errors.Unwrap(err)
		if next != nil {
			msg = strings.TrimSuffix(msg, ": "+next.Error())
		}
		out = append(out, msg)
		err = next
	}
	return out
}
