// Package schema provides JSON Schema values and validation for the
// supplemental-data pipeline.
//
// Schemas are plain map values produced by pure builder functions and never
// mutated after construction. They serve double duty: validation at the
// router boundary, and documentation of the wire contract (clients discover
// the legal edit shape per question/action from these exact values).
package schema

import (
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Schema is a JSON Schema document as a plain Go value.
//
// Values must contain only types produced by JSON decoding: map[string]any,
// []any, string, bool, and numbers. Builders in this module construct
// schemas directly; nothing mutates a Schema after it is returned.
type Schema map[string]any

// Timestamp is the layout for all metadata timestamps: UTC, millisecond
// precision, trailing Z. Matches the JavaScript Date#toISOString shape that
// stored documents have always used.
const Timestamp = "2006-01-02T15:04:05.000Z"

// ValidationError reports an instance that failed schema validation.
//
// Path is a JSON-pointer-style location of the offending value within the
// instance ("/" for the root). Message is the evaluator's description of the
// failed keyword.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed at %s: %s", e.Path, e.Message)
}

// IsValidationError returns true if err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Compile compiles a Schema into an evaluator.
//
// All schemas in this module are authored against draft 2020-12, the
// compiler's default dialect.
func Compile(s Schema) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", map[string]any(s)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}

// Validate checks doc against s and converts any failure into a
// *ValidationError carrying the deepest failing path.
//
// A schema that does not compile is a programming error in the action that
// built it, and is reported as a distinct wrapped error rather than a
// ValidationError.
func Validate(s Schema, doc any) error {
	compiled, err := Compile(s)
	if err != nil {
		return err
	}
	if err := compiled.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepest(ve)
			return &ValidationError{
				Path:    pointer(leaf.InstanceLocation),
				Message: leaf.ErrorKind.LocalizedString(errPrinter),
			}
		}
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

var errPrinter = message.NewPrinter(language.English)

// deepest follows the first cause chain to the most specific failure.
// The evaluator reports a tree; the first leaf is the most useful single
// message for a client.
func deepest(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

func pointer(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	p := ""
	for _, s := range segments {
		p += "/" + s
	}
	return p
}
