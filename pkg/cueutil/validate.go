// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ValidateData validates an already-decoded Go value against a CUE schema
// definition. It covers inputs that arrive in a non-CUE format, such as a
// TOML document decoded into a map, where there are no CUE source bytes to
// compile.
//
// The value is encoded into CUE, unified with the definition at schemaPath,
// and validated. Unlike ParseAndDecode there is no decode step: the caller
// already holds the Go representation.
//
// Errors carry the field path of the offending value but no line numbers,
// since the encoded value has no source positions.
func ValidateData(schema []byte, value any, schemaPath string, opts ...Option) error {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	encoded := ctx.Encode(value)
	if encoded.Err() != nil {
		return FormatError(encoded.Err(), filename)
	}

	unified := schemaRoot.Unify(encoded)

	if options.concrete {
		if err := unified.Validate(cue.Concrete(true)); err != nil {
			return FormatError(err, filename)
		}
		return nil
	}
	if err := unified.Validate(); err != nil {
		return FormatError(err, filename)
	}
	return nil
}
