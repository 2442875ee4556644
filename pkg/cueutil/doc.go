// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing and validation utilities.
//
// The package consolidates the 3-step CUE parsing pattern used by the config
// and taskfile packages:
//
//  1. Compile the embedded schema
//  2. Compile (or encode) user data and unify with schema
//  3. Validate and decode to Go struct
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Config](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("config.cue"),
//	)
//	if err != nil {
//	    return nil, err  // Error includes CUE path for debugging
//	}
//	return result.Value, nil
//
// For data that arrives in a non-CUE format (for example a decoded TOML
// document), ValidateData checks the already-decoded Go value against a
// schema definition without a decode step.
package cueutil
