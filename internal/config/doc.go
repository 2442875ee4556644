// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/taskmill/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/taskmill/config.cue on macOS, %APPDATA%\taskmill\config.cue
// on Windows). The package provides type-safe configuration access covering the task file
// name override, the default task timeout, workspace orchestration settings, and UI
// preferences.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations. Constraints the
// schema cannot express, such as match-pattern well-formedness, are validated in Go.
package config
