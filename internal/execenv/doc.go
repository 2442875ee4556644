// SPDX-License-Identifier: MPL-2.0

// Package execenv decides how task commands are launched.
//
// A task command can run bare against the system interpreter, with a Python
// virtualenv's bin directory prepended to PATH, or wrapped in a command
// prefix such as "uv run". The Detector walks a fixed ladder of overrides
// and repository probes (environment variable, per-task settings, editable
// install, uv project markers, virtualenv directories) and returns a
// Decision the executor applies to the command line and environment.
//
// Detection is best-effort: probe failures (unreadable files, malformed
// manifests) are treated as "marker absent", never surfaced as errors.
package execenv
