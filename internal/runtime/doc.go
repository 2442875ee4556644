// SPDX-License-Identifier: MPL-2.0

// Package runtime executes resolved tasks as shell subprocesses.
//
// ShellExecutor is the single execution engine: it builds the command line
// ({prefix} {run} {passthrough, shell-escaped}), merges the environment,
// applies the task timeout, and runs the command through the host shell in
// the task's working directory. Execution is synchronous; one Invocation
// owns one subprocess.
//
// Environment variables follow a 3-level precedence (higher wins):
//
//  1. Process environment
//  2. Task env table
//  3. CLI --env overrides
//
// The execution-environment decision (internal/execenv) then prepends a
// virtualenv bin directory to PATH when direct execution calls for it.
//
// Output handling is an explicit two-mode switch: stream_output=true forwards
// the child's stdout/stderr live and leaves the TaskResult buffers empty;
// false captures both in full. There is no TTY inference.
package runtime
