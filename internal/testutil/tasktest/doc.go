// SPDX-License-Identifier: MPL-2.0

// Package tasktest provides test helpers for creating taskfile.Task objects
// and on-disk task files. This package is separate from testutil to avoid
// import cycles, since testutil is used by pkg/taskfile tests.
//
// Usage:
//
//	import "taskmill-cli/internal/testutil/tasktest"
//
//	task := tasktest.NewTask("build", tasktest.WithCommand("make build"))
package tasktest
