// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for taskmill.
//
// This package implements the Cobra command hierarchy for the taskmill CLI:
// the root command, task execution (including the bare `taskmill <task>`
// shorthand), task listing, validation, workspace orchestration, and
// configuration management. Commands are built by constructor functions that
// receive the App composition root and delegate business logic through its
// service interfaces.
package cmd
