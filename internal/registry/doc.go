// SPDX-License-Identifier: MPL-2.0

// Package registry builds the executable task table from a parsed task file
// and resolves CLI arguments against it.
//
// Build flattens the nested tasks tree into dotted names, validates composite
// references, and rejects cycles. The Resolver walks the lookup ladder
// (longest exact match, then namespace default, then progressively shorter
// prefixes) to turn raw CLI arguments into an ExecutionPlan.
package registry
