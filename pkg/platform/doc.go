// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// This package contains utilities for handling platform-specific concerns,
// such as OS name constants and the layout differences of Python virtual
// environments (Scripts vs bin).
package platform
