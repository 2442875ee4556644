// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTaskName is the sentinel error wrapped by InvalidTaskNameError.
var ErrInvalidTaskName = errors.New("invalid task name")

// MaxTaskDepth is the maximum number of dotted segments a task name may have.
const MaxTaskDepth = 3

// DefaultTaskLeaf is the reserved leaf segment that marks a namespace's
// default task (the task chosen when the namespace itself is invoked).
const DefaultTaskLeaf = "_default"

type (
	// TaskName represents a dotted task path such as "build" or "test.unit".
	// Names have 1 to MaxTaskDepth segments; segments are non-empty and the
	// reserved DefaultTaskLeaf segment may only appear in leaf position.
	// The zero value ("") is invalid.
	TaskName string

	// InvalidTaskNameError is returned when a TaskName violates the segment
	// rules above.
	InvalidTaskNameError struct {
		Value  TaskName
		Reason string
	}
)

// ParseTaskName normalizes raw user input into a TaskName. Colons are
// accepted as a separator alias and rewritten to dots ("test:unit" and
// "test.unit" address the same task). The result is not guaranteed valid;
// callers that need validity must check IsValid.
func ParseTaskName(raw string) TaskName {
	return TaskName(strings.ReplaceAll(raw, ":", "."))
}

// String returns the string representation of the TaskName.
func (n TaskName) String() string { return string(n) }

// Segments returns the dotted path segments of the name.
func (n TaskName) Segments() []string { return strings.Split(string(n), ".") }

// Depth returns the number of segments (1 for a flat task name).
func (n TaskName) Depth() int { return len(n.Segments()) }

// Leaf returns the last segment of the name.
func (n TaskName) Leaf() string {
	segs := n.Segments()
	return segs[len(segs)-1]
}

// Namespace returns the dotted name with the leaf segment removed, or ""
// for a flat name.
func (n TaskName) Namespace() TaskName {
	segs := n.Segments()
	if len(segs) <= 1 {
		return ""
	}
	return TaskName(strings.Join(segs[:len(segs)-1], "."))
}

// IsDefault returns true if the name addresses a namespace default task.
func (n TaskName) IsDefault() bool { return n.Leaf() == DefaultTaskLeaf }

// Default returns the name of this namespace's default task
// (e.g. "test" -> "test._default").
func (n TaskName) Default() TaskName {
	return TaskName(string(n) + "." + DefaultTaskLeaf)
}

// Join appends a segment to the name.
func (n TaskName) Join(segment string) TaskName {
	if n == "" {
		return TaskName(segment)
	}
	return TaskName(string(n) + "." + segment)
}

// IsValid returns whether the TaskName satisfies the segment rules,
// and a list of validation errors if it does not.
func (n TaskName) IsValid() (bool, []error) {
	if n == "" {
		return false, []error{&InvalidTaskNameError{Value: n, Reason: "name must not be empty"}}
	}
	segs := n.Segments()
	if len(segs) > MaxTaskDepth {
		return false, []error{&InvalidTaskNameError{
			Value:  n,
			Reason: fmt.Sprintf("nesting too deep: %d segments (max %d)", len(segs), MaxTaskDepth),
		}}
	}
	for i, seg := range segs {
		if seg == "" {
			return false, []error{&InvalidTaskNameError{Value: n, Reason: "empty path segment"}}
		}
		if seg == DefaultTaskLeaf && i != len(segs)-1 {
			return false, []error{&InvalidTaskNameError{
				Value:  n,
				Reason: DefaultTaskLeaf + " is only allowed as the final segment",
			}}
		}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidTaskNameError) Error() string {
	return fmt.Sprintf("invalid task name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidTaskName for errors.Is() compatibility.
func (e *InvalidTaskNameError) Unwrap() error { return ErrInvalidTaskName }
