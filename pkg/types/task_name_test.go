// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestParseTaskName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want TaskName
	}{
		{"build", "build"},
		{"test.unit", "test.unit"},
		{"test:unit", "test.unit"},
		{"test:unit:fast", "test.unit.fast"},
		{"test:unit.fast", "test.unit.fast"},
	}

	for _, tt := range tests {
		if got := ParseTaskName(tt.raw); got != tt.want {
			t.Errorf("ParseTaskName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestTaskNameIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     TaskName
		wantValid bool
	}{
		{name: "flat name", value: "build", wantValid: true},
		{name: "two segments", value: "test.unit", wantValid: true},
		{name: "three segments", value: "test.unit.fast", wantValid: true},
		{name: "default leaf", value: "test._default", wantValid: true},
		{name: "default leaf at depth 3", value: "test.unit._default", wantValid: true},
		{name: "empty is invalid", value: "", wantValid: false},
		{name: "four segments is invalid", value: "a.b.c.d", wantValid: false},
		{name: "empty segment is invalid", value: "test..unit", wantValid: false},
		{name: "trailing dot is invalid", value: "test.", wantValid: false},
		{name: "default as namespace is invalid", value: "_default.build", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.value.IsValid()
			if valid != tt.wantValid {
				t.Errorf("TaskName(%q).IsValid() = %v, want %v", tt.value, valid, tt.wantValid)
			}
			if !tt.wantValid {
				if len(errs) == 0 {
					t.Fatal("TaskName.IsValid() returned no errors for invalid value")
				}
				if !errors.Is(errs[0], ErrInvalidTaskName) {
					t.Errorf("error does not wrap ErrInvalidTaskName: %v", errs[0])
				}
			}
		})
	}
}

func TestTaskNameAccessors(t *testing.T) {
	t.Parallel()

	n := TaskName("test.unit.fast")

	if got := n.Depth(); got != 3 {
		t.Errorf("Depth() = %d, want 3", got)
	}
	if got := n.Leaf(); got != "fast" {
		t.Errorf("Leaf() = %q, want %q", got, "fast")
	}
	if got := n.Namespace(); got != "test.unit" {
		t.Errorf("Namespace() = %q, want %q", got, "test.unit")
	}
	if got := TaskName("build").Namespace(); got != "" {
		t.Errorf("Namespace() of flat name = %q, want empty", got)
	}
	if got := TaskName("test").Default(); got != "test._default" {
		t.Errorf("Default() = %q, want %q", got, "test._default")
	}
	if got := TaskName("test").Join("unit"); got != "test.unit" {
		t.Errorf("Join() = %q, want %q", got, "test.unit")
	}
	if got := TaskName("").Join("build"); got != "build" {
		t.Errorf("Join() on empty = %q, want %q", got, "build")
	}
}

func TestTaskNameIsDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value TaskName
		want  bool
	}{
		{"test._default", true},
		{"test.unit._default", true},
		{"test.unit", false},
		{"build", false},
	}

	for _, tt := range tests {
		if got := tt.value.IsDefault(); got != tt.want {
			t.Errorf("TaskName(%q).IsDefault() = %v, want %v", tt.value, got, tt.want)
		}
	}
}
