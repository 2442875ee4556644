// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"slices"
	"testing"

	"taskmill-cli/pkg/types"
)

// ladderRegistry builds a registry with tasks at every nesting depth plus a
// namespace default, the shape most resolver cases need.
func ladderRegistry(t *testing.T) *Registry {
	t.Helper()
	return mustBuild(t, `
[tasks]
build = "go build ./..."

[tasks.test._default]
run = "go test ./..."

[tasks.test.unit]
run = "go test -short ./..."

[tasks.db.migrate.up]
run = "migrate up"

[tasks.db.migrate.down]
run = "migrate down"
`)
}

func TestResolve_DepthRoundTrip(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(ladderRegistry(t))

	tests := []struct {
		name            string
		args            []string
		wantTask        types.TaskName
		wantPassthrough []string
	}{
		{"flat name", []string{"build"}, "build", nil},
		{"two segments as one arg", []string{"test.unit"}, "test.unit", nil},
		{"two segments as two args", []string{"test", "unit"}, "test.unit", nil},
		{"three segments as one arg", []string{"db.migrate.up"}, "db.migrate.up", nil},
		{"three segments as three args", []string{"db", "migrate", "up"}, "db.migrate.up", nil},
		{"mixed segmenting", []string{"db", "migrate.down"}, "db.migrate.down", nil},
		{"flat with passthrough", []string{"build", "-v", "./cmd"}, "build", []string{"-v", "./cmd"}},
		{"deep with passthrough", []string{"db", "migrate", "up", "--step=2"}, "db.migrate.up", []string{"--step=2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			plan, err := resolver.Resolve(tt.args, nil)
			if err != nil {
				t.Fatalf("Resolve(%v) failed: %v", tt.args, err)
			}
			if plan.Task.Name != tt.wantTask {
				t.Errorf("resolved task = %q, want %q", plan.Task.Name, tt.wantTask)
			}
			if !slices.Equal(plan.Passthrough, tt.wantPassthrough) {
				t.Errorf("passthrough = %v, want %v", plan.Passthrough, tt.wantPassthrough)
			}
		})
	}
}

func TestResolve_ExactBeatsNamespaceDefault(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(ladderRegistry(t))

	// "test unit" names an existing task exactly; it must never be read as
	// the namespace default with "unit" passed through.
	plan, err := resolver.Resolve([]string{"test", "unit"}, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if plan.Task.Name != "test.unit" {
		t.Errorf("resolved task = %q, want test.unit", plan.Task.Name)
	}
	if len(plan.Passthrough) != 0 {
		t.Errorf("passthrough = %v, want empty", plan.Passthrough)
	}

	// "test watch" matches no task, so it falls back to the namespace
	// default with "watch" as a passthrough argument.
	plan, err = resolver.Resolve([]string{"test", "watch"}, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if plan.Task.Name != "test._default" {
		t.Errorf("resolved task = %q, want test._default", plan.Task.Name)
	}
	if !slices.Equal(plan.Passthrough, []string{"watch"}) {
		t.Errorf("passthrough = %v, want [watch]", plan.Passthrough)
	}
}

func TestResolve_NamespaceDefaultBare(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(ladderRegistry(t))

	plan, err := resolver.Resolve([]string{"test"}, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if plan.Task.Name != "test._default" {
		t.Errorf("resolved task = %q, want test._default", plan.Task.Name)
	}
	if len(plan.Passthrough) != 0 {
		t.Errorf("passthrough = %v, want empty", plan.Passthrough)
	}
}

func TestResolve_ColonSeparatorAlias(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(ladderRegistry(t))

	tests := []struct {
		args     []string
		wantTask types.TaskName
	}{
		{[]string{"test:unit"}, "test.unit"},
		{[]string{"db:migrate:up"}, "db.migrate.up"},
		{[]string{"db:migrate", "up"}, "db.migrate.up"},
	}

	for _, tt := range tests {
		plan, err := resolver.Resolve(tt.args, nil)
		if err != nil {
			t.Fatalf("Resolve(%v) failed: %v", tt.args, err)
		}
		if plan.Task.Name != tt.wantTask {
			t.Errorf("Resolve(%v) = %q, want %q", tt.args, plan.Task.Name, tt.wantTask)
		}
	}
}

func TestResolve_TaskNotFound(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(ladderRegistry(t))

	_, err := resolver.Resolve([]string{"ghost:task", "arg"}, nil)
	if err == nil {
		t.Fatal("expected TaskNotFoundError, got nil")
	}

	var notFound *TaskNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *TaskNotFoundError, got %T: %v", err, err)
	}
	// The error must preserve the token exactly as typed, colons included.
	if notFound.Requested != "ghost:task" {
		t.Errorf("Requested = %q, want %q", notFound.Requested, "ghost:task")
	}
	if len(notFound.Available) == 0 {
		t.Error("Available should list the registered tasks")
	}
}

func TestResolve_NoArgs(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(ladderRegistry(t))

	_, err := resolver.Resolve(nil, nil)
	if !errors.Is(err, ErrNoTaskGiven) {
		t.Errorf("expected ErrNoTaskGiven, got: %v", err)
	}
}

func TestResolve_ArgBeyondMaxDepth(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(ladderRegistry(t))

	// A fourth argument can never extend the task name; it becomes a
	// passthrough argument of the three-segment match.
	plan, err := resolver.Resolve([]string{"db", "migrate", "up", "extra"}, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if plan.Task.Name != "db.migrate.up" {
		t.Errorf("resolved task = %q, want db.migrate.up", plan.Task.Name)
	}
	if !slices.Equal(plan.Passthrough, []string{"extra"}) {
		t.Errorf("passthrough = %v, want [extra]", plan.Passthrough)
	}
}

func TestResolve_SingleArgTooDeep(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(ladderRegistry(t))

	// One argument with four segments cannot name a task.
	_, err := resolver.Resolve([]string{"a.b.c.d"}, nil)
	var notFound *TaskNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *TaskNotFoundError, got %T: %v", err, err)
	}
	if notFound.Requested != "a.b.c.d" {
		t.Errorf("Requested = %q, want %q", notFound.Requested, "a.b.c.d")
	}
}

func TestResolve_EnvOverridesCopied(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(ladderRegistry(t))

	overrides := map[string]string{"DEBUG": "1"}
	plan, err := resolver.Resolve([]string{"build"}, overrides)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	overrides["DEBUG"] = "changed"
	if plan.EnvOverrides["DEBUG"] != "1" {
		t.Error("plan must hold its own copy of the env overrides")
	}
}
