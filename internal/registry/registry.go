// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"slices"

	"taskmill-cli/internal/dag"
	"taskmill-cli/pkg/taskfile"
	"taskmill-cli/pkg/types"
)

type (
	// Registry holds the flattened, validated task table of one task file.
	// It is immutable after Build and safe to share by reference.
	Registry struct {
		source *taskfile.Taskfile
		tasks  map[types.TaskName]*taskfile.Task
		names  []types.TaskName
	}

	// ConfigError reports a fatal pre-execution problem with the task tree,
	// such as a composite step referencing a task that does not exist or a
	// cycle between composite tasks.
	ConfigError struct {
		// Path is the dotted name of the offending task, or "" for a
		// document-level problem.
		Path string
		// Reason describes what is wrong.
		Reason string
		// Err is the underlying cause, if any.
		Err error
	}
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid task configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid task configuration: task %q: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying cause error, if any.
func (e *ConfigError) Unwrap() error { return e.Err }

// Build flattens the task tree of tf into a Registry. Composite step
// references are checked for existence (directly or via a namespace default)
// and for cycles; both are build-time failures, before anything executes.
func Build(tf *taskfile.Taskfile, defaults taskfile.Defaults) (*Registry, error) {
	reg := &Registry{
		source: tf,
		tasks:  make(map[types.TaskName]*taskfile.Task),
	}

	if err := reg.flatten(tf.Tasks, "", defaults); err != nil {
		return nil, err
	}

	reg.names = make([]types.TaskName, 0, len(reg.tasks))
	for name := range reg.tasks {
		reg.names = append(reg.names, name)
	}
	slices.Sort(reg.names)

	if err := reg.validateComposites(); err != nil {
		return nil, err
	}

	return reg, nil
}

// flatten walks one level of the raw tasks tree. A table with a "run" key is
// a task; any other table is a namespace to recurse into; strings and arrays
// are task shorthands. The parser has already validated shapes and depth, so
// unexpected node types here are configuration bugs, not user input errors.
func (r *Registry) flatten(nodes map[string]any, prefix types.TaskName, defaults taskfile.Defaults) error {
	for key, node := range nodes {
		path := prefix.Join(key)

		if table, ok := node.(map[string]any); ok {
			if _, isTask := table["run"]; !isTask {
				if err := r.flatten(table, path, defaults); err != nil {
					return err
				}
				continue
			}
		}

		task, err := taskfile.ParseNode(path, node, defaults)
		if err != nil {
			return &ConfigError{Path: path.String(), Reason: "invalid definition", Err: err}
		}
		r.tasks[path] = task
	}
	return nil
}

// validateComposites checks every composite step reference and rejects
// cycles between composite tasks.
func (r *Registry) validateComposites() error {
	g := dag.New()

	for _, name := range r.names {
		task := r.tasks[name]
		if !task.IsComposite() {
			continue
		}
		g.AddNode(name.String())
		for _, step := range task.Run.Steps {
			target, ok := r.ResolveStep(step)
			if !ok {
				return &ConfigError{
					Path:   name.String(),
					Reason: fmt.Sprintf("step %q does not match any task", step),
				}
			}
			g.AddEdge(name.String(), target.String())
		}
	}

	if err := g.Validate(); err != nil {
		return &ConfigError{Reason: "composite tasks reference each other", Err: err}
	}
	return nil
}

// ResolveStep resolves a composite step name to the task it will run: an
// exact task name, or the namespace's default task. The runner uses the same
// resolution when it walks a composite's steps, so validation and execution
// cannot disagree about what a step means.
func (r *Registry) ResolveStep(step types.TaskName) (types.TaskName, bool) {
	if _, ok := r.tasks[step]; ok {
		return step, true
	}
	if _, ok := r.tasks[step.Default()]; ok {
		return step.Default(), true
	}
	return "", false
}

// Lookup returns the task registered under the exact dotted name.
func (r *Registry) Lookup(name types.TaskName) (*taskfile.Task, bool) {
	task, ok := r.tasks[name]
	return task, ok
}

// Has reports whether a task name resolves, either exactly or through a
// namespace default. Workspace orchestration uses this to decide whether a
// repository participates in a run.
func (r *Registry) Has(name types.TaskName) bool {
	_, ok := r.ResolveStep(name)
	return ok
}

// Names returns all registered task names in sorted order.
// The returned slice is shared; callers must not modify it.
func (r *Registry) Names() []types.TaskName {
	return r.names
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int { return len(r.tasks) }

// Source returns the task file this registry was built from.
func (r *Registry) Source() *taskfile.Taskfile { return r.source }

// Root returns the directory tasks run in by default.
func (r *Registry) Root() string { return r.source.Root }
