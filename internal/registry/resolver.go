// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"

	"taskmill-cli/pkg/taskfile"
	"taskmill-cli/pkg/types"
)

type (
	// ExecutionPlan is the result of resolving CLI arguments: the task to
	// run, the arguments left over for the task's command line, and the
	// CLI-level environment overrides (highest precedence when the runtime
	// builds the final environment).
	ExecutionPlan struct {
		Task         *taskfile.Task
		Passthrough  []string
		EnvOverrides map[string]string
	}

	// TaskNotFoundError is returned when the resolution ladder is exhausted.
	// Requested preserves the first token exactly as the user typed it.
	TaskNotFoundError struct {
		Requested string
		Available []types.TaskName
	}

	// Resolver turns raw CLI arguments into an ExecutionPlan against one
	// registry.
	Resolver struct {
		reg *Registry
	}
)

// Error implements the error interface.
func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.Requested)
}

// ErrNoTaskGiven is returned when Resolve is called without arguments.
var ErrNoTaskGiven = errors.New("no task name given")

// NewResolver creates a Resolver over the given registry.
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve walks the lookup ladder over the leading arguments:
//
//  1. the longest prefix of args (joined with ".") that names a task
//     exactly, up to the maximum nesting depth;
//  2. at the same depth, the namespace's default task;
//  3. progressively shorter prefixes, with the dropped arguments becoming
//     passthrough arguments for the task's command line.
//
// Colons in arguments are accepted as separator aliases ("test:unit" and
// "test.unit" resolve identically). An exact match always beats a namespace
// default at the same depth, and a longer match always beats a shorter one.
func (r *Resolver) Resolve(args []string, envOverrides map[string]string) (*ExecutionPlan, error) {
	if len(args) == 0 {
		return nil, ErrNoTaskGiven
	}

	maxPrefix := min(len(args), types.MaxTaskDepth)
	for k := maxPrefix; k >= 1; k-- {
		candidate := joinArgs(args[:k])
		if candidate.Depth() > types.MaxTaskDepth {
			continue
		}

		if task, ok := r.reg.Lookup(candidate); ok {
			return newPlan(task, args[k:], envOverrides), nil
		}
		if task, ok := r.reg.Lookup(candidate.Default()); ok {
			return newPlan(task, args[k:], envOverrides), nil
		}
	}

	return nil, &TaskNotFoundError{
		Requested: args[0],
		Available: r.reg.Names(),
	}
}

// joinArgs joins argument tokens into a dotted candidate name, normalizing
// colon separators.
func joinArgs(args []string) types.TaskName {
	name := types.ParseTaskName(args[0])
	for _, arg := range args[1:] {
		name = types.TaskName(name.String() + "." + types.ParseTaskName(arg).String())
	}
	return name
}

func newPlan(task *taskfile.Task, passthrough []string, envOverrides map[string]string) *ExecutionPlan {
	plan := &ExecutionPlan{
		Task:        task,
		Passthrough: passthrough,
	}
	if len(envOverrides) > 0 {
		plan.EnvOverrides = make(map[string]string, len(envOverrides))
		for k, v := range envOverrides {
			plan.EnvOverrides[k] = v
		}
	}
	return plan
}
