// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"taskmill-cli/pkg/taskfile"
)

// Invocation contains everything a single task execution needs.
type Invocation struct {
	// Task is the task to execute
	Task *taskfile.Task
	// Root is the task file root, the default working directory and the
	// base for execution-environment probes
	Root string
	// PackageName is the project name used for virtualenv and editable
	// install detection
	PackageName string
	// Context is the Go context for cancellation
	Context context.Context
	// Passthrough holds extra CLI arguments appended to the command line,
	// shell-escaped
	Passthrough []string
	// EnvOverrides holds CLI --env values, the highest env precedence level
	EnvOverrides map[string]string
	// Stdout is where streamed standard output goes
	Stdout io.Writer
	// Stderr is where streamed standard error goes
	Stderr io.Writer
	// Stdin is the child's standard input
	Stdin io.Reader
}

// NewInvocation creates an invocation for task with defaults: background
// context, process stdio, the task file's root and project name.
func NewInvocation(task *taskfile.Task, tf *taskfile.Taskfile) *Invocation {
	return &Invocation{
		Task:        task,
		Root:        tf.Root,
		PackageName: tf.ProjectName(),
		Context:     context.Background(),
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Stdin:       os.Stdin,
	}
}

// workDir resolves the effective working directory: the task's working_dir
// (relative paths against the task file root), else the root itself.
func (inv *Invocation) workDir() string {
	dir := inv.Task.WorkingDir
	if dir == "" {
		return inv.Root
	}
	if !filepath.IsAbs(dir) {
		return filepath.Join(inv.Root, dir)
	}
	return dir
}
