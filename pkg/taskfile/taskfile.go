// SPDX-License-Identifier: MPL-2.0

// Package taskfile defines the schema and parsing for taskmill.toml task files.
package taskfile

import (
	"path/filepath"
	"time"
)

// DefaultFileName is the name of the task file taskmill looks for at the
// root of a repository.
const DefaultFileName = "taskmill.toml"

// DefaultTimeout applies to tasks that do not set an explicit timeout and
// run under defaults that do not override it.
const DefaultTimeout = 5 * time.Minute

type (
	// Taskfile is a parsed taskmill.toml document. The task tree is kept in
	// its raw decoded form; the registry package flattens it into named task
	// definitions.
	Taskfile struct {
		// Path is the path the file was loaded from.
		Path string
		// Root is the directory containing the file. It is the default
		// working directory for tasks defined in this file.
		Root string
		// Project holds the [project] table.
		Project Project
		// Tasks holds the raw [tasks] tree. Nil when the file defines no
		// tasks.
		Tasks map[string]any
	}

	// Project holds project-level metadata from the [project] table.
	Project struct {
		// Name identifies the project, e.g. in workspace reports. Empty
		// when not set; callers fall back to the directory name.
		Name string
	}

	// Defaults carries settings applied to tasks that do not set their own.
	Defaults struct {
		// Timeout applies to tasks without an explicit timeout. Zero means
		// DefaultTimeout.
		Timeout time.Duration
	}
)

// PathIn returns the path of the task file named fileName inside dir.
// An empty fileName selects DefaultFileName.
func PathIn(dir, fileName string) string {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return filepath.Join(dir, fileName)
}

// HasTasks reports whether the file defines at least one task or group.
func (tf *Taskfile) HasTasks() bool {
	return len(tf.Tasks) > 0
}

// ProjectName returns the configured project name, falling back to the base
// name of the directory containing the task file.
func (tf *Taskfile) ProjectName() string {
	if tf.Project.Name != "" {
		return tf.Project.Name
	}
	return filepath.Base(tf.Root)
}

// timeout resolves the effective default timeout.
func (d Defaults) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return DefaultTimeout
}
