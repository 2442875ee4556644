// SPDX-License-Identifier: MPL-2.0

package tasktest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"taskmill-cli/pkg/taskfile"
	"taskmill-cli/pkg/types"
)

// TaskOption configures a test task.
// Apply options to customize beyond the minimal defaults.
type TaskOption func(*taskfile.Task)

// NewTask creates a test task with the given dotted name and options.
// By default, creates a task with:
//   - Run command "true" (override with WithCommand or WithSteps)
//   - Default timeout
//   - Auto execution mode, full title format
//
// Usage:
//
//	task := tasktest.NewTask("build")
//	task := tasktest.NewTask("build", tasktest.WithCommand("make build"))
//	task := tasktest.NewTask("all",
//	    tasktest.WithSteps("build", "test"),
//	    tasktest.WithDescription("Build then test"),
//	)
func NewTask(name string, opts ...TaskOption) *taskfile.Task {
	task := &taskfile.Task{
		Name:        types.TaskName(name),
		Run:         taskfile.RunSpec{Command: "true"},
		Timeout:     taskfile.DefaultTimeout,
		TitleFormat: taskfile.TitleFull,
		Mode:        taskfile.ModeAuto,
	}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

// WithCommand sets the task's shell command, clearing any steps.
func WithCommand(command string) TaskOption {
	return func(t *taskfile.Task) {
		t.Run = taskfile.RunSpec{Command: command}
	}
}

// WithSteps makes the task composite, running the named tasks in order.
func WithSteps(names ...string) TaskOption {
	return func(t *taskfile.Task) {
		steps := make([]types.TaskName, len(names))
		for i, name := range names {
			steps[i] = types.TaskName(name)
		}
		t.Run = taskfile.RunSpec{Steps: steps}
	}
}

// WithDescription sets the task description.
func WithDescription(desc string) TaskOption {
	return func(t *taskfile.Task) {
		t.Description = types.DescriptionText(desc)
	}
}

// WithEnv adds an environment variable to the task.
func WithEnv(key, value string) TaskOption {
	return func(t *taskfile.Task) {
		if t.Env == nil {
			t.Env = make(map[string]string)
		}
		t.Env[key] = value
	}
}

// WithWorkingDir sets the working directory.
func WithWorkingDir(dir string) TaskOption {
	return func(t *taskfile.Task) {
		t.WorkingDir = dir
	}
}

// WithTimeout sets the task timeout.
func WithTimeout(d time.Duration) TaskOption {
	return func(t *taskfile.Task) {
		t.Timeout = d
	}
}

// WithStreamOutput enables output streaming.
func WithStreamOutput() TaskOption {
	return func(t *taskfile.Task) {
		t.StreamOutput = true
	}
}

// WithTitleFormat sets the process title format.
func WithTitleFormat(f taskfile.TitleFormat) TaskOption {
	return func(t *taskfile.Task) {
		t.TitleFormat = f
	}
}

// WithCommandPrefix sets an explicit command prefix, bypassing environment
// detection. Pass "" for "run directly, no prefix".
func WithCommandPrefix(prefix string) TaskOption {
	return func(t *taskfile.Task) {
		t.CommandPrefix = &prefix
	}
}

// WithMode sets the execution environment mode.
func WithMode(m taskfile.ExecutionMode) TaskOption {
	return func(t *taskfile.Task) {
		t.Mode = m
	}
}

// WriteTaskfile writes doc as the default task file inside dir and returns
// its path. The test fails immediately if the write fails.
func WriteTaskfile(t testing.TB, dir, doc string) string {
	t.Helper()
	path := filepath.Join(dir, taskfile.DefaultFileName)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write task file %s: %v", path, err)
	}
	return path
}

// InitRepo creates a git repository directory named name under root, writes
// doc as its task file, and returns the repository path. The .git entry is a
// bare directory, which is all workspace discovery looks for.
func InitRepo(t testing.TB, root, name, doc string) string {
	t.Helper()
	repoDir := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Join(repoDir, ".git"), 0o755); err != nil {
		t.Fatalf("failed to create repo dir %s: %v", repoDir, err)
	}
	WriteTaskfile(t, repoDir, doc)
	return repoDir
}
