// SPDX-License-Identifier: MPL-2.0

package execenv

import (
	"os"

	"taskmill-cli/pkg/platform"
	"taskmill-cli/pkg/taskfile"
)

// RunnerEnvVar forces the command prefix for every task in the process.
// An empty value is an explicit "no prefix", distinct from unset.
const RunnerEnvVar = "TASKMILL_TASK_RUNNER"

// uvRunPrefix wraps commands so uv resolves the project environment itself.
const uvRunPrefix = "uv run"

type (
	// Strategy identifies the ladder rung that produced a Decision. It is
	// informational, shown in dry-run output and debug logs.
	Strategy string

	// Decision is the outcome of execution-environment detection: the prefix
	// to prepend to the command line (empty = none) and the virtualenv bin
	// directory to put on PATH (empty = leave PATH alone).
	Decision struct {
		Prefix   string
		VenvBin  string
		Strategy Strategy
	}

	// Detector probes a repository for execution-environment markers.
	Detector struct {
		// LookupEnv reads an environment variable, distinguishing unset from
		// empty. When nil, os.LookupEnv is used.
		LookupEnv func(string) (string, bool)
	}
)

// Detection strategies, one per ladder rung.
const (
	StrategyEnvOverride Strategy = "environment override"
	StrategyTaskPrefix  Strategy = "task command prefix"
	StrategyTaskMode    Strategy = "task execution mode"
	StrategyEditable    Strategy = "editable install"
	StrategyUVProject   Strategy = "uv project"
	StrategyVenv        Strategy = "virtualenv"
	StrategySystem      Strategy = "system interpreter"
)

// NewDetector creates a Detector using the real process environment.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect chooses the execution strategy for a task rooted at root. The
// ladder is ordered, first match wins:
//
//  1. RunnerEnvVar, used verbatim as the prefix
//  2. the task's command_prefix, when set
//  3. the task's execution_mode, when not auto
//  4. editable install of packageName -> direct execution with the venv on
//     PATH (a wrapping prefix would let uv re-sync over the editable install)
//  5. uv project markers (uv.lock, [tool.uv] in pyproject.toml) -> "uv run"
//  6. a recognized virtualenv directory -> direct execution with it on PATH
//  7. bare system interpreter
//
// PATH is only adjusted for direct execution with a found virtualenv; an
// explicit prefix override (rungs 1 and 2) takes full control of the
// environment and leaves PATH alone.
func (d *Detector) Detect(task *taskfile.Task, root, packageName string) *Decision {
	lookup := d.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if prefix, ok := lookup(RunnerEnvVar); ok {
		return &Decision{Prefix: prefix, Strategy: StrategyEnvOverride}
	}
	if task.CommandPrefix != nil {
		return &Decision{Prefix: *task.CommandPrefix, Strategy: StrategyTaskPrefix}
	}

	switch task.Mode {
	case taskfile.ModeUVRun:
		return &Decision{Prefix: uvRunPrefix, Strategy: StrategyTaskMode}
	case taskfile.ModeDirect:
		return &Decision{VenvBin: binDirOf(findVenv(root, packageName)), Strategy: StrategyTaskMode}
	case taskfile.ModeSystem:
		return &Decision{Strategy: StrategyTaskMode}
	}

	venv := findVenv(root, packageName)
	if isEditableInstall(root, venv, packageName) {
		return &Decision{VenvBin: binDirOf(venv), Strategy: StrategyEditable}
	}
	if isUVProject(root) {
		return &Decision{Prefix: uvRunPrefix, Strategy: StrategyUVProject}
	}
	if venv != "" {
		return &Decision{VenvBin: platform.VenvBinDir(venv), Strategy: StrategyVenv}
	}
	return &Decision{Strategy: StrategySystem}
}

// Apply prepends the decided prefix to a command line.
func (d *Decision) Apply(command string) string {
	if d.Prefix == "" {
		return command
	}
	return d.Prefix + " " + command
}

// PreparePath prepends the decided virtualenv bin directory to a PATH value.
func (d *Decision) PreparePath(current string) string {
	if d.VenvBin == "" {
		return current
	}
	if current == "" {
		return d.VenvBin
	}
	return d.VenvBin + string(os.PathListSeparator) + current
}

// binDirOf maps an empty venv path to an empty bin dir.
func binDirOf(venv string) string {
	if venv == "" {
		return ""
	}
	return platform.VenvBinDir(venv)
}
