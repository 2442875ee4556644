// SPDX-License-Identifier: MPL-2.0

package taskfile

import (
	"errors"
	"fmt"
	"time"

	"taskmill-cli/pkg/types"
)

// ExecutionMode selects how a task's command is launched (the environment
// detection strategy).
type ExecutionMode string

const (
	// ModeAuto detects the execution environment from the repository layout
	ModeAuto ExecutionMode = "auto"
	// ModeUVRun prefixes the command with "uv run"
	ModeUVRun ExecutionMode = "uv_run"
	// ModeDirect runs the command directly, with a detected virtualenv on PATH
	ModeDirect ExecutionMode = "direct"
	// ModeSystem runs the command directly and ignores any virtualenv
	ModeSystem ExecutionMode = "system"
)

// TitleFormat selects how the process title for a running task is rendered.
type TitleFormat string

const (
	// TitleFull renders the complete dotted task name
	TitleFull TitleFormat = "full"
	// TitleLeaf renders only the final name segment
	TitleLeaf TitleFormat = "leaf"
	// TitleAbbreviated renders first and last segments joined by an ellipsis
	TitleAbbreviated TitleFormat = "abbreviated"
)

type (
	// Task is a single parsed task definition, flattened out of the tasks
	// tree with its dotted name attached.
	Task struct {
		// Name is the full dotted task name (e.g. "test.unit")
		Name types.TaskName
		// Run is what the task executes: a shell command or a sequence of
		// other tasks
		Run RunSpec
		// Description is optional help text shown in task listings
		Description types.DescriptionText
		// Env holds task-level environment variables layered over the
		// process environment
		Env map[string]string
		// WorkingDir overrides the execution directory. Relative paths are
		// resolved against the task file root. Empty means the root itself.
		WorkingDir string
		// Timeout bounds a single execution. Always positive after parsing.
		Timeout time.Duration
		// StreamOutput streams child output to the terminal instead of
		// capturing it
		StreamOutput bool
		// TitleFormat selects the process title rendering. Default: full.
		TitleFormat TitleFormat
		// CommandPrefix overrides environment detection when non-nil. The
		// empty string means "no prefix" rather than "unset".
		CommandPrefix *string
		// Mode selects the execution environment strategy. Default: auto.
		Mode ExecutionMode
	}

	// RunSpec is the parsed "run" field. Exactly one of Command or Steps is
	// set.
	RunSpec struct {
		// Command is a shell command line
		Command string
		// Steps is an ordered list of task names to run in sequence
		Steps []types.TaskName
	}
)

// IsComposite reports whether the task runs other tasks instead of a shell
// command.
func (t *Task) IsComposite() bool {
	return len(t.Run.Steps) > 0
}

// IsValid returns whether the ExecutionMode is one of the known modes.
func (m ExecutionMode) IsValid() (bool, []error) {
	switch m {
	case ModeAuto, ModeUVRun, ModeDirect, ModeSystem:
		return true, nil
	}
	return false, []error{fmt.Errorf("invalid execution mode %q: must be one of auto, uv_run, direct, system", string(m))}
}

// IsValid returns whether the TitleFormat is one of the known formats.
func (f TitleFormat) IsValid() (bool, []error) {
	switch f {
	case TitleFull, TitleLeaf, TitleAbbreviated:
		return true, nil
	}
	return false, []error{fmt.Errorf("invalid process title format %q: must be one of full, leaf, abbreviated", string(f))}
}

// ParseExecutionMode parses a string into an ExecutionMode.
// Returns ModeAuto for empty input, which is the documented default.
func ParseExecutionMode(value string) (ExecutionMode, error) {
	if value == "" {
		return ModeAuto, nil
	}
	mode := ExecutionMode(value)
	if isValid, errs := mode.IsValid(); !isValid {
		return "", errs[0]
	}
	return mode, nil
}

// ParseTitleFormat parses a string into a TitleFormat.
// Returns TitleFull for empty input, which is the documented default.
func ParseTitleFormat(value string) (TitleFormat, error) {
	if value == "" {
		return TitleFull, nil
	}
	format := TitleFormat(value)
	if isValid, errs := format.IsValid(); !isValid {
		return "", errs[0]
	}
	return format, nil
}

// Validate checks invariants that hold for every well-formed task.
func (t *Task) Validate() []error {
	var errs []error

	if isValid, nameErrs := t.Name.IsValid(); !isValid {
		errs = append(errs, nameErrs...)
	}
	if t.Run.Command == "" && len(t.Run.Steps) == 0 {
		errs = append(errs, fmt.Errorf("task %q: run must be a non-empty command or a non-empty task list", t.Name))
	}
	if t.Run.Command != "" && len(t.Run.Steps) > 0 {
		errs = append(errs, fmt.Errorf("task %q: run cannot be both a command and a task list", t.Name))
	}
	if isValid, descErrs := t.Description.IsValid(); !isValid {
		errs = append(errs, descErrs...)
	}
	if t.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("task %q: timeout must be positive", t.Name))
	}
	if isValid, modeErrs := t.Mode.IsValid(); !isValid {
		errs = append(errs, modeErrs...)
	}
	if isValid, formatErrs := t.TitleFormat.IsValid(); !isValid {
		errs = append(errs, formatErrs...)
	}

	return errs
}

// joinErrors collapses a validation error list into a single error.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
