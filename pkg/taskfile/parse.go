// SPDX-License-Identifier: MPL-2.0

package taskfile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"

	"taskmill-cli/pkg/cueutil"
	"taskmill-cli/pkg/types"
)

//go:embed taskfile_schema.cue
var taskfileSchema []byte

// Parse reads and parses a task file from the given path.
func Parse(path string) (*Taskfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file at %s: %w", path, err)
	}

	return ParseBytes(data, path)
}

// ParseBytes parses task file content from bytes.
//
// The document is decoded with go-toml and its shape is validated against
// the embedded #Taskfile schema. The tasks tree is then walked in Go, which
// classifies each node and validates every task table against the closed
// #Task definition. Classifying in Go first keeps nesting and node-kind
// errors readable; expressing the tree as one CUE disjunction would let
// malformed task tables slip through as pseudo-groups of string leafs.
func ParseBytes(data []byte, path string) (*Taskfile, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %s", path, row, col, derr.Error())
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := cueutil.ValidateData(taskfileSchema, raw, "#Taskfile",
		cueutil.WithConcrete(false),
		cueutil.WithFilename(path),
	); err != nil {
		return nil, err
	}

	tf := &Taskfile{
		Path: path,
		Root: filepath.Dir(path),
	}
	if project, ok := raw["project"].(map[string]any); ok {
		if name, ok := project["name"].(string); ok {
			tf.Project.Name = name
		}
	}
	if tasks, ok := raw["tasks"].(map[string]any); ok {
		tf.Tasks = tasks
	}

	if err := validateTree(tf.Tasks, "", 1, path); err != nil {
		return nil, err
	}

	return tf, nil
}

// validateTree checks node kinds, nesting depth, and the task/group
// distinction across the raw tasks tree. A table with a "run" key is a task;
// any other table is a group of further nodes.
func validateTree(nodes map[string]any, prefix string, depth int, file string) error {
	for key, node := range nodes {
		path := childPath(prefix, key)

		switch v := node.(type) {
		case string:
			// bare command shorthand
		case []any:
			for _, entry := range v {
				if _, ok := entry.(string); !ok {
					return fmt.Errorf("%s: task %q: run list entries must be task name strings, got %T", file, path, entry)
				}
			}
		case map[string]any:
			if _, isTask := v["run"]; isTask {
				if err := validateTaskShape(path, v); err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				if err := cueutil.ValidateData(taskfileSchema, v, "#Task",
					cueutil.WithConcrete(false),
					cueutil.WithFilename(fmt.Sprintf("%s: task %q", file, path)),
				); err != nil {
					return err
				}
				continue
			}
			if depth >= types.MaxTaskDepth {
				return fmt.Errorf("%s: task group %q exceeds the maximum nesting depth of %d", file, path, types.MaxTaskDepth)
			}
			if err := validateTree(v, path, depth+1, file); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s: task %q: unsupported value of type %T; expected a command string, task list, or task table", file, path, node)
		}
	}
	return nil
}

// validateTaskShape rejects task tables that also carry nested groups. The
// env table is the one legitimately table-valued task field.
func validateTaskShape(path string, table map[string]any) error {
	for key, value := range table {
		if key == "env" {
			continue
		}
		if _, isTable := value.(map[string]any); isTable {
			return fmt.Errorf("task %q mixes a run command with nested task group %q", path, key)
		}
	}
	switch run := table["run"].(type) {
	case string:
		return nil
	case []any:
		for _, entry := range run {
			if _, ok := entry.(string); !ok {
				return fmt.Errorf("task %q: run list entries must be task name strings, got %T", path, entry)
			}
		}
		return nil
	default:
		return fmt.Errorf("task %q: run must be a command string or a list of task names, got %T", path, run)
	}
}

func childPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// rawTask mirrors the TOML table form of a task for strict decoding.
// Pointer fields distinguish "absent" from an explicit zero value.
type rawTask struct {
	Run                any               `mapstructure:"run"`
	Description        string            `mapstructure:"description"`
	Env                map[string]string `mapstructure:"env"`
	WorkingDir         string            `mapstructure:"working_dir"`
	Timeout            *float64          `mapstructure:"timeout"`
	StreamOutput       *bool             `mapstructure:"stream_output"`
	ProcessTitleFormat string            `mapstructure:"process_title_format"`
	CommandPrefix      *string           `mapstructure:"command_prefix"`
	ExecutionMode      string            `mapstructure:"execution_mode"`
}

// ParseNode converts one node of the tasks tree into a Task. The node may be
// a bare command string, a list of task names, or a full task table.
func ParseNode(name types.TaskName, node any, defaults Defaults) (*Task, error) {
	task := &Task{
		Name:        name,
		Timeout:     defaults.timeout(),
		TitleFormat: TitleFull,
		Mode:        ModeAuto,
	}

	switch v := node.(type) {
	case string:
		task.Run.Command = v
	case []any:
		steps, err := parseSteps(name, v)
		if err != nil {
			return nil, err
		}
		task.Run.Steps = steps
	case map[string]any:
		if err := decodeTaskTable(task, v); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("task %q: unsupported value of type %T; expected a command string, task list, or task table", name, node)
	}

	if errs := task.Validate(); len(errs) > 0 {
		return nil, joinErrors(errs)
	}

	return task, nil
}

// parseSteps converts a shorthand or table run list into task name steps.
func parseSteps(name types.TaskName, list []any) ([]types.TaskName, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("task %q: run list must name at least one task", name)
	}
	steps := make([]types.TaskName, 0, len(list))
	for i, entry := range list {
		s, ok := entry.(string)
		if !ok {
			return nil, fmt.Errorf("task %q: run[%d] must be a task name string, got %T", name, i, entry)
		}
		step := types.ParseTaskName(s)
		if isValid, errs := step.IsValid(); !isValid {
			return nil, fmt.Errorf("task %q: run[%d]: %w", name, i, errs[0])
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// decodeTaskTable fills task from the full table form. Unknown keys are
// rejected so typos surface instead of silently configuring nothing.
func decodeTaskTable(task *Task, table map[string]any) error {
	var raw rawTask
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &raw,
		ErrorUnused: true,
	})
	if err != nil {
		return fmt.Errorf("internal error: building task decoder: %w", err)
	}
	if err := dec.Decode(table); err != nil {
		return fmt.Errorf("task %q: %w", task.Name, err)
	}

	switch run := raw.Run.(type) {
	case string:
		task.Run.Command = run
	case []any:
		steps, err := parseSteps(task.Name, run)
		if err != nil {
			return err
		}
		task.Run.Steps = steps
	case nil:
		return fmt.Errorf("task %q: missing required field run", task.Name)
	default:
		return fmt.Errorf("task %q: run must be a command string or a list of task names, got %T", task.Name, run)
	}

	task.Description = types.DescriptionText(raw.Description)
	task.Env = raw.Env
	task.WorkingDir = raw.WorkingDir

	if raw.Timeout != nil {
		if *raw.Timeout <= 0 {
			return fmt.Errorf("task %q: timeout must be a positive number of seconds", task.Name)
		}
		task.Timeout = time.Duration(*raw.Timeout * float64(time.Second))
	}
	if raw.StreamOutput != nil {
		task.StreamOutput = *raw.StreamOutput
	}

	format, err := ParseTitleFormat(raw.ProcessTitleFormat)
	if err != nil {
		return fmt.Errorf("task %q: %w", task.Name, err)
	}
	task.TitleFormat = format

	task.CommandPrefix = raw.CommandPrefix

	mode, err := ParseExecutionMode(raw.ExecutionMode)
	if err != nil {
		return fmt.Errorf("task %q: %w", task.Name, err)
	}
	task.Mode = mode

	return nil
}
