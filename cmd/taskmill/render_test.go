// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"taskmill-cli/internal/dag"
	"taskmill-cli/internal/registry"
	"taskmill-cli/pkg/types"
)

// newRenderTestApp builds an App whose streams are buffers.
func newRenderTestApp(t *testing.T) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app, err := NewApp(Dependencies{Stdout: &stdout, Stderr: &stderr})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	return app, &stdout, &stderr
}

func TestRenderTaskNotFound(t *testing.T) {
	t.Parallel()

	t.Run("lists available tasks", func(t *testing.T) {
		t.Parallel()

		out := renderTaskNotFound(&registry.TaskNotFoundError{
			Requested: "deplo",
			Available: []types.TaskName{"build", "deploy", "test.unit"},
		})

		for _, token := range []string{
			"Task not found!",
			"'deplo'",
			"Available tasks:",
			"• build",
			"• deploy",
			"• test.unit",
			"taskmill tasks",
		} {
			if !strings.Contains(out, token) {
				t.Errorf("renderTaskNotFound output missing %q:\n%s", token, out)
			}
		}
	})

	t.Run("empty registry shows none marker", func(t *testing.T) {
		t.Parallel()

		out := renderTaskNotFound(&registry.TaskNotFoundError{Requested: "build"})
		if !strings.Contains(out, "(none)") {
			t.Errorf("renderTaskNotFound output missing %q:\n%s", "(none)", out)
		}
	})
}

func TestRenderTaskError(t *testing.T) {
	t.Parallel()

	t.Run("task not found renders card and passes the error through", func(t *testing.T) {
		t.Parallel()

		app, _, stderr := newRenderTestApp(t)
		var in error = &registry.TaskNotFoundError{Requested: "deplo", Available: []types.TaskName{"deploy"}}

		if got := renderTaskError(app, in); got != in {
			t.Errorf("renderTaskError() = %v, want the input error", got)
		}
		if !strings.Contains(stderr.String(), "Task not found!") {
			t.Errorf("stderr missing not-found card:\n%s", stderr.String())
		}
	})

	t.Run("missing task file renders its card", func(t *testing.T) {
		t.Parallel()

		app, _, stderr := newRenderTestApp(t)
		in := fmt.Errorf("failed to read task file at /repo/taskmill.toml: %w", os.ErrNotExist)

		if got := renderTaskError(app, in); got != in {
			t.Errorf("renderTaskError() = %v, want the input error", got)
		}
		if !strings.Contains(stderr.String(), "taskmill.toml") {
			t.Errorf("stderr missing task-file card:\n%s", stderr.String())
		}
	})

	t.Run("cycle inside a config error gets the cycle card", func(t *testing.T) {
		t.Parallel()

		app, _, stderr := newRenderTestApp(t)
		var in error = &registry.ConfigError{
			Path:   "ci",
			Reason: "dependency cycle",
			Err:    &dag.CycleError{Cycle: []string{"ci", "build", "ci"}},
		}

		if got := renderTaskError(app, in); got != in {
			t.Errorf("renderTaskError() = %v, want the input error", got)
		}
		// The cycle card, not the generic parse-error card.
		if !strings.Contains(stderr.String(), "cycle") {
			t.Errorf("stderr missing cycle card:\n%s", stderr.String())
		}
		if strings.Contains(stderr.String(), "Failed to parse") {
			t.Errorf("stderr shows the parse card for a cycle:\n%s", stderr.String())
		}
	})

	t.Run("unknown error passes through silently", func(t *testing.T) {
		t.Parallel()

		app, _, stderr := newRenderTestApp(t)
		in := errors.New("boom")

		if got := renderTaskError(app, in); got != in {
			t.Errorf("renderTaskError() = %v, want the input error", got)
		}
		if stderr.Len() != 0 {
			t.Errorf("stderr should stay empty for unknown errors, got:\n%s", stderr.String())
		}
	})
}
