// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskmill-cli/internal/execenv"
	"taskmill-cli/internal/testutil/tasktest"
	"taskmill-cli/pkg/platform"
)

func TestShellExecutorPreview_CommandLine(t *testing.T) {
	t.Parallel()

	executor := newTestExecutor()
	inv := newTestInvocation(t, tasktest.NewTask("echoargs", tasktest.WithCommand(`printf '%s\n'`)))
	inv.Passthrough = []string{"hello world", "$HOME"}

	preview, err := executor.Preview(inv)
	if err != nil {
		t.Fatalf("Preview() error = %v, want none", err)
	}
	want := `printf '%s\n' 'hello world' '$HOME'`
	if preview.Command != want {
		t.Errorf("Preview() command = %q, want %q", preview.Command, want)
	}
	if preview.Dir != inv.Root {
		t.Errorf("Preview() dir = %q, want the invocation root %q", preview.Dir, inv.Root)
	}
}

func TestShellExecutorPreview_PrefixApplied(t *testing.T) {
	t.Parallel()

	executor := newTestExecutor()
	task := tasktest.NewTask("test",
		tasktest.WithCommand("pytest"),
		tasktest.WithCommandPrefix("uv run"))
	inv := newTestInvocation(t, task)

	preview, err := executor.Preview(inv)
	if err != nil {
		t.Fatalf("Preview() error = %v, want none", err)
	}
	if preview.Command != "uv run pytest" {
		t.Errorf("Preview() command = %q, want %q", preview.Command, "uv run pytest")
	}
	if preview.Decision.Strategy != execenv.StrategyTaskPrefix {
		t.Errorf("Preview() strategy = %q, want %q", preview.Decision.Strategy, execenv.StrategyTaskPrefix)
	}
}

func TestShellExecutorPreview_EnvPrecedence(t *testing.T) {
	t.Parallel()

	executor := newTestExecutor()
	executor.Environ = func() []string {
		return []string{"X=1", "KEEP=process"}
	}

	task := tasktest.NewTask("show",
		tasktest.WithCommand("env"),
		tasktest.WithEnv("X", "2"))
	inv := newTestInvocation(t, task)
	inv.EnvOverrides = map[string]string{"X": "3"}

	preview, err := executor.Preview(inv)
	if err != nil {
		t.Fatalf("Preview() error = %v, want none", err)
	}
	if got := preview.Env["X"]; got != "3" {
		t.Errorf("Preview() env X = %q, want the CLI override %q", got, "3")
	}
	if got := preview.Env["KEEP"]; got != "process" {
		t.Errorf("Preview() env KEEP = %q, want %q", got, "process")
	}
}

func TestShellExecutorPreview_VenvOnPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	venv := filepath.Join(root, ".venv")
	if err := os.MkdirAll(venv, 0o755); err != nil {
		t.Fatalf("failed to create venv dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(venv, "pyvenv.cfg"), []byte("home = /usr\n"), 0o644); err != nil {
		t.Fatalf("failed to write pyvenv.cfg: %v", err)
	}

	executor := newTestExecutor()
	executor.Environ = func() []string {
		return []string{"PATH=/usr/bin"}
	}
	inv := &Invocation{
		Task: tasktest.NewTask("test", tasktest.WithCommand("pytest")),
		Root: root,
	}

	preview, err := executor.Preview(inv)
	if err != nil {
		t.Fatalf("Preview() error = %v, want none", err)
	}
	if preview.Decision.Strategy != execenv.StrategyVenv {
		t.Fatalf("Preview() strategy = %q, want %q", preview.Decision.Strategy, execenv.StrategyVenv)
	}
	wantBin := platform.VenvBinDir(venv)
	if !strings.HasPrefix(preview.Env["PATH"], wantBin) {
		t.Errorf("Preview() PATH = %q, want prefix %q", preview.Env["PATH"], wantBin)
	}
	if preview.Command != "pytest" {
		t.Errorf("Preview() command = %q, want it unprefixed for direct execution", preview.Command)
	}
}

func TestShellExecutorPreview_CompositeRejected(t *testing.T) {
	t.Parallel()

	executor := newTestExecutor()
	inv := newTestInvocation(t, tasktest.NewTask("all", tasktest.WithSteps("lint", "test")))

	_, err := executor.Preview(inv)
	if err == nil {
		t.Fatal("Preview() error = nil, want one for a composite task")
	}
	if !strings.Contains(err.Error(), "composite") {
		t.Errorf("Preview() error = %v, want mention of the composite task", err)
	}
}

func TestShellExecutorPreview_EmptyCommand(t *testing.T) {
	t.Parallel()

	executor := newTestExecutor()
	inv := newTestInvocation(t, tasktest.NewTask("hollow", tasktest.WithCommand("")))

	_, err := executor.Preview(inv)
	if err == nil {
		t.Fatal("Preview() error = nil, want one for an empty command")
	}
}
