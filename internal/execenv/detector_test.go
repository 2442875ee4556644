// SPDX-License-Identifier: MPL-2.0

package execenv

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"taskmill-cli/internal/testutil"
	"taskmill-cli/internal/testutil/tasktest"
	"taskmill-cli/pkg/platform"
	"taskmill-cli/pkg/taskfile"
)

// unsetEnv is a LookupEnv stub with no variables set, keeping tests hermetic
// against a real TASKMILL_TASK_RUNNER in the environment.
func unsetEnv(string) (string, bool) {
	return "", false
}

// envWith returns a LookupEnv stub where only RunnerEnvVar is set.
func envWith(value string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if key == RunnerEnvVar {
			return value, true
		}
		return "", false
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// makeVenv creates a directory that passes the pyvenv.cfg probe.
func makeVenv(t *testing.T, dir string) {
	t.Helper()
	testutil.MustMkdirAll(t, dir)
	writeFile(t, filepath.Join(dir, "pyvenv.cfg"), "home = /usr/bin\n")
}

// makeSitePackages creates the site-packages directory inside a venv and
// returns its path.
func makeSitePackages(t *testing.T, venv string) string {
	t.Helper()
	var sp string
	if runtime.GOOS == platform.Windows {
		sp = filepath.Join(venv, "Lib", "site-packages")
	} else {
		sp = filepath.Join(venv, "lib", "python3.12", "site-packages")
	}
	testutil.MustMkdirAll(t, sp)
	return sp
}

func TestDetect_EnvOverride(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "uv.lock"), "")

	d := &Detector{LookupEnv: envWith("poetry run")}
	decision := d.Detect(tasktest.NewTask("build"), root, "demo")

	if decision.Prefix != "poetry run" {
		t.Errorf("Prefix = %q, want %q", decision.Prefix, "poetry run")
	}
	if decision.VenvBin != "" {
		t.Errorf("VenvBin = %q, want empty (override takes full control)", decision.VenvBin)
	}
	if decision.Strategy != StrategyEnvOverride {
		t.Errorf("Strategy = %q, want %q", decision.Strategy, StrategyEnvOverride)
	}
}

func TestDetect_EnvOverrideEmptyMeansNoPrefix(t *testing.T) {
	t.Parallel()

	// An empty override must beat the uv project probe: set-but-empty is an
	// explicit "no prefix", not "unset".
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "uv.lock"), "")

	d := &Detector{LookupEnv: envWith("")}
	decision := d.Detect(tasktest.NewTask("build"), root, "demo")

	if decision.Prefix != "" {
		t.Errorf("Prefix = %q, want empty", decision.Prefix)
	}
	if decision.Strategy != StrategyEnvOverride {
		t.Errorf("Strategy = %q, want %q", decision.Strategy, StrategyEnvOverride)
	}
}

func TestDetect_TaskPrefixBeatsProbes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "uv.lock"), "")

	d := &Detector{LookupEnv: unsetEnv}
	task := tasktest.NewTask("build", tasktest.WithCommandPrefix("docker compose exec app"))
	decision := d.Detect(task, root, "demo")

	if decision.Prefix != "docker compose exec app" {
		t.Errorf("Prefix = %q, want the task's prefix", decision.Prefix)
	}
	if decision.Strategy != StrategyTaskPrefix {
		t.Errorf("Strategy = %q, want %q", decision.Strategy, StrategyTaskPrefix)
	}
}

func TestDetect_TaskPrefixEmptyMeansNoPrefix(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "uv.lock"), "")

	d := &Detector{LookupEnv: unsetEnv}
	task := tasktest.NewTask("build", tasktest.WithCommandPrefix(""))
	decision := d.Detect(task, root, "demo")

	if decision.Prefix != "" {
		t.Errorf("Prefix = %q, want empty", decision.Prefix)
	}
	if decision.Strategy != StrategyTaskPrefix {
		t.Errorf("Strategy = %q, want %q", decision.Strategy, StrategyTaskPrefix)
	}
}

func TestDetect_ModeUVRun(t *testing.T) {
	t.Parallel()

	d := &Detector{LookupEnv: unsetEnv}
	task := tasktest.NewTask("build", tasktest.WithMode(taskfile.ModeUVRun))
	decision := d.Detect(task, t.TempDir(), "demo")

	if decision.Prefix != "uv run" {
		t.Errorf("Prefix = %q, want %q", decision.Prefix, "uv run")
	}
	if decision.VenvBin != "" {
		t.Errorf("VenvBin = %q, want empty under uv run", decision.VenvBin)
	}
}

func TestDetect_ModeDirect(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	venv := filepath.Join(root, ".venv")
	makeVenv(t, venv)

	d := &Detector{LookupEnv: unsetEnv}
	task := tasktest.NewTask("build", tasktest.WithMode(taskfile.ModeDirect))
	decision := d.Detect(task, root, "demo")

	if decision.Prefix != "" {
		t.Errorf("Prefix = %q, want empty", decision.Prefix)
	}
	if want := platform.VenvBinDir(venv); decision.VenvBin != want {
		t.Errorf("VenvBin = %q, want %q", decision.VenvBin, want)
	}
}

func TestDetect_ModeDirectWithoutVenv(t *testing.T) {
	t.Parallel()

	d := &Detector{LookupEnv: unsetEnv}
	task := tasktest.NewTask("build", tasktest.WithMode(taskfile.ModeDirect))
	decision := d.Detect(task, t.TempDir(), "demo")

	if decision.VenvBin != "" {
		t.Errorf("VenvBin = %q, want empty when no venv exists", decision.VenvBin)
	}
}

func TestDetect_ModeSystemIgnoresVenv(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	makeVenv(t, filepath.Join(root, ".venv"))

	d := &Detector{LookupEnv: unsetEnv}
	task := tasktest.NewTask("build", tasktest.WithMode(taskfile.ModeSystem))
	decision := d.Detect(task, root, "demo")

	if decision.Prefix != "" || decision.VenvBin != "" {
		t.Errorf("got Prefix=%q VenvBin=%q, want both empty in system mode",
			decision.Prefix, decision.VenvBin)
	}
}

func TestDetect_AutoEditableBeatsUVProject(t *testing.T) {
	t.Parallel()

	// Editable installs must run directly: a "uv run" wrapper may re-sync
	// the environment and replace the editable install.
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "uv.lock"), "")
	testutil.MustMkdirAll(t, filepath.Join(root, "src", "my_pkg"))
	venv := filepath.Join(root, ".venv")
	makeVenv(t, venv)

	d := &Detector{LookupEnv: unsetEnv}
	decision := d.Detect(tasktest.NewTask("build"), root, "my-pkg")

	if decision.Strategy != StrategyEditable {
		t.Fatalf("Strategy = %q, want %q", decision.Strategy, StrategyEditable)
	}
	if decision.Prefix != "" {
		t.Errorf("Prefix = %q, want empty for editable install", decision.Prefix)
	}
	if want := platform.VenvBinDir(venv); decision.VenvBin != want {
		t.Errorf("VenvBin = %q, want %q", decision.VenvBin, want)
	}
}

func TestDetect_AutoEditableViaDirectURL(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	venv := filepath.Join(root, ".venv")
	makeVenv(t, venv)
	sp := makeSitePackages(t, venv)
	distInfo := filepath.Join(sp, "my_pkg-1.2.0.dist-info")
	testutil.MustMkdirAll(t, distInfo)
	writeFile(t, filepath.Join(distInfo, "direct_url.json"),
		`{"url": "file:///work/my-pkg", "dir_info": {"editable": true}}`)

	d := &Detector{LookupEnv: unsetEnv}
	decision := d.Detect(tasktest.NewTask("build"), root, "my-pkg")

	if decision.Strategy != StrategyEditable {
		t.Errorf("Strategy = %q, want %q", decision.Strategy, StrategyEditable)
	}
}

func TestDetect_AutoUVProject(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "uv.lock"), "")

	d := &Detector{LookupEnv: unsetEnv}
	decision := d.Detect(tasktest.NewTask("build"), root, "demo")

	if decision.Prefix != "uv run" {
		t.Errorf("Prefix = %q, want %q", decision.Prefix, "uv run")
	}
	if decision.Strategy != StrategyUVProject {
		t.Errorf("Strategy = %q, want %q", decision.Strategy, StrategyUVProject)
	}
}

func TestDetect_AutoVenvFallback(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	venv := filepath.Join(root, ".venv")
	makeVenv(t, venv)

	d := &Detector{LookupEnv: unsetEnv}
	decision := d.Detect(tasktest.NewTask("build"), root, "demo")

	if decision.Strategy != StrategyVenv {
		t.Fatalf("Strategy = %q, want %q", decision.Strategy, StrategyVenv)
	}
	if want := platform.VenvBinDir(venv); decision.VenvBin != want {
		t.Errorf("VenvBin = %q, want %q", decision.VenvBin, want)
	}
}

func TestDetect_AutoSystemFallback(t *testing.T) {
	t.Parallel()

	d := &Detector{LookupEnv: unsetEnv}
	decision := d.Detect(tasktest.NewTask("build"), t.TempDir(), "demo")

	if decision.Prefix != "" || decision.VenvBin != "" {
		t.Errorf("got Prefix=%q VenvBin=%q, want both empty", decision.Prefix, decision.VenvBin)
	}
	if decision.Strategy != StrategySystem {
		t.Errorf("Strategy = %q, want %q", decision.Strategy, StrategySystem)
	}
}

func TestDecision_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prefix  string
		command string
		want    string
	}{
		{"no prefix", "", "pytest tests/", "pytest tests/"},
		{"uv run", "uv run", "pytest tests/", "uv run pytest tests/"},
		{"multi-word prefix", "docker compose exec app", "make lint", "docker compose exec app make lint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := &Decision{Prefix: tt.prefix}
			if got := d.Apply(tt.command); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.command, got, tt.want)
			}
		})
	}
}

func TestDecision_PreparePath(t *testing.T) {
	t.Parallel()

	sep := string(os.PathListSeparator)

	tests := []struct {
		name    string
		venvBin string
		current string
		want    string
	}{
		{"no venv", "", "/usr/bin", "/usr/bin"},
		{"prepend", "/proj/.venv/bin", "/usr/bin", "/proj/.venv/bin" + sep + "/usr/bin"},
		{"empty current", "/proj/.venv/bin", "", "/proj/.venv/bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := &Decision{VenvBin: tt.venvBin}
			if got := d.PreparePath(tt.current); got != tt.want {
				t.Errorf("PreparePath(%q) = %q, want %q", tt.current, got, tt.want)
			}
		})
	}
}
