// SPDX-License-Identifier: MPL-2.0

package execenv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"taskmill-cli/pkg/platform"
)

// ManagedEnvDir is the directory under a project root where taskmill-managed
// virtualenvs live, one per package/OS/arch triple.
const ManagedEnvDir = "envs"

// findVenv returns the first recognized virtualenv directory under root.
// Search order: the managed envs/{package}_{os}_{arch} directory, then
// .venv, then venv. A directory only counts when it holds a pyvenv.cfg.
func findVenv(root, packageName string) string {
	for _, dir := range venvCandidates(root, packageName) {
		if isVenv(dir) {
			return dir
		}
	}
	return ""
}

func venvCandidates(root, packageName string) []string {
	var candidates []string
	if packageName != "" {
		managed := fmt.Sprintf("%s_%s_%s", packageName, runtime.GOOS, runtime.GOARCH)
		candidates = append(candidates, filepath.Join(root, ManagedEnvDir, managed))
	}
	return append(candidates,
		filepath.Join(root, ".venv"),
		filepath.Join(root, "venv"),
	)
}

func isVenv(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "pyvenv.cfg"))
	return err == nil && info.Mode().IsRegular()
}

// isUVProject reports whether root is managed by uv: a uv.lock file is the
// strongest marker, a [tool.uv] table in pyproject.toml the fallback.
func isUVProject(root string) bool {
	if _, err := os.Stat(filepath.Join(root, "uv.lock")); err == nil {
		return true
	}

	raw, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		return false
	}
	var doc struct {
		Tool map[string]any `toml:"tool"`
	}
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return false
	}
	_, ok := doc.Tool["uv"]
	return ok
}

// isEditableInstall reports whether packageName is installed in editable
// mode: either the project uses a src/{package} source layout, or the venv's
// site-packages carries a PEP 610 direct_url.json with the editable flag.
func isEditableInstall(root, venvDir, packageName string) bool {
	if packageName == "" {
		return false
	}
	if hasSrcLayout(root, packageName) {
		return true
	}
	return hasEditableDistInfo(venvDir, packageName)
}

func hasSrcLayout(root, packageName string) bool {
	info, err := os.Stat(filepath.Join(root, "src", moduleName(packageName)))
	return err == nil && info.IsDir()
}

func hasEditableDistInfo(venvDir, packageName string) bool {
	if venvDir == "" {
		return false
	}
	prefix := moduleName(packageName) + "-"
	for _, sp := range platform.SitePackagesDirs(venvDir) {
		entries, err := os.ReadDir(sp)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if !entry.IsDir() || !strings.HasSuffix(name, ".dist-info") {
				continue
			}
			if !strings.HasPrefix(strings.ToLower(name), prefix) {
				continue
			}
			if readEditableFlag(filepath.Join(sp, name, "direct_url.json")) {
				return true
			}
		}
	}
	return false
}

// moduleName normalizes a distribution name to the module form used in
// dist-info directory names and src/ layouts: lowercased, separators
// collapsed to underscores.
func moduleName(packageName string) string {
	name := strings.ToLower(packageName)
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ReplaceAll(name, ".", "_")
}

// readEditableFlag reads a PEP 610 direct_url.json and reports whether it
// marks an editable install. Unreadable or malformed files count as false.
func readEditableFlag(path string) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var doc struct {
		DirInfo struct {
			Editable bool `json:"editable"`
		} `json:"dir_info"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	return doc.DirInfo.Editable
}
