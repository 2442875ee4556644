// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"path/filepath"
	"runtime"
)

// VenvBinDir returns the executables directory of a virtual environment:
// "Scripts" on Windows, "bin" everywhere else.
func VenvBinDir(venvPath string) string {
	if runtime.GOOS == Windows {
		return filepath.Join(venvPath, "Scripts")
	}
	return filepath.Join(venvPath, "bin")
}

// SitePackagesDirs returns the site-packages directories of a virtual
// environment. Windows venvs keep a single Lib/site-packages; POSIX venvs nest
// one per interpreter version, so the result may hold several candidates.
func SitePackagesDirs(venvPath string) []string {
	if runtime.GOOS == Windows {
		return []string{filepath.Join(venvPath, "Lib", "site-packages")}
	}
	matches, err := filepath.Glob(filepath.Join(venvPath, "lib", "python*", "site-packages"))
	if err != nil {
		return nil
	}
	return matches
}
