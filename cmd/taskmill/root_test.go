// SPDX-License-Identifier: MPL-2.0

package cmd

import "testing"

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		// Save and restore package-level vars.
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v0.3.1"
		Commit = "abc1234"
		BuildDate = "2026-05-01T09:00:00Z"

		got := getVersionString()
		want := "v0.3.1 (commit: abc1234, built: 2026-05-01T09:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build falls back to source label", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	t.Run("plain error uses Error()", func(t *testing.T) {
		t.Parallel()

		err := errPlain("disk on fire")
		if got := formatErrorForDisplay(err, false); got != "disk on fire" {
			t.Errorf("formatErrorForDisplay() = %q, want %q", got, "disk on fire")
		}
	})
}

type errPlain string

func (e errPlain) Error() string { return string(e) }
