// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultTaskfileName is the task file looked up in each repository.
	// Defined locally to avoid coupling config to pkg/taskfile.
	DefaultTaskfileName = "taskmill.toml"

	// DefaultTimeoutSeconds bounds task execution when neither the task nor
	// the configuration sets a timeout.
	DefaultTimeoutSeconds TimeoutSeconds = 300
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidTaskfileName is the sentinel error wrapped by InvalidTaskfileNameError.
	ErrInvalidTaskfileName = errors.New("invalid task file name")
	// ErrInvalidTimeoutSeconds is the sentinel error wrapped by InvalidTimeoutSecondsError.
	ErrInvalidTimeoutSeconds = errors.New("invalid timeout")
	// ErrInvalidWorkspaceRoot is the sentinel error wrapped by InvalidWorkspaceRootError.
	ErrInvalidWorkspaceRoot = errors.New("invalid workspace root")
	// ErrInvalidRepoPattern is the sentinel error wrapped by InvalidRepoPatternError.
	ErrInvalidRepoPattern = errors.New("invalid repository pattern")
	// ErrInvalidWorkspaceConfig is the sentinel error wrapped by InvalidWorkspaceConfigError.
	ErrInvalidWorkspaceConfig = errors.New("invalid workspace config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// TaskfileName is the file name looked up in each repository root.
	// The zero value ("") is valid and means "use DefaultTaskfileName".
	// Non-zero values must be bare file names without path separators.
	TaskfileName string

	// InvalidTaskfileNameError is returned when a TaskfileName value is
	// whitespace-only or contains a path separator. It wraps
	// ErrInvalidTaskfileName for errors.Is() compatibility.
	InvalidTaskfileNameError struct {
		Value TaskfileName
	}

	// TimeoutSeconds is a task timeout expressed in seconds. Fractional
	// values are allowed. A valid timeout is strictly positive.
	TimeoutSeconds float64

	// InvalidTimeoutSecondsError is returned when a TimeoutSeconds value is
	// zero or negative. It wraps ErrInvalidTimeoutSeconds for errors.Is().
	InvalidTimeoutSecondsError struct {
		Value TimeoutSeconds
	}

	// WorkspaceRoot is the directory scanned for repositories.
	// The zero value ("") is valid and means "use the current directory".
	// Non-zero values must not be whitespace-only.
	WorkspaceRoot string

	// InvalidWorkspaceRootError is returned when a WorkspaceRoot value is
	// non-empty but whitespace-only. It wraps ErrInvalidWorkspaceRoot.
	InvalidWorkspaceRootError struct {
		Value WorkspaceRoot
	}

	// RepoPattern is a shell-style pattern matched against repository names
	// (path.Match syntax, e.g. "svc-*").
	RepoPattern string

	// InvalidRepoPatternError is returned when a RepoPattern value is empty
	// or not a well-formed path.Match pattern. It wraps ErrInvalidRepoPattern.
	InvalidRepoPatternError struct {
		Value  RepoPattern
		Reason string
	}

	// InvalidWorkspaceConfigError is returned when a WorkspaceConfig has invalid
	// fields. It wraps ErrInvalidWorkspaceConfig for errors.Is() compatibility
	// and collects field-level validation errors.
	InvalidWorkspaceConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// TaskfileName overrides the task file name looked up in repositories
		TaskfileName TaskfileName `json:"taskfile_name" mapstructure:"taskfile_name"`
		// DefaultTimeout is the fallback per-task timeout in seconds
		DefaultTimeout TimeoutSeconds `json:"default_timeout" mapstructure:"default_timeout"`
		// Workspace configures multi-repository orchestration
		Workspace WorkspaceConfig `json:"workspace" mapstructure:"workspace"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// WorkspaceConfig configures multi-repository orchestration.
	WorkspaceConfig struct {
		// Root is the directory scanned for repositories (default: cwd)
		Root WorkspaceRoot `json:"root" mapstructure:"root"`
		// Patterns restricts workspace runs to matching repository names.
		// Empty means all repositories.
		Patterns []RepoPattern `json:"patterns" mapstructure:"patterns"`
		// Parallel runs workspace tasks across repositories concurrently
		Parallel bool `json:"parallel" mapstructure:"parallel"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the TaskfileName.
func (n TaskfileName) String() string { return string(n) }

// OrDefault returns the configured name, or DefaultTaskfileName for the zero value.
func (n TaskfileName) OrDefault() string {
	if n == "" {
		return DefaultTaskfileName
	}
	return string(n)
}

// IsValid returns whether the TaskfileName is valid.
// The zero value ("") is valid (means "use DefaultTaskfileName").
// Non-zero values must not be whitespace-only and must not contain path separators.
func (n TaskfileName) IsValid() (bool, []error) {
	if n == "" {
		return true, nil
	}
	if strings.TrimSpace(string(n)) == "" {
		return false, []error{&InvalidTaskfileNameError{Value: n}}
	}
	if strings.ContainsAny(string(n), `/\`) {
		return false, []error{&InvalidTaskfileNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTaskfileNameError.
func (e *InvalidTaskfileNameError) Error() string {
	return fmt.Sprintf("invalid task file name %q: must be a bare, non-blank file name", e.Value)
}

// Unwrap returns ErrInvalidTaskfileName for errors.Is() compatibility.
func (e *InvalidTaskfileNameError) Unwrap() error { return ErrInvalidTaskfileName }

// Duration converts the timeout to a time.Duration.
func (s TimeoutSeconds) Duration() time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

// IsValid returns whether the TimeoutSeconds is strictly positive.
func (s TimeoutSeconds) IsValid() (bool, []error) {
	if s <= 0 {
		return false, []error{&InvalidTimeoutSecondsError{Value: s}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTimeoutSecondsError.
func (e *InvalidTimeoutSecondsError) Error() string {
	return fmt.Sprintf("invalid timeout %v: must be a positive number of seconds", float64(e.Value))
}

// Unwrap returns ErrInvalidTimeoutSeconds for errors.Is() compatibility.
func (e *InvalidTimeoutSecondsError) Unwrap() error { return ErrInvalidTimeoutSeconds }

// String returns the string representation of the WorkspaceRoot.
func (r WorkspaceRoot) String() string { return string(r) }

// IsValid returns whether the WorkspaceRoot is valid.
// The zero value ("") is valid (means "use the current directory").
// Non-zero values must not be whitespace-only.
func (r WorkspaceRoot) IsValid() (bool, []error) {
	if r == "" {
		return true, nil
	}
	if strings.TrimSpace(string(r)) == "" {
		return false, []error{&InvalidWorkspaceRootError{Value: r}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWorkspaceRootError.
func (e *InvalidWorkspaceRootError) Error() string {
	return fmt.Sprintf("invalid workspace root %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidWorkspaceRoot for errors.Is() compatibility.
func (e *InvalidWorkspaceRootError) Unwrap() error { return ErrInvalidWorkspaceRoot }

// String returns the string representation of the RepoPattern.
func (p RepoPattern) String() string { return string(p) }

// IsValid returns whether the RepoPattern is a well-formed path.Match pattern.
func (p RepoPattern) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidRepoPatternError{Value: p, Reason: "must be non-empty"}}
	}
	if _, err := path.Match(string(p), "probe"); err != nil {
		return false, []error{&InvalidRepoPatternError{Value: p, Reason: err.Error()}}
	}
	return true, nil
}

// Matches reports whether the repository name matches the pattern.
// Malformed patterns match nothing; IsValid surfaces them during validation.
func (p RepoPattern) Matches(name string) bool {
	ok, err := path.Match(string(p), name)
	return err == nil && ok
}

// Error implements the error interface for InvalidRepoPatternError.
func (e *InvalidRepoPatternError) Error() string {
	return fmt.Sprintf("invalid repository pattern %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidRepoPattern for errors.Is() compatibility.
func (e *InvalidRepoPatternError) Unwrap() error { return ErrInvalidRepoPattern }

// IsValid returns whether the WorkspaceConfig has valid fields.
// It delegates to Root.IsValid() and each pattern's IsValid(); the Parallel
// bool needs no validation.
func (c WorkspaceConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Root.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, pattern := range c.Patterns {
		if valid, fieldErrs := pattern.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidWorkspaceConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWorkspaceConfigError.
func (e *InvalidWorkspaceConfigError) Error() string {
	return fmt.Sprintf("invalid workspace config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidWorkspaceConfig for errors.Is() compatibility.
func (e *InvalidWorkspaceConfigError) Unwrap() error { return ErrInvalidWorkspaceConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to TaskfileName.IsValid(), DefaultTimeout.IsValid(),
// Workspace.IsValid(), and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.TaskfileName.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.DefaultTimeout.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Workspace.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TaskfileName:   "", // resolves to DefaultTaskfileName
		DefaultTimeout: DefaultTimeoutSeconds,
		Workspace: WorkspaceConfig{
			Root:     "", // resolves to the current directory
			Patterns: []RepoPattern{},
			Parallel: false,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
