// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	"taskmill-cli/internal/execenv"
	"taskmill-cli/internal/issue"
	"taskmill-cli/pkg/platform"
	"taskmill-cli/pkg/taskfile"
	"taskmill-cli/pkg/types"
)

// ShellExecutor runs task commands through the host shell.
type ShellExecutor struct {
	// Shell overrides the default shell
	Shell string
	// ShellArgs are arguments passed to the shell before the command string
	ShellArgs []string
	// Detector probes the execution environment. When nil, a default
	// detector using the real process environment is used.
	Detector *execenv.Detector
	// Environ returns the process environment as "KEY=VALUE" strings.
	// When nil, os.Environ() is used.
	Environ func() []string

	logger *log.Logger
}

// NewShellExecutor creates an executor logging through logger. A nil logger
// discards all output.
func NewShellExecutor(logger *log.Logger) *ShellExecutor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ShellExecutor{logger: logger}
}

// Execute runs the invocation's task synchronously and reports its outcome.
// Infrastructure failures (no shell, unescapable arguments) come back in the
// result's Err; a non-zero exit or a timeout kill is a normal failed result.
func (e *ShellExecutor) Execute(inv *Invocation) *TaskResult {
	shell, err := e.getShell()
	if err != nil {
		return newErrorResult(inv.Task, err)
	}

	command, err := buildCommandLine(inv)
	if err != nil {
		return newErrorResult(inv.Task, err)
	}

	decision := e.detector().Detect(inv.Task, inv.Root, inv.PackageName)
	command = decision.Apply(command)

	ctx, cancel := context.WithTimeout(inv.Context, inv.Task.Timeout)
	defer cancel()

	args := append(e.getShellArgs(shell), command)
	cmd := exec.CommandContext(ctx, shell, args...)
	if runtime.GOOS != platform.Windows {
		// Best-effort process title: argv[0] carries it on POSIX. Windows
		// rebuilds the command line from Args, so it stays untouched there.
		cmd.Args = append([]string{FormatTitle(inv.Task)}, args...)
	}
	cmd.Dir = inv.workDir()
	cmd.Env = EnvToSlice(buildEnv(e.environ(), inv, decision))
	cmd.Stdin = inv.Stdin

	output := outputFor(inv)
	cmd.Stdout = output.stdout
	cmd.Stderr = output.stderr

	e.logger.Debug("starting task",
		"task", inv.Task.Name,
		"command", command,
		"dir", cmd.Dir,
		"strategy", decision.Strategy,
		"timeout", inv.Task.Timeout)

	start := time.Now()
	runErr := cmd.Run()
	result := resultFor(inv.Task, runErr, ctx)
	result.Duration = time.Since(start)
	output.fill(result)

	if result.TimedOut {
		e.logger.Warn("task timed out",
			"task", inv.Task.Name,
			"timeout", inv.Task.Timeout)
	} else {
		e.logger.Debug("task finished",
			"task", inv.Task.Name,
			"code", result.ExitCode,
			"duration", result.Duration)
	}

	return result
}

// resultFor maps a cmd.Run error to a TaskResult. A deadline-expired context
// means the process was killed on timeout and reports the sentinel code 124.
func resultFor(task *taskfile.Task, runErr error, ctx context.Context) *TaskResult {
	if runErr == nil {
		return &TaskResult{Task: task}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TaskResult{Task: task, ExitCode: types.ExitCodeTimeout, TimedOut: true}
	}
	if exitErr, ok := errors.AsType[*exec.ExitError](runErr); ok {
		code := types.ExitCode(exitErr.ExitCode())
		if isValid, _ := code.IsValid(); !isValid {
			// Killed by a signal; there is no meaningful exit code.
			return newErrorResult(task, runErr)
		}
		return &TaskResult{Task: task, ExitCode: code}
	}
	return newErrorResult(task, fmt.Errorf("failed to execute command: %w", runErr))
}

// buildCommandLine appends the shell-escaped passthrough arguments to the
// task's command.
func buildCommandLine(inv *Invocation) (string, error) {
	command := inv.Task.Run.Command
	if command == "" {
		return "", fmt.Errorf("task %q has no command to execute", inv.Task.Name)
	}
	if len(inv.Passthrough) == 0 {
		return command, nil
	}

	quoted := make([]string, len(inv.Passthrough))
	for i, arg := range inv.Passthrough {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("cannot pass argument %q to the shell: %w", arg, err)
		}
		quoted[i] = q
	}
	return command + " " + strings.Join(quoted, " "), nil
}

// getShell determines which shell to use.
func (e *ShellExecutor) getShell() (string, error) {
	if e.Shell != "" {
		return e.Shell, nil
	}

	switch runtime.GOOS {
	case platform.Windows:
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		if cmdExe, err := exec.LookPath("cmd"); err == nil {
			return cmdExe, nil
		}
		return "", e.shellNotFoundError([]string{"pwsh", "powershell", "cmd"})
	default:
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell, nil
		}
		if bash, err := exec.LookPath("bash"); err == nil {
			return bash, nil
		}
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		return "", e.shellNotFoundError([]string{"$SHELL", "bash", "sh"})
	}
}

// getShellArgs returns the arguments to pass to the shell before the command
// string.
func (e *ShellExecutor) getShellArgs(shell string) []string {
	if len(e.ShellArgs) > 0 {
		return e.ShellArgs
	}

	base := strings.TrimSuffix(baseName(shell), ".exe")
	switch base {
	case "cmd":
		return []string{"/C"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		// Assume POSIX shell
		return []string{"-c"}
	}
}

// ErrNoShell reports that no usable shell exists on the system. Callers can
// match it with errors.Is to distinguish the case from other spawn failures.
var ErrNoShell = errors.New("no shell found")

// shellNotFoundError builds the actionable error reported when no usable
// shell exists on the system.
func (e *ShellExecutor) shellNotFoundError(attempted []string) error {
	return issue.NewErrorContext().
		WithOperation("find shell").
		WithResource("shells attempted: " + strings.Join(attempted, ", ")).
		WithSuggestion("Install bash or sh").
		WithSuggestion("Set the SHELL environment variable to your shell's path").
		Wrap(ErrNoShell).
		BuildError()
}

func (e *ShellExecutor) detector() *execenv.Detector {
	if e.Detector != nil {
		return e.Detector
	}
	return execenv.NewDetector()
}

func (e *ShellExecutor) environ() []string {
	if e.Environ != nil {
		return e.Environ()
	}
	return os.Environ()
}

// baseName extracts the final path element, handling both Unix and Windows
// separators regardless of the host OS.
func baseName(path string) string {
	if idx := strings.LastIndexAny(path, `/\`); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
