// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"

	"taskmill-cli/internal/execenv"
)

// Preview is the resolved execution of an invocation without the execution:
// the exact command line, working directory, and child environment a call to
// Execute would use.
type Preview struct {
	// Command is the final command line, passthrough arguments appended and
	// the execution-environment prefix applied.
	Command string
	// Dir is the effective working directory.
	Dir string
	// Env is the fully merged child environment.
	Env map[string]string
	// Decision is the execution-environment decision that shaped Command
	// and Env.
	Decision *execenv.Decision
}

// Preview resolves the invocation the same way Execute does, stopping short
// of spawning the process. Composite tasks have no single command line and
// are rejected.
func (e *ShellExecutor) Preview(inv *Invocation) (*Preview, error) {
	if inv.Task.IsComposite() {
		return nil, fmt.Errorf("task %q is composite; preview its steps individually", inv.Task.Name)
	}

	command, err := buildCommandLine(inv)
	if err != nil {
		return nil, err
	}

	decision := e.detector().Detect(inv.Task, inv.Root, inv.PackageName)

	return &Preview{
		Command:  decision.Apply(command),
		Dir:      inv.workDir(),
		Env:      buildEnv(e.environ(), inv, decision),
		Decision: decision,
	}, nil
}
