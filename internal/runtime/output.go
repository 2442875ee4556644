// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"io"
)

type (
	// executeOutput configures where child output is directed. It abstracts
	// the difference between streaming (to the invocation's writers) and
	// capturing (to buffers recorded in the TaskResult).
	executeOutput struct {
		stdout io.Writer
		stderr io.Writer
		// captured is non-nil in capture mode and holds the buffers to
		// read back after the process exits
		captured *capturedOutput
	}

	// capturedOutput holds the captured stdout and stderr buffers.
	capturedOutput struct {
		stdout bytes.Buffer
		stderr bytes.Buffer
	}
)

// outputFor selects the output mode from the task's stream_output switch.
func outputFor(inv *Invocation) *executeOutput {
	if inv.Task.StreamOutput {
		return &executeOutput{stdout: inv.Stdout, stderr: inv.Stderr}
	}
	captured := &capturedOutput{}
	return &executeOutput{
		stdout:   &captured.stdout,
		stderr:   &captured.stderr,
		captured: captured,
	}
}

// fill copies the captured buffers into a result. Streaming mode leaves the
// result buffers empty.
func (o *executeOutput) fill(result *TaskResult) {
	if o.captured == nil {
		return
	}
	result.Stdout = o.captured.stdout.String()
	result.Stderr = o.captured.stderr.String()
}
