// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"taskmill-cli/internal/workspace"
)

func TestRenderWorkspaceReport_MixedOutcomes(t *testing.T) {
	t.Parallel()

	report := &workspace.Report{
		TaskName: "test",
		Repos: []workspace.RepoResult{
			{
				Repo:   workspace.Repo{Name: "svc-checkout", Path: "/ws/svc-checkout"},
				Status: workspace.StatusSucceeded,
			},
			{
				Repo:   workspace.Repo{Name: "svc-billing", Path: "/ws/svc-billing"},
				Status: workspace.StatusFailed,
				Reason: "task \"test\" exited with code 2",
			},
			{
				Repo:   workspace.Repo{Name: "lib-core", Path: "/ws/lib-core"},
				Status: workspace.StatusSkipped,
				Reason: "no task file",
			},
		},
		Total:     3,
		Succeeded: 1,
		Failed:    1,
		Skipped:   1,
		Duration:  1530 * time.Millisecond,
	}

	var buf bytes.Buffer
	renderWorkspaceReport(&buf, report)
	out := buf.String()

	for _, token := range []string{
		"Workspace run: test",
		"✓ svc-checkout",
		"✗ svc-billing",
		"exited with code 2",
		"- lib-core",
		"no task file",
		"Total:", "3",
		"Succeeded:", "1",
		"Failed:",
		"Skipped:",
		"Duration:", "1.53s",
		"Failed repositories:",
		"svc-billing:",
	} {
		if !strings.Contains(out, token) {
			t.Errorf("renderWorkspaceReport output missing %q:\n%s", token, out)
		}
	}
}

func TestRenderWorkspaceReport_AllSucceeded(t *testing.T) {
	t.Parallel()

	report := &workspace.Report{
		TaskName: "build",
		Repos: []workspace.RepoResult{
			{Repo: workspace.Repo{Name: "svc-checkout"}, Status: workspace.StatusSucceeded},
			{Repo: workspace.Repo{Name: "svc-billing"}, Status: workspace.StatusSucceeded},
		},
		Total:     2,
		Succeeded: 2,
		Duration:  200 * time.Millisecond,
	}

	var buf bytes.Buffer
	renderWorkspaceReport(&buf, report)
	out := buf.String()

	if strings.Contains(out, "Failed repositories:") {
		t.Errorf("renderWorkspaceReport output should not list failures:\n%s", out)
	}
	if strings.Contains(out, "not attempted") {
		t.Errorf("renderWorkspaceReport output should not mention unattempted repos:\n%s", out)
	}
}

func TestRenderWorkspaceReport_FailFastStop(t *testing.T) {
	t.Parallel()

	// Five discovered, the run stopped after the second: the remaining three
	// are absent from Repos and reported as not attempted.
	report := &workspace.Report{
		TaskName: "lint",
		Repos: []workspace.RepoResult{
			{Repo: workspace.Repo{Name: "svc-checkout"}, Status: workspace.StatusSucceeded},
			{Repo: workspace.Repo{Name: "svc-billing"}, Status: workspace.StatusFailed, Reason: "task \"lint\" exited with code 1"},
		},
		Total:     5,
		Succeeded: 1,
		Failed:    1,
		Duration:  400 * time.Millisecond,
	}

	var buf bytes.Buffer
	renderWorkspaceReport(&buf, report)
	out := buf.String()

	if !strings.Contains(out, "3 not attempted after fail-fast stop") {
		t.Errorf("renderWorkspaceReport output missing fail-fast notice:\n%s", out)
	}
}
