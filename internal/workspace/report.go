// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"time"

	"taskmill-cli/internal/runtime"
)

type (
	// RepoStatus classifies one repository's outcome.
	RepoStatus string

	// RepoResult is the outcome of one repository's attempt. Result is the
	// last task result of the run, nil for skipped repositories.
	RepoResult struct {
		Repo   Repo
		Status RepoStatus
		Result *runtime.TaskResult
		// Reason explains a skip or failure for the summary table.
		Reason string
	}

	// Report aggregates a workspace run. Repos holds one entry per attempted
	// or skipped repository in the original discovery order; repositories a
	// fail-fast stop never reached are absent entirely, which is distinct
	// from skipped.
	Report struct {
		TaskName  string
		Repos     []RepoResult
		Total     int
		Succeeded int
		Failed    int
		Skipped   int
		Duration  time.Duration
	}
)

const (
	StatusSucceeded RepoStatus = "succeeded"
	StatusFailed    RepoStatus = "failed"
	StatusSkipped   RepoStatus = "skipped"
)

// Success reports whether every attempted repository succeeded. Skipped
// repositories never count against success.
func (r *Report) Success() bool {
	return r.Failed == 0
}

// FailedRepos returns the failed entries in report order.
func (r *Report) FailedRepos() []RepoResult {
	var failed []RepoResult
	for _, res := range r.Repos {
		if res.Status == StatusFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// newReport tallies the per-repo results into an aggregate.
func newReport(taskName string, total int, results []RepoResult, duration time.Duration) *Report {
	report := &Report{
		TaskName: taskName,
		Repos:    results,
		Total:    total,
		Duration: duration,
	}
	for _, res := range results {
		switch res.Status {
		case StatusSucceeded:
			report.Succeeded++
		case StatusFailed:
			report.Failed++
		case StatusSkipped:
			report.Skipped++
		}
	}
	return report
}
