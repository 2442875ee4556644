// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"taskmill-cli/pkg/taskfile"
)

// TitlePrefix is prepended to every child process title so running tasks are
// recognizable in ps output.
const TitlePrefix = "tm: "

// FormatTitle renders the process title for a running task according to its
// process_title_format:
//
//	full        tm: test.unit.coverage
//	leaf        tm: coverage
//	abbreviated tm: test...coverage (full name when depth <= 2)
func FormatTitle(task *taskfile.Task) string {
	return TitlePrefix + formatTitleName(task)
}

func formatTitleName(task *taskfile.Task) string {
	name := task.Name
	switch task.TitleFormat {
	case taskfile.TitleLeaf:
		return name.Leaf()
	case taskfile.TitleAbbreviated:
		segments := name.Segments()
		if len(segments) <= 2 {
			return string(name)
		}
		return segments[0] + "..." + segments[len(segments)-1]
	default:
		return string(name)
	}
}
