// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"testing"

	"taskmill-cli/internal/testutil/tasktest"
	"taskmill-cli/pkg/taskfile"
)

func TestFormatTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		task   string
		format taskfile.TitleFormat
		want   string
	}{
		{
			name:   "full dotted name",
			task:   "db.migrate.up",
			format: taskfile.TitleFull,
			want:   "tm: db.migrate.up",
		},
		{
			name:   "leaf keeps last segment",
			task:   "db.migrate.up",
			format: taskfile.TitleLeaf,
			want:   "tm: up",
		},
		{
			name:   "abbreviated elides middle segments",
			task:   "db.migrate.up",
			format: taskfile.TitleAbbreviated,
			want:   "tm: db...up",
		},
		{
			name:   "abbreviated two segments falls back to full",
			task:   "db.migrate",
			format: taskfile.TitleAbbreviated,
			want:   "tm: db.migrate",
		},
		{
			name:   "abbreviated single segment falls back to full",
			task:   "build",
			format: taskfile.TitleAbbreviated,
			want:   "tm: build",
		},
		{
			name:   "leaf of single segment is the name itself",
			task:   "build",
			format: taskfile.TitleLeaf,
			want:   "tm: build",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			task := tasktest.NewTask(tt.task, tasktest.WithTitleFormat(tt.format))
			if got := FormatTitle(task); got != tt.want {
				t.Errorf("FormatTitle(%q, %s) = %q, want %q", tt.task, tt.format, got, tt.want)
			}
		})
	}
}
