// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"maps"
	"testing"
)

func TestParseEnvPairs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "no pairs returns nil map",
			pairs: nil,
			want:  nil,
		},
		{
			name:  "single pair",
			pairs: []string{"DEBUG=1"},
			want:  map[string]string{"DEBUG": "1"},
		},
		{
			name:  "empty value is allowed",
			pairs: []string{"EMPTY="},
			want:  map[string]string{"EMPTY": ""},
		},
		{
			name:  "value may contain equals signs",
			pairs: []string{"OPTS=-race -count=1"},
			want:  map[string]string{"OPTS": "-race -count=1"},
		},
		{
			name:  "later pair wins",
			pairs: []string{"MODE=fast", "MODE=slow"},
			want:  map[string]string{"MODE": "slow"},
		},
		{
			name:    "missing equals is rejected",
			pairs:   []string{"DEBUG"},
			wantErr: true,
		},
		{
			name:    "empty key is rejected",
			pairs:   []string{"=value"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseEnvPairs(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseEnvPairs(%v) error = %v, wantErr %v", tt.pairs, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !maps.Equal(got, tt.want) {
				t.Errorf("parseEnvPairs(%v) = %v, want %v", tt.pairs, got, tt.want)
			}
		})
	}
}
