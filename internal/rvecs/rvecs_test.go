// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rvecs

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name   string
		rx, ry string // "1" for unmatched elements
		want   []Segment
	}{
		{
			name: "empty",
			want: nil,
		},
		{
			name: "all-matched",
			rx:   "000",
			ry:   "000",
			want: []Segment{{0, 3, 0, 3, true}},
		},
		{
			name: "replace",
			rx:   "010",
			ry:   "010",
			want: []Segment{
				{0, 1, 0, 1, true},
				{1, 2, 1, 2, false},
				{2, 3, 2, 3, true},
			},
		},
		{
			name: "insert-and-delete",
			rx:   "0110",
			ry:   "010",
			want: []Segment{
				{0, 1, 0, 1, true},
				{1, 3, 1, 2, false},
				{3, 4, 2, 3, true},
			},
		},
		{
			name: "only-insertions",
			rx:   "",
			ry:   "11",
			want: []Segment{{0, 0, 0, 2, false}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx, ry := parse(tt.rx), parse(tt.ry)
			got := slices.Collect(Segments(rx, ry))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Segments(...) differs [-want,+got]:\n%s", diff)
			}
		})
	}
}

func parse(s string) []bool {
	r := make([]bool, len(s)+1)
	for i, c := range s {
		r[i] = c == '1'
	}
	return r
}
