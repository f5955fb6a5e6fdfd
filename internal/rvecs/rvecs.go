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

// Package rvecs contains functions to work with the result vectors, the internal representation
// that's used by the myers algorithm and is then translated into row and column pairs.
package rvecs

import "iter"

// Make allocates result vectors for x and y, each with one extra element at the end.
func Make[T any](x, y []T) (rx, ry []bool) {
	r := make([]bool, (len(x) + len(y) + 2))
	rx = r[: len(x)+1 : len(x)+1]
	ry = r[len(x)+1:]
	return
}

// Segment is a maximal run of matches or a maximal gap between two runs of matches.
//
// For a match, x[S0:S1] and y[T0:T1] have the same length and are aligned element by element. For
// a gap, x[S0:S1] are unmatched elements of x and y[T0:T1] unmatched elements of y; either side may
// be empty.
type Segment struct {
	S0, S1 int
	T0, T1 int
	Match  bool
}

// Segments returns the alternating sequence of matches and gaps described by rx and ry.
func Segments(rx, ry []bool) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		n, m := len(rx)-1, len(ry)-1
		s, t := 0, 0
		for s < n || t < m {
			s0, t0 := s, t
			if rx[s] || ry[t] {
				for s < n && rx[s] {
					s++
				}
				for t < m && ry[t] {
					t++
				}
				// Deletions and insertions may interleave, collect all of them into one gap.
				for (s < n && rx[s]) || (t < m && ry[t]) {
					for s < n && rx[s] {
						s++
					}
					for t < m && ry[t] {
						t++
					}
				}
				if !yield(Segment{s0, s, t0, t, false}) {
					return
				}
				continue
			}
			for s < n && t < m && !rx[s] && !ry[t] {
				s++
				t++
			}
			if !yield(Segment{s0, s, t0, t, true}) {
				return
			}
		}
	}
}
