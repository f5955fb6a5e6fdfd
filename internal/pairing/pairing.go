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

// Package pairing pairs the unmatched elements inside of an alignment gap by similarity.
package pairing

import "slices"

// Pair is a pair of indices into the two sides of a gap.
type Pair struct{ S, T int }

const (
	skipS byte = iota
	skipT
	match
)

// Monotone returns a monotone sequence of pairs (s, t) with 0 <= s < n and 0 <= t < m that
// maximizes the sum of sim(s, t). Only pairs with sim(s, t) >= threshold are considered.
//
// The search needs O(n*m) time and space. If n*m exceeds budget, elements are paired
// positionally instead.
func Monotone(n, m int, sim func(s, t int) float64, threshold float64, budget int) []Pair {
	if n == 0 || m == 0 {
		return nil
	}
	if n > budget/m {
		return positional(n, m, sim, threshold)
	}

	w := m + 1
	score := make([]float64, (n+1)*w)
	moves := make([]byte, (n+1)*w)
	for s := 1; s <= n; s++ {
		for t := 1; t <= m; t++ {
			best, mv := score[(s-1)*w+t], skipS
			if v := score[s*w+t-1]; v > best {
				best, mv = v, skipT
			}
			if v := sim(s-1, t-1); v >= threshold {
				if p := score[(s-1)*w+t-1] + v; p > best {
					best, mv = p, match
				}
			}
			score[s*w+t] = best
			moves[s*w+t] = mv
		}
	}

	var out []Pair
	for s, t := n, m; s > 0 && t > 0; {
		switch moves[s*w+t] {
		case match:
			out = append(out, Pair{s - 1, t - 1})
			s--
			t--
		case skipT:
			t--
		default:
			s--
		}
	}
	slices.Reverse(out)
	return out
}

func positional(n, m int, sim func(s, t int) float64, threshold float64) []Pair {
	var out []Pair
	for i := range min(n, m) {
		if sim(i, i) >= threshold {
			out = append(out, Pair{i, i})
		}
	}
	return out
}
