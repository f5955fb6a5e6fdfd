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

// Package impl aligns two sequences of row or column signatures with Myers' algorithm.
//
// The result is a pair of result vectors (see internal/rvecs): rx[s] is set if x[s] is not part of
// the alignment, ry[t] is set if y[t] is not part of the alignment. Both vectors carry one extra
// element at the end to simplify iteration.
package impl

import (
	"znkr.io/sheetdiff/internal/config"
	"znkr.io/sheetdiff/internal/rvecs"
)

// Diff computes an alignment of x and y.
//
// Unless cfg.MinimalAlignment is set, the TOO_EXPENSIVE heuristic bounds the cost for large inputs
// with many differences. The alignment is then no longer guaranteed to be a longest common
// subsequence, but it is always monotone.
func Diff[T comparable](x, y []T, cfg config.Config) (rx, ry []bool) {
	rx, ry = rvecs.Make(x, y)
	smin, smax, tmin, tmax := trimCommon(x, y)
	if handleTrivialBounds(rx, ry, smin, smax, tmin, tmax) {
		return rx, ry
	}

	// Signatures unique to one side are always unmatched. Dropping them before running Myers is
	// what keeps large sheets with mostly rewritten rows cheap. The remaining signatures are
	// renumbered to dense ids so that the search only compares ints.
	ids := make(map[T]int, smax-smin)
	for s := smin; s < smax; s++ {
		if ids[x[s]] == 0 {
			ids[x[s]] = -(len(ids) + 1)
		}
	}
	for t := tmin; t < tmax; t++ {
		if id := ids[y[t]]; id < 0 {
			ids[y[t]] = -id // seen in both
		}
	}

	var x0, y0, xidx, yidx []int
	for s := smin; s < smax; s++ {
		if id := ids[x[s]]; id > 0 {
			x0 = append(x0, id)
			xidx = append(xidx, s)
		} else {
			rx[s] = true
		}
	}
	for t := tmin; t < tmax; t++ {
		if id := ids[y[t]]; id > 0 {
			y0 = append(y0, id)
			yidx = append(yidx, t)
		} else {
			ry[t] = true
		}
	}

	m := myers{xidx: xidx, yidx: yidx, rx: rx, ry: ry}
	smin0, smax0, tmin0, tmax0 := m.init(x0, y0)
	m.compare(smin0, smax0, tmin0, tmax0, cfg.MinimalAlignment)
	return rx, ry
}

// trimCommon returns the bounds of x and y without their common prefix and suffix.
func trimCommon[T comparable](x, y []T) (smin, smax, tmin, tmax int) {
	smax, tmax = len(x), len(y)
	for smin < smax && tmin < tmax && x[smin] == y[tmin] {
		smin++
		tmin++
	}
	for smax > smin && tmax > tmin && x[smax-1] == y[tmax-1] {
		smax--
		tmax--
	}
	return
}

// handleTrivialBounds marks everything inside of the bounds as unmatched if one side is empty and
// reports if it did so.
func handleTrivialBounds(rx, ry []bool, smin, smax, tmin, tmax int) bool {
	switch {
	case smin == smax && tmin == tmax:
		return true
	case tmin == tmax:
		for s := smin; s < smax; s++ {
			rx[s] = true
		}
		return true
	case smin == smax:
		for t := tmin; t < tmax; t++ {
			ry[t] = true
		}
		return true
	}
	return false
}
