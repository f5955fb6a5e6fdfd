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

package sheetdiff

// preflightDecision is the strategy chosen for a sheet before any expensive work is done.
type preflightDecision int

const (
	preflightFull       preflightDecision = iota // align, detect moves and diff cells
	preflightInOrder                             // few edits in otherwise identical rows
	preflightDissimilar                          // too little in common to align productively
)

func (d preflightDecision) String() string {
	switch d {
	case preflightFull:
		return "full"
	case preflightInOrder:
		return "in_order"
	case preflightDissimilar:
		return "dissimilar"
	default:
		panic("never reached")
	}
}

// preflight classifies a sheet by comparing positional row hashes. Only large sheets of equal
// shape are considered for a bypass.
func (sd *sheetDiff) preflight() preflightDecision {
	o, n := sd.old, sd.new
	if min(o.nrows, n.nrows) < sd.cfg.PreflightMinRows || o.nrows != n.nrows || o.ncols != n.ncols || o.nrows == 0 {
		return preflightFull
	}
	x := make([]uint64, o.nrows)
	y := make([]uint64, n.nrows)
	var mismatched []int
	for r := range x {
		x[r] = sd.h.line(o.rows[r], nil)
		y[r] = sd.h.line(n.rows[r], nil)
		if x[r] != y[r] {
			mismatched = append(mismatched, r)
		}
	}
	nrows := len(x)
	ratio := float64(nrows-len(mismatched)) / float64(nrows)
	if len(mismatched) <= sd.cfg.PreflightInOrderMismatchMax && ratio >= sd.cfg.PreflightInOrderMatchRatio && !reordered(x, y, mismatched) {
		return preflightInOrder
	}

	// Multiset similarity of row hashes, independent of the order of rows.
	counts := make(map[uint64]int, nrows)
	for _, h := range x {
		counts[h]++
	}
	common := 0
	for _, h := range y {
		if counts[h] > 0 {
			counts[h]--
			common++
		}
	}
	if float64(common)/float64(nrows) < sd.cfg.BailoutSimilarity {
		return preflightDissimilar
	}
	return preflightFull
}

// reordered reports if a mismatched old row reappears at another mismatched position in the new
// grid, in which case rows were swapped rather than edited.
func reordered(x, y []uint64, mismatched []int) bool {
	old := make(map[uint64]bool, len(mismatched))
	for _, r := range mismatched {
		old[x[r]] = true
	}
	for _, r := range mismatched {
		if old[y[r]] {
			return true
		}
	}
	return false
}
