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

import (
	"slices"

	"znkr.io/sheetdiff/internal/impl"
	"znkr.io/sheetdiff/internal/pairing"
	"znkr.io/sheetdiff/internal/rvecs"
)

type pair struct{ old, new int }

// axis links the old and new indices of one dimension of a grid. Links are created by the
// alignment (monotone, recorded in aligned) or by move detection.
type axis struct {
	oldTo, newTo []int // -1 if unlinked
	aligned      []pair
}

func newAxis(n, m int) *axis {
	a := &axis{oldTo: make([]int, n), newTo: make([]int, m)}
	for i := range a.oldTo {
		a.oldTo[i] = -1
	}
	for i := range a.newTo {
		a.newTo[i] = -1
	}
	return a
}

func (a *axis) link(o, n int) {
	a.oldTo[o] = n
	a.newTo[n] = o
}

func (a *axis) align(o, n int) {
	a.link(o, n)
	a.aligned = append(a.aligned, pair{o, n})
}

// pairs returns all links ordered by old index.
func (a *axis) pairs() []pair {
	var out []pair
	for o, n := range a.oldTo {
		if n >= 0 {
			out = append(out, pair{o, n})
		}
	}
	return out
}

// slots maps old and new indices of ps to their position in ps, unmapped indices map to -1.
func slots(ps []pair, n, m int) (slotOld, slotNew []int) {
	slotOld, slotNew = make([]int, n), make([]int, m)
	for i := range slotOld {
		slotOld[i] = -1
	}
	for i := range slotNew {
		slotNew[i] = -1
	}
	for k, p := range ps {
		slotOld[p.old] = k
		slotNew[p.new] = k
	}
	return
}

// align computes the column alignment and then the row alignment of the sheet.
func (sd *sheetDiff) align() {
	sd.cols = sd.alignColumns()
	sd.rows = sd.alignRows()
}

// alignColumns aligns columns by their content. Columns that Myers can't match are paired by the
// overlap of their cell contents, which is independent of row insertions.
func (sd *sheetDiff) alignColumns() *axis {
	o, n := sd.old, sd.new
	x := make([]uint64, o.ncols)
	for c := range x {
		x[c] = sd.h.line(o.cols[c], nil)
	}
	y := make([]uint64, n.ncols)
	for c := range y {
		y[c] = sd.h.line(n.cols[c], nil)
	}

	ax := newAxis(o.ncols, n.ncols)
	rx, ry := impl.Diff(x, y, *sd.cfg)
	budget := sd.pairingBudget(o.ncols + n.ncols)
	for seg := range rvecs.Segments(rx, ry) {
		if seg.Match {
			for i := range seg.S1 - seg.S0 {
				ax.align(seg.S0+i, seg.T0+i)
			}
			continue
		}
		ns, nt := seg.S1-seg.S0, seg.T1-seg.T0
		if ns == 0 || nt == 0 {
			continue
		}
		xb, yb := make([][]uint64, ns), make([][]uint64, nt)
		for s := range xb {
			xb[s] = bag(o.cols[seg.S0+s])
		}
		for t := range yb {
			yb[t] = bag(n.cols[seg.T0+t])
		}
		sim := func(s, t int) float64 { return bagSimilarity(xb[s], yb[t]) }
		pairGap(ax, seg, sim, sd.cfg.ColumnSimilarityMin, budget)
	}
	return ax
}

// alignRows aligns rows by their content in the aligned columns. Rows that Myers can't match are
// paired by the fraction of equal cells.
func (sd *sheetDiff) alignRows() *axis {
	o, n := sd.old, sd.new
	slotOld, slotNew := slots(sd.cols.aligned, o.ncols, n.ncols)
	sd.rowSigOld = make([]uint64, o.nrows)
	for r := range sd.rowSigOld {
		sd.rowSigOld[r] = sd.h.line(o.rows[r], slotOld)
	}
	sd.rowSigNew = make([]uint64, n.nrows)
	for r := range sd.rowSigNew {
		sd.rowSigNew[r] = sd.h.line(n.rows[r], slotNew)
	}

	ax := newAxis(o.nrows, n.nrows)
	rx, ry := impl.Diff(sd.rowSigOld, sd.rowSigNew, *sd.cfg)
	budget := sd.pairingBudget(o.nrows + n.nrows)
	for seg := range rvecs.Segments(rx, ry) {
		if seg.Match {
			for i := range seg.S1 - seg.S0 {
				ax.align(seg.S0+i, seg.T0+i)
			}
			continue
		}
		ns, nt := seg.S1-seg.S0, seg.T1-seg.T0
		if ns == 0 || nt == 0 {
			continue
		}
		xs, ys := make([][]slotCell, ns), make([][]slotCell, nt)
		for s := range xs {
			xs[s] = slotLine(o.rows[seg.S0+s], slotOld)
		}
		for t := range ys {
			ys[t] = slotLine(n.rows[seg.T0+t], slotNew)
		}
		sim := func(s, t int) float64 { return similarity(xs[s], ys[t]) }
		pairGap(ax, seg, sim, sd.cfg.RowSimilarityMin, budget)
	}
	return ax
}

// pairGap pairs the lines of an alignment gap by similarity. A gap with the same number of lines
// on both sides and no similar lines at all is paired positionally, its content was replaced in
// place.
func pairGap(ax *axis, seg rvecs.Segment, sim func(s, t int) float64, threshold float64, budget int) {
	ns, nt := seg.S1-seg.S0, seg.T1-seg.T0
	ps := pairing.Monotone(ns, nt, sim, threshold, budget)
	if len(ps) == 0 && ns == nt {
		for i := range ns {
			ax.align(seg.S0+i, seg.T0+i)
		}
		return
	}
	for _, p := range ps {
		ax.align(seg.S0+p.S, seg.T0+p.T)
	}
}

// pairingBudget scales the configured pairing budget by the average number of cells that a single
// similarity computation has to look at.
func (sd *sheetDiff) pairingBudget(lines int) int {
	perLine := (sd.old.ncells + sd.new.ncells) / max(1, lines)
	return sd.cfg.MaxPairingCells / max(1, perLine)
}

// bag returns the sorted cell hashes of a line.
func bag(line []cellAt) []uint64 {
	out := make([]uint64, len(line))
	for i, c := range line {
		out[i] = c.hash
	}
	slices.Sort(out)
	return out
}
