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
	"cmp"
	"slices"
)

type moveKind int

const (
	moveRows moveKind = iota
	moveCols
	moveRect
)

// box is a rectangle in projection coordinates.
type box struct{ i0, j0, h, w int }

func (b box) contains(i, j int) bool {
	return b.i0 <= i && i < b.i0+b.h && b.j0 <= j && j < b.j0+b.w
}

func (b box) overlaps(o box) bool {
	return b.i0 < o.i0+o.h && o.i0 < b.i0+b.h && b.j0 < o.j0+o.w && o.j0 < b.j0+b.w
}

// rectMove is a rectangle moved by (di, dj) in projection coordinates.
type rectMove struct {
	src    box
	di, dj int
}

func (r rectMove) dst() box {
	return box{r.src.i0 + r.di, r.src.j0 + r.dj, r.src.h, r.src.w}
}

// projection is the grid spanned by the aligned row and column pairs. Rectangle moves are found
// and recorded in this coordinate system: projection cell (i, j) is old cell
// (rows[i].old, cols[j].old) and new cell (rows[i].new, cols[j].new).
type projection struct {
	rows, cols   []pair
	rowOf, colOf []int // old index to projection index, -1 if not aligned
	srcs, dsts   []box // sources and destinations of detected rectangle moves
}

func newProjection(rows, cols *axis) *projection {
	p := &projection{rows: rows.aligned, cols: cols.aligned}
	p.rowOf, _ = slots(p.rows, len(rows.oldTo), len(rows.newTo))
	p.colOf, _ = slots(p.cols, len(cols.oldTo), len(cols.newTo))
	return p
}

// masked reports if (i, j) lies in the source or the destination of a rectangle move.
func (p *projection) masked(i, j int) bool {
	return p.vacated(i, j) || p.covered(i, j)
}

// vacated reports if (i, j) lies in the source of a rectangle move. Only the old cell is explained
// by the move; the new cell there is compared against a blank cell.
func (p *projection) vacated(i, j int) bool {
	return slices.ContainsFunc(p.srcs, func(m box) bool { return m.contains(i, j) })
}

// covered reports if (i, j) lies in the destination of a rectangle move. The new cell is compared
// against the source of the move and the old cell is replaced by it.
func (p *projection) covered(i, j int) bool {
	return slices.ContainsFunc(p.dsts, func(m box) bool { return m.contains(i, j) })
}

// candidate is a potential move. Line moves use src, dst and n; rectangle moves use rect.
type candidate struct {
	kind        moveKind
	src, dst, n int
	rect        rectMove
	area        int
	row, col    int // source position in the old grid
}

// better orders candidates by area, then by source position (row before column) and finally by
// kind.
func (c candidate) better(o candidate) bool {
	if c.area != o.area {
		return c.area > o.area
	}
	if r := cmp.Or(
		cmp.Compare(c.row, o.row),
		cmp.Compare(c.col, o.col),
		cmp.Compare(c.kind, o.kind),
		cmp.Compare(c.dst, o.dst),
		cmp.Compare(c.rect.di, o.rect.di),
		cmp.Compare(c.rect.dj, o.rect.dj),
	); r != 0 {
		return r < 0
	}
	return false
}

// detectMoves repeatedly picks the best move candidate and applies it until there are no more
// candidates or the iteration budget is exhausted.
func (sd *sheetDiff) detectMoves() {
	sd.proj = newProjection(sd.rows, sd.cols)
	for iter := 0; iter < sd.cfg.MaxMoveIterations; iter++ {
		var best candidate
		found := false
		consider := func(c candidate, ok bool) {
			if ok && (!found || c.better(best)) {
				best, found = c, true
			}
		}
		consider(sd.lineMove(moveRows))
		consider(sd.lineMove(moveCols))
		consider(sd.rectMove())
		if !found {
			break
		}
		sd.applyMove(best)
		sd.progress.report(PhaseMoveDetection, float64(iter+1)/float64(sd.cfg.MaxMoveIterations))
	}
}

// lineSet is one dimension of the sheet as seen by line move detection.
type lineSet struct {
	old, new  [][]cellAt
	ax, cross *axis
	crossLen  int
}

func (sd *sheetDiff) lineSet(kind moveKind) lineSet {
	if kind == moveRows {
		return lineSet{sd.old.rows, sd.new.rows, sd.rows, sd.cols, max(sd.old.ncols, sd.new.ncols)}
	}
	return lineSet{sd.old.cols, sd.new.cols, sd.cols, sd.rows, max(sd.old.nrows, sd.new.nrows)}
}

// lineMove finds the largest block of unlinked old lines that reappears as a block of unlinked
// new lines. Blocks are seeded by exact line signatures and extended in both directions as long
// as the cumulative number of differing cells stays within the fuzz tolerance.
func (sd *sheetDiff) lineMove(kind moveKind) (candidate, bool) {
	ls := sd.lineSet(kind)
	var dels, ins []int
	for s, t := range ls.ax.oldTo {
		if t < 0 {
			dels = append(dels, s)
		}
	}
	for t, s := range ls.ax.newTo {
		if s < 0 {
			ins = append(ins, t)
		}
	}
	if len(dels) == 0 || len(ins) == 0 {
		return candidate{}, false
	}

	// Signatures cover all linked cross lines, including moved ones.
	slotOld, slotNew := slots(ls.cross.pairs(), len(ls.cross.oldTo), len(ls.cross.newTo))
	oldCells, oldSig := make([][]slotCell, len(ls.old)), make([]uint64, len(ls.old))
	for _, s := range dels {
		oldCells[s] = slotLine(ls.old[s], slotOld)
		oldSig[s] = sd.h.slottedLine(oldCells[s])
	}
	newCells, newSig := make([][]slotCell, len(ls.new)), make([]uint64, len(ls.new))
	for _, t := range ins {
		newCells[t] = slotLine(ls.new[t], slotNew)
		newSig[t] = sd.h.slottedLine(newCells[t])
	}

	repeats := make(map[uint64]int)
	for _, s := range dels {
		if len(oldCells[s]) > 0 {
			repeats[oldSig[s]]++
		}
	}
	byHash := make(map[uint64][]int)
	for _, t := range ins {
		if len(newCells[t]) > 0 {
			byHash[newSig[t]] = append(byHash[newSig[t]], t)
		}
	}

	tol := sd.cfg.MoveFuzzTolerance
	var best candidate
	found := false
	anchor := func(s int) bool {
		if len(oldCells[s]) == 0 {
			return false // blank lines are no anchors
		}
		n := len(byHash[oldSig[s]])
		return n > 0 && n <= sd.cfg.MaxHashRepeat && repeats[oldSig[s]] <= sd.cfg.MaxHashRepeat
	}
	for _, s := range dels {
		if !anchor(s) {
			continue
		}
		for _, t := range byHash[oldSig[s]] {
			// The block starting at an anchored predecessor covers this one.
			if s > 0 && t > 0 && ls.ax.oldTo[s-1] < 0 && ls.ax.newTo[t-1] < 0 && anchor(s-1) && oldSig[s-1] == newSig[t-1] {
				continue
			}
			fuzz := 0
			step := func(s, t int) bool {
				if s < 0 || t < 0 || s >= len(ls.old) || t >= len(ls.new) || ls.ax.oldTo[s] >= 0 || ls.ax.newTo[t] >= 0 {
					return false
				}
				if oldSig[s] == newSig[t] {
					return true
				}
				d, _ := lineDiff(oldCells[s], newCells[t])
				if fuzz+d > tol {
					return false
				}
				fuzz += d
				return true
			}
			lo := 0
			for step(s-lo-1, t-lo-1) {
				lo++
			}
			hi := 0
			for step(s+hi+1, t+hi+1) {
				hi++
			}
			n := lo + 1 + hi
			c := candidate{kind: kind, src: s - lo, dst: t - lo, n: n, area: n * max(1, ls.crossLen)}
			if kind == moveRows {
				c.row = c.src
			} else {
				c.col = c.src
			}
			if !found || c.better(best) {
				best, found = c, true
			}
		}
	}
	return best, found
}

type cellPos struct{ i, j int }

// rectMove finds the largest rectangle that moved within the projection. Differing cells of the
// new grid vote for the offsets to old cells with the same content, every connected group of
// source cells of one offset is a candidate.
func (sd *sheetDiff) rectMove() (candidate, bool) {
	p := sd.proj
	if len(p.rows) == 0 || len(p.cols) == 0 {
		return candidate{}, false
	}
	slotOld, slotNew := slots(p.cols, sd.old.ncols, sd.new.ncols)

	type diffCell struct {
		pos  cellPos
		hash uint64
	}
	oldByHash := make(map[uint64][]cellPos)
	var newDiffs []diffCell
	for i, rp := range p.rows {
		a := slotLine(sd.old.rows[rp.old], slotOld)
		b := slotLine(sd.new.rows[rp.new], slotNew)
		addOld := func(c slotCell) {
			if !p.masked(i, c.slot) {
				oldByHash[c.hash] = append(oldByHash[c.hash], cellPos{i, c.slot})
			}
		}
		addNew := func(c slotCell) {
			if !p.masked(i, c.slot) {
				newDiffs = append(newDiffs, diffCell{cellPos{i, c.slot}, c.hash})
			}
		}
		x, y := 0, 0
		for x < len(a) || y < len(b) {
			switch {
			case y == len(b) || x < len(a) && a[x].slot < b[y].slot:
				addOld(a[x])
				x++
			case x == len(a) || b[y].slot < a[x].slot:
				addNew(b[y])
				y++
			default:
				if a[x].hash != b[y].hash {
					addOld(a[x])
					addNew(b[y])
				}
				x++
				y++
			}
		}
	}

	votes := make(map[cellPos][]cellPos)
	for _, nd := range newDiffs {
		srcs := oldByHash[nd.hash]
		if len(srcs) > sd.cfg.MaxHashRepeat {
			continue
		}
		for _, s := range srcs {
			off := cellPos{nd.pos.i - s.i, nd.pos.j - s.j}
			if off != (cellPos{}) {
				votes[off] = append(votes[off], s)
			}
		}
	}
	var offsets []cellPos
	for off, srcs := range votes {
		if len(srcs) >= 2 {
			offsets = append(offsets, off)
		}
	}
	slices.SortFunc(offsets, comparePos)

	var best candidate
	found := false
	for _, off := range offsets {
		for _, b := range components(votes[off]) {
			r := rectMove{src: b, di: off.i, dj: off.j}
			if !sd.validRect(r) {
				continue
			}
			c := candidate{kind: moveRect, rect: r, area: b.h * b.w, row: p.rows[b.i0].old, col: p.cols[b.j0].old}
			if !found || c.better(best) {
				best, found = c, true
			}
		}
	}
	return best, found
}

func comparePos(a, b cellPos) int {
	return cmp.Or(cmp.Compare(a.i, b.i), cmp.Compare(a.j, b.j))
}

// components returns the bounding boxes of the 4-connected components of a set of cells.
func components(cells []cellPos) []box {
	set := make(map[cellPos]bool, len(cells))
	for _, c := range cells {
		set[c] = true
	}
	sorted := slices.Clone(cells)
	slices.SortFunc(sorted, comparePos)

	var out []box
	var stack []cellPos
	for _, start := range sorted {
		if !set[start] {
			continue
		}
		delete(set, start)
		stack = append(stack[:0], start)
		i0, i1, j0, j1 := start.i, start.i, start.j, start.j
		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			i0, i1, j0, j1 = min(i0, c.i), max(i1, c.i), min(j0, c.j), max(j1, c.j)
			for _, n := range [4]cellPos{{c.i - 1, c.j}, {c.i + 1, c.j}, {c.i, c.j - 1}, {c.i, c.j + 1}} {
				if set[n] {
					delete(set, n)
					stack = append(stack, n)
				}
			}
		}
		out = append(out, box{i0, j0, i1 - i0 + 1, j1 - j0 + 1})
	}
	return out
}

// validRect reports if r is a plausible move: source and destination are disjoint, unclaimed and
// contiguous in their grids and the content differs in only a few cells.
func (sd *sheetDiff) validRect(r rectMove) bool {
	p := sd.proj
	s, d := r.src, r.dst()
	area := s.h * s.w
	if area < 2 || d.i0 < 0 || d.j0 < 0 || d.i0+d.h > len(p.rows) || d.j0+d.w > len(p.cols) || s.overlaps(d) {
		return false
	}
	for _, m := range slices.Concat(p.srcs, p.dsts) {
		if m.overlaps(s) || m.overlaps(d) {
			return false
		}
	}
	for k := range s.h {
		if p.rows[s.i0+k].old != p.rows[s.i0].old+k || p.rows[d.i0+k].new != p.rows[d.i0].new+k {
			return false
		}
	}
	for k := range s.w {
		if p.cols[s.j0+k].old != p.cols[s.j0].old+k || p.cols[d.j0+k].new != p.cols[d.j0].new+k {
			return false
		}
	}
	tol := min(sd.cfg.MoveFuzzTolerance, area/4)
	mismatches := 0
	for a := range s.h {
		for b := range s.w {
			_, h1, _ := sd.old.at(p.rows[s.i0+a].old, p.cols[s.j0+b].old)
			_, h2, _ := sd.new.at(p.rows[d.i0+a].new, p.cols[d.j0+b].new)
			if h1 != h2 {
				mismatches++
				if mismatches > tol {
					return false
				}
			}
		}
	}
	return true
}

// applyMove links or masks the extents of a move and records its op.
func (sd *sheetDiff) applyMove(c candidate) {
	sd.metrics.MovesDetected++
	switch c.kind {
	case moveRows, moveCols:
		ls := sd.lineSet(c.kind)
		slotOld, _ := slots(ls.cross.pairs(), len(ls.cross.oldTo), len(ls.cross.newTo))
		sigs := make([]uint64, c.n)
		for k := range c.n {
			sigs[k] = sd.h.line(ls.old[c.src+k], slotOld)
			ls.ax.link(c.src+k, c.dst+k)
		}
		hash := sd.h.block(sigs)
		if c.kind == moveRows {
			sd.moves = append(sd.moves, BlockMovedRows{
				Sheet:       sd.name,
				SrcStartRow: c.src,
				RowCount:    c.n,
				DstStartRow: c.dst,
				BlockHash:   hash,
			})
		} else {
			sd.moves = append(sd.moves, BlockMovedColumns{
				Sheet:       sd.name,
				SrcStartCol: c.src,
				ColCount:    c.n,
				DstStartCol: c.dst,
				BlockHash:   hash,
			})
		}
	case moveRect:
		p := sd.proj
		r := c.rect
		s, d := r.src, r.dst()
		p.srcs = append(p.srcs, s)
		p.dsts = append(p.dsts, d)
		sd.rects = append(sd.rects, r)
		sigs := make([]uint64, 0, s.h*s.w)
		for a := range s.h {
			for b := range s.w {
				_, h, _ := sd.old.at(p.rows[s.i0+a].old, p.cols[s.j0+b].old)
				sigs = append(sigs, h)
			}
		}
		sd.moves = append(sd.moves, BlockMovedRect{
			Sheet:       sd.name,
			SrcStartRow: p.rows[s.i0].old,
			SrcRowCount: s.h,
			SrcStartCol: p.cols[s.j0].old,
			SrcColCount: s.w,
			DstStartRow: p.rows[d.i0].new,
			DstStartCol: p.cols[d.j0].new,
			BlockHash:   sd.h.block(sigs),
		})
	}
}
