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

	"znkr.io/sheetdiff/internal/formula"
)

// cellDiff compares all linked cells and returns the ops for everything that move detection did
// not explain: replaced rectangles, cell edits and unlinked rows and columns.
func (sd *sheetDiff) cellDiff() []Op {
	cpairs := sd.cols.pairs()
	slotOld, slotNew := slots(cpairs, sd.old.ncols, sd.new.ncols)
	colProj := make([]int, len(cpairs))
	for k, cp := range cpairs {
		colProj[k] = -1
		if sd.proj != nil {
			colProj[k] = sd.proj.colOf[cp.old]
		}
	}

	// Scratch space indexed by column slot. stamp marks the slots of the current old row, seen
	// the ones that were matched by a cell of the new row.
	cells := make([]Cell, len(cpairs))
	stamp := make([]int, len(cpairs))
	seen := make([]int, len(cpairs))

	rpairs := sd.rows.pairs()
	var edits []CellEdited
	for n, rp := range rpairs {
		gen := n + 1
		i := -1
		if sd.proj != nil {
			i = sd.proj.rowOf[rp.old]
		}
		region := func(k int) (vacated, covered bool) {
			if i < 0 || colProj[k] < 0 {
				return false, false
			}
			return sd.proj.vacated(i, colProj[k]), sd.proj.covered(i, colProj[k])
		}

		orow, nrow := sd.old.rows[rp.old], sd.new.rows[rp.new]
		for _, c := range orow {
			if k := slotOld[c.idx]; k >= 0 {
				cells[k] = c.cell
				stamp[k] = gen
			}
		}
		for _, c := range nrow {
			k := slotNew[c.idx]
			if k < 0 {
				continue
			}
			vacated, covered := region(k)
			if covered {
				continue
			}
			from := CellAddress{rp.old, cpairs[k].old}
			to := CellAddress{rp.new, c.idx}
			if vacated || stamp[k] != gen {
				edits = append(edits, sd.edit(from, to, Cell{}, c.cell))
				continue
			}
			seen[k] = gen
			if !cells[k].Equal(c.cell) {
				edits = append(edits, sd.edit(from, to, cells[k], c.cell))
			}
		}
		for _, c := range orow {
			k := slotOld[c.idx]
			if k < 0 || seen[k] == gen {
				continue
			}
			if vacated, covered := region(k); vacated || covered {
				continue
			}
			edits = append(edits, sd.edit(CellAddress{rp.old, c.idx}, CellAddress{rp.new, cpairs[k].new}, c.cell, Cell{}))
		}

		sd.metrics.CellsCompared += len(orow) + len(nrow)
		if n%1024 == 0 {
			sd.progress.report(PhaseCellDiff, float64(n)/float64(len(rpairs)))
		}
	}
	edits = append(edits, sd.rectInteriorEdits()...)
	slices.SortFunc(edits, func(a, b CellEdited) int { return compareAddr(a.Addr, b.Addr) })
	sd.progress.report(PhaseCellDiff, 1)

	ops := sd.replaceRects(edits)
	return append(ops, sd.structuralOps()...)
}

// rectInteriorEdits compares the source of every rectangle move with its destination.
func (sd *sheetDiff) rectInteriorEdits() []CellEdited {
	var edits []CellEdited
	p := sd.proj
	for _, r := range sd.rects {
		s, d := r.src, r.dst()
		for a := range s.h {
			for b := range s.w {
				from := CellAddress{p.rows[s.i0+a].old, p.cols[s.j0+b].old}
				to := CellAddress{p.rows[d.i0+a].new, p.cols[d.j0+b].new}
				x, _, _ := sd.old.at(from.Row, from.Col)
				y, _, _ := sd.new.at(to.Row, to.Col)
				if !x.Equal(y) {
					edits = append(edits, sd.edit(from, to, x, y))
				}
			}
		}
	}
	return edits
}

// structuralOps returns the ops for all unlinked rows and columns. Signatures cover the linked
// cross lines.
func (sd *sheetDiff) structuralOps() []Op {
	var ops []Op
	for t, s := range sd.rows.newTo {
		if s < 0 {
			ops = append(ops, RowAdded{Sheet: sd.name, Row: t, RowSignature: signature(sd.rowSigNew[t])})
		}
	}
	for s, t := range sd.rows.oldTo {
		if t < 0 {
			ops = append(ops, RowRemoved{Sheet: sd.name, Row: s, RowSignature: signature(sd.rowSigOld[s])})
		}
	}
	slotOld, slotNew := slots(sd.rows.pairs(), sd.old.nrows, sd.new.nrows)
	for t, s := range sd.cols.newTo {
		if s < 0 {
			sig := signature(sd.h.line(sd.new.cols[t], slotNew))
			ops = append(ops, ColumnAdded{Sheet: sd.name, Col: t, ColSignature: sig})
		}
	}
	for s, t := range sd.cols.oldTo {
		if t < 0 {
			sig := signature(sd.h.line(sd.old.cols[s], slotOld))
			ops = append(ops, ColumnRemoved{Sheet: sd.name, Col: s, ColSignature: sig})
		}
	}
	return ops
}

// positional compares the grids cell by cell at equal addresses. Rows and columns beyond the
// common shape are reported as added or removed.
func (sd *sheetDiff) positional() []Op {
	o, n := sd.old, sd.new
	nr, nc := min(o.nrows, n.nrows), min(o.ncols, n.ncols)
	var edits []CellEdited
	for r := range nr {
		a, b := o.rows[r], n.rows[r]
		x, y := 0, 0
		for x < len(a) && a[x].idx < nc || y < len(b) && b[y].idx < nc {
			ax, by := nc, nc
			if x < len(a) {
				ax = a[x].idx
			}
			if y < len(b) {
				by = b[y].idx
			}
			switch {
			case ax < by:
				addr := CellAddress{r, ax}
				edits = append(edits, sd.edit(addr, addr, a[x].cell, Cell{}))
				x++
			case by < ax:
				addr := CellAddress{r, by}
				edits = append(edits, sd.edit(addr, addr, Cell{}, b[y].cell))
				y++
			default:
				if !a[x].cell.Equal(b[y].cell) {
					addr := CellAddress{r, ax}
					edits = append(edits, sd.edit(addr, addr, a[x].cell, b[y].cell))
				}
				x++
				y++
			}
		}
		sd.metrics.CellsCompared += len(a) + len(b)
		if r%1024 == 0 {
			sd.progress.report(PhaseCellDiff, float64(r)/float64(nr))
		}
	}
	sd.progress.report(PhaseCellDiff, 1)

	ops := sd.replaceRects(edits)
	for r := o.nrows; r < n.nrows; r++ {
		ops = append(ops, RowAdded{Sheet: sd.name, Row: r})
	}
	for r := n.nrows; r < o.nrows; r++ {
		ops = append(ops, RowRemoved{Sheet: sd.name, Row: r})
	}
	for c := o.ncols; c < n.ncols; c++ {
		ops = append(ops, ColumnAdded{Sheet: sd.name, Col: c})
	}
	for c := n.ncols; c < o.ncols; c++ {
		ops = append(ops, ColumnRemoved{Sheet: sd.name, Col: c})
	}
	return ops
}

// replaceRects collapses every 4-connected group of edits that fully covers its bounding box of
// at least RectReplaceMinCells cells into a RectReplaced op. edits must be sorted by address; the
// remaining edits are returned after the RectReplaced ops.
func (sd *sheetDiff) replaceRects(edits []CellEdited) []Op {
	minCells := sd.cfg.RectReplaceMinCells
	if minCells <= 0 || len(edits) < minCells {
		return editOps(edits)
	}
	cells := make([]cellPos, len(edits))
	edited := make(map[cellPos]bool, len(edits))
	for k, e := range edits {
		cells[k] = cellPos{e.Addr.Row, e.Addr.Col}
		edited[cells[k]] = true
	}
	full := func(b box) bool {
		for i := b.i0; i < b.i0+b.h; i++ {
			for j := b.j0; j < b.j0+b.w; j++ {
				if !edited[cellPos{i, j}] {
					return false
				}
			}
		}
		return true
	}
	covered := make(map[cellPos]bool)
	var ops []Op
	for _, b := range components(cells) {
		if area := b.h * b.w; area < minCells || area > len(edits) || !full(b) {
			continue
		}
		for i := b.i0; i < b.i0+b.h; i++ {
			for j := b.j0; j < b.j0+b.w; j++ {
				covered[cellPos{i, j}] = true
			}
		}
		ops = append(ops, RectReplaced{Sheet: sd.name, StartRow: b.i0, StartCol: b.j0, RowCount: b.h, ColCount: b.w})
	}
	for _, e := range edits {
		if !covered[cellPos{e.Addr.Row, e.Addr.Col}] {
			ops = append(ops, e)
		}
	}
	return ops
}

func editOps(edits []CellEdited) []Op {
	ops := make([]Op, len(edits))
	for k, e := range edits {
		ops[k] = e
	}
	return ops
}

func (sd *sheetDiff) edit(from, to CellAddress, x, y Cell) CellEdited {
	return CellEdited{
		Sheet:       sd.name,
		Addr:        to,
		From:        snapshot(from, x),
		To:          snapshot(to, y),
		FormulaDiff: classifyFormula(sd.in, x.Formula, y.Formula, to.Row-from.Row, to.Col-from.Col),
	}
}

// classifyFormula compares the formulas of a cell that moved by (dRows, dCols).
func classifyFormula(in *Interner, x, y StringID, dRows, dCols int) FormulaDiff {
	if x == y {
		return FormulaUnchanged
	}
	switch formula.Classify(in.Resolve(x), in.Resolve(y), dRows, dCols) {
	case formula.Unchanged:
		return FormulaUnchanged
	case formula.Added:
		return FormulaAdded
	case formula.Removed:
		return FormulaRemoved
	case formula.FormattingOnly:
		return FormulaFormattingOnly
	case formula.Filled:
		return FormulaFilled
	case formula.Semantic:
		return FormulaSemanticChange
	default:
		return FormulaUnclassified
	}
}
