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

package main

import (
	"errors"
	"fmt"

	"znkr.io/sheetdiff"
)

// mapping links the indices of one dimension of two grids as described by a list of ops.
type mapping struct {
	newToOld, oldToNew []int // -1 if unlinked
	added, removed     []bool
}

func newMapping(n, m int) *mapping {
	mp := &mapping{
		newToOld: make([]int, m),
		oldToNew: make([]int, n),
		added:    make([]bool, m),
		removed:  make([]bool, n),
	}
	for i := range mp.newToOld {
		mp.newToOld[i] = -1
	}
	for i := range mp.oldToNew {
		mp.oldToNew[i] = -1
	}
	return mp
}

func (mp *mapping) add(t int) error {
	if t < 0 || t >= len(mp.added) || mp.added[t] {
		return fmt.Errorf("invalid addition of %d", t)
	}
	mp.added[t] = true
	return nil
}

func (mp *mapping) remove(s int) error {
	if s < 0 || s >= len(mp.removed) || mp.removed[s] {
		return fmt.Errorf("invalid removal of %d", s)
	}
	mp.removed[s] = true
	return nil
}

func (mp *mapping) move(s, t int) error {
	if s < 0 || s >= len(mp.oldToNew) || t < 0 || t >= len(mp.newToOld) || mp.oldToNew[s] >= 0 || mp.newToOld[t] >= 0 {
		return fmt.Errorf("invalid move of %d to %d", s, t)
	}
	mp.oldToNew[s], mp.newToOld[t] = t, s
	return nil
}

// resolve links the remaining indices in order. Both sides must have the same number of
// remaining indices.
func (mp *mapping) resolve() error {
	var olds, news []int
	for s, t := range mp.oldToNew {
		if t < 0 && !mp.removed[s] {
			olds = append(olds, s)
		}
	}
	for t, s := range mp.newToOld {
		if s >= 0 && mp.added[t] {
			return fmt.Errorf("%d is both added and moved", t)
		}
		if s < 0 && !mp.added[t] {
			news = append(news, t)
		}
	}
	if len(olds) != len(news) {
		return fmt.Errorf("%d unaccounted old and %d unaccounted new indices", len(olds), len(news))
	}
	for k := range olds {
		mp.oldToNew[olds[k]], mp.newToOld[news[k]] = news[k], olds[k]
	}
	return nil
}

// check verifies that ops explain every cell of the new grid. A cell is explained if it's in an
// added row or column, in a replaced rectangle, in the vacated source of a moved rectangle, if it
// equals its source cell, or if a CellEdited op reports the change from its source cell.
func check(old, new *sheetdiff.Grid, ops []sheetdiff.Op) error {
	rows := newMapping(old.NRows(), new.NRows())
	cols := newMapping(old.NCols(), new.NCols())
	edits := make(map[sheetdiff.CellAddress]sheetdiff.CellEdited)
	var rects []sheetdiff.BlockMovedRect
	var replaced []sheetdiff.RectReplaced

	var errs []error
	for _, op := range ops {
		var err error
		switch op := op.(type) {
		case sheetdiff.RowAdded:
			err = rows.add(op.Row)
		case sheetdiff.RowRemoved:
			err = rows.remove(op.Row)
		case sheetdiff.ColumnAdded:
			err = cols.add(op.Col)
		case sheetdiff.ColumnRemoved:
			err = cols.remove(op.Col)
		case sheetdiff.BlockMovedRows:
			for k := range op.RowCount {
				err = errors.Join(err, rows.move(op.SrcStartRow+k, op.DstStartRow+k))
			}
		case sheetdiff.BlockMovedColumns:
			for k := range op.ColCount {
				err = errors.Join(err, cols.move(op.SrcStartCol+k, op.DstStartCol+k))
			}
		case sheetdiff.BlockMovedRect:
			rects = append(rects, op)
		case sheetdiff.RectReplaced:
			replaced = append(replaced, op)
		case sheetdiff.CellEdited:
			if _, dup := edits[op.Addr]; dup {
				err = fmt.Errorf("%v edited twice", op.Addr)
			}
			edits[op.Addr] = op
		default:
			err = fmt.Errorf("unexpected op %v", op.Kind())
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%v: %w", op.Kind(), err))
		}
	}
	if err := rows.resolve(); err != nil {
		errs = append(errs, fmt.Errorf("rows: %w", err))
	}
	if err := cols.resolve(); err != nil {
		errs = append(errs, fmt.Errorf("columns: %w", err))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	skip := make(map[sheetdiff.CellAddress]bool)
	for _, r := range replaced {
		for a := range r.RowCount {
			for b := range r.ColCount {
				skip[sheetdiff.CellAddress{Row: r.StartRow + a, Col: r.StartCol + b}] = true
			}
		}
	}
	// source maps the destination of a rectangle move to its source, vacated maps the new position
	// of the source to its old address. A vacated cell must be blank unless it is edited.
	source := make(map[sheetdiff.CellAddress]sheetdiff.CellAddress)
	vacated := make(map[sheetdiff.CellAddress]sheetdiff.CellAddress)
	for _, r := range rects {
		for a := range r.SrcRowCount {
			for b := range r.SrcColCount {
				src := sheetdiff.CellAddress{Row: r.SrcStartRow + a, Col: r.SrcStartCol + b}
				dst := sheetdiff.CellAddress{Row: r.DstStartRow + a, Col: r.DstStartCol + b}
				source[dst] = src
				if t, c := rows.oldToNew[src.Row], cols.oldToNew[src.Col]; t >= 0 && c >= 0 {
					vacated[sheetdiff.CellAddress{Row: t, Col: c}] = src
				}
			}
		}
	}

	for t := range new.NRows() {
		for c := range new.NCols() {
			addr := sheetdiff.CellAddress{Row: t, Col: c}
			e, edited := edits[addr]
			delete(edits, addr)
			if rows.newToOld[t] < 0 || cols.newToOld[c] < 0 || skip[addr] {
				if edited {
					errs = append(errs, fmt.Errorf("%v: edit of an unlinked cell", addr))
				}
				continue
			}
			src, ok := source[addr]
			if !ok {
				src = sheetdiff.CellAddress{Row: rows.newToOld[t], Col: cols.newToOld[c]}
			}
			x, y := old.Get(src.Row, src.Col), new.Get(t, c)
			if v, ok := vacated[addr]; ok {
				src, x = v, sheetdiff.Cell{}
			}
			switch {
			case edited:
				if e.From.Addr != src || !matches(e.From, x) || !matches(e.To, y) {
					errs = append(errs, fmt.Errorf("%v: edit does not match source %v", addr, src))
				}
			case !x.Equal(y):
				errs = append(errs, fmt.Errorf("%v: unexplained change from %v", addr, src))
			}
		}
	}
	for addr := range edits {
		errs = append(errs, fmt.Errorf("%v: edit outside of the new grid", addr))
	}
	return errors.Join(errs...)
}

func matches(s sheetdiff.CellSnapshot, c sheetdiff.Cell) bool {
	return s.Formula == c.Formula && s.Value.Equal(c.Value)
}
