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
	"strings"
)

const duplicateKeysWarning = "database-mode: duplicate keys for requested columns; falling back to spreadsheet mode"

// diffDatabase compares two grids as tables keyed by the given columns. Rows are matched by key,
// irrespective of their position.
func (r *run) diffDatabase(name string, old, new *Grid, keys []int) error {
	sd := r.newSheetDiff(name, old, new)
	if err := r.checkpoint(); err != nil {
		return err
	}
	var ops []Op
	var ok bool
	timed(&r.metrics.CellDiffTime, func() { ops, ok = sd.database(keys) })
	if !ok {
		r.log.Debug("duplicate keys in database mode", "sheet", name, "keys", keys)
		r.warn(duplicateKeysWarning)
		ops = sd.diffPositional()
	}
	return r.em.emitAll(ops)
}

// keyedRows maps the key of every row to its index. Blank rows are keyed like any other row.
type keyedRows struct {
	rows  map[string]int
	order []string
}

func indexKeys(v *view, keys []int) (keyedRows, bool) {
	kr := keyedRows{rows: make(map[string]int, v.nrows)}
	var sb strings.Builder
	for r := range v.nrows {
		sb.Reset()
		for _, col := range keys {
			c, _, _ := v.at(r, col)
			b := cellBytes(c)
			sb.Write(b[:])
		}
		key := sb.String()
		if _, dup := kr.rows[key]; dup {
			return keyedRows{}, false
		}
		kr.rows[key] = r
		kr.order = append(kr.order, key)
	}
	return kr, true
}

// database returns the ops of a keyed comparison. It reports false if a key repeats in either
// grid.
func (sd *sheetDiff) database(keys []int) ([]Op, bool) {
	oldRows, okOld := indexKeys(sd.old, keys)
	newRows, okNew := indexKeys(sd.new, keys)
	if !okOld || !okNew {
		return nil, false
	}

	var ops []Op
	for _, key := range oldRows.order {
		if _, found := newRows.rows[key]; !found {
			ops = append(ops, RowRemoved{Sheet: sd.name, Row: oldRows.rows[key]})
		}
	}
	for _, key := range newRows.order {
		if _, found := oldRows.rows[key]; !found {
			ops = append(ops, RowAdded{Sheet: sd.name, Row: newRows.rows[key]})
		}
	}
	for _, key := range newRows.order {
		ro, found := oldRows.rows[key]
		if !found {
			continue
		}
		rn := newRows.rows[key]
		for _, e := range sd.rowEdits(ro, rn, keys) {
			ops = append(ops, e)
		}
	}
	return ops, true
}

// rowEdits compares the non-key cells of two rows column by column.
func (sd *sheetDiff) rowEdits(ro, rn int, keys []int) []CellEdited {
	a, b := sd.old.rows[ro], sd.new.rows[rn]
	sd.metrics.CellsCompared += len(a) + len(b)
	var edits []CellEdited
	add := func(col int, x, y Cell) {
		if slices.Contains(keys, col) {
			return
		}
		edits = append(edits, sd.edit(CellAddress{ro, col}, CellAddress{rn, col}, x, y))
	}
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || i < len(a) && a[i].idx < b[j].idx:
			add(a[i].idx, a[i].cell, Cell{})
			i++
		case i == len(a) || b[j].idx < a[i].idx:
			add(b[j].idx, Cell{}, b[j].cell)
			j++
		default:
			if !a[i].cell.Equal(b[j].cell) {
				add(a[i].idx, a[i].cell, b[j].cell)
			}
			i++
			j++
		}
	}
	return edits
}
