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
	"context"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/sheetdiff"
)

func grid(rows ...[]float64) *sheetdiff.Grid {
	ncols := 0
	if len(rows) > 0 {
		ncols = len(rows[0])
	}
	g := sheetdiff.NewGrid(len(rows), ncols)
	for r, row := range rows {
		for c, v := range row {
			if v != 0 {
				g.SetValue(r, c, sheetdiff.NumberValue(v))
			}
		}
	}
	return g
}

func edit(row, col int, from, to float64) sheetdiff.CellEdited {
	addr := sheetdiff.CellAddress{Row: row, Col: col}
	return sheetdiff.CellEdited{
		Sheet: "Sheet1",
		Addr:  addr,
		From:  sheetdiff.CellSnapshot{Addr: addr, Value: sheetdiff.NumberValue(from)},
		To:    sheetdiff.CellSnapshot{Addr: addr, Value: sheetdiff.NumberValue(to)},
	}
}

func TestCheck(t *testing.T) {
	old := grid([]float64{11, 12}, []float64{21, 22}, []float64{31, 32})

	movedEdit := edit(1, 1, 22, 5)
	movedEdit.From.Addr = sheetdiff.CellAddress{Row: 0, Col: 1}

	rect := sheetdiff.BlockMovedRect{
		Sheet:       "Sheet1",
		SrcStartRow: 0, SrcRowCount: 1, SrcStartCol: 0, SrcColCount: 1,
		DstStartRow: 2, DstStartCol: 1,
	}
	refilled := edit(0, 0, 0, 7)
	refilled.From.Value = sheetdiff.CellValue{}

	tests := []struct {
		name    string
		new     *sheetdiff.Grid
		ops     []sheetdiff.Op
		wantErr bool
	}{
		{
			name: "identical",
			new:  grid([]float64{11, 12}, []float64{21, 22}, []float64{31, 32}),
		},
		{
			name: "row-added",
			new:  grid([]float64{11, 12}, []float64{99, 99}, []float64{21, 22}, []float64{31, 32}),
			ops:  []sheetdiff.Op{sheetdiff.RowAdded{Sheet: "Sheet1", Row: 1}},
		},
		{
			name:    "row-added-unreported",
			new:     grid([]float64{11, 12}, []float64{99, 99}, []float64{21, 22}, []float64{31, 32}),
			wantErr: true,
		},
		{
			name:    "row-added-twice",
			new:     grid([]float64{11, 12}, []float64{99, 99}, []float64{21, 22}, []float64{31, 32}),
			ops:     []sheetdiff.Op{sheetdiff.RowAdded{Sheet: "Sheet1", Row: 1}, sheetdiff.RowAdded{Sheet: "Sheet1", Row: 1}},
			wantErr: true,
		},
		{
			name: "column-removed",
			new:  grid([]float64{12}, []float64{22}, []float64{32}),
			ops:  []sheetdiff.Op{sheetdiff.ColumnRemoved{Sheet: "Sheet1", Col: 0}},
		},
		{
			name: "edited",
			new:  grid([]float64{11, 12}, []float64{21, 5}, []float64{31, 32}),
			ops:  []sheetdiff.Op{edit(1, 1, 22, 5)},
		},
		{
			name:    "edit-unreported",
			new:     grid([]float64{11, 12}, []float64{21, 5}, []float64{31, 32}),
			wantErr: true,
		},
		{
			name:    "edit-wrong-source",
			new:     grid([]float64{11, 12}, []float64{21, 5}, []float64{31, 32}),
			ops:     []sheetdiff.Op{movedEdit},
			wantErr: true,
		},
		{
			name:    "edit-wrong-value",
			new:     grid([]float64{11, 12}, []float64{21, 5}, []float64{31, 32}),
			ops:     []sheetdiff.Op{edit(1, 1, 22, 6)},
			wantErr: true,
		},
		{
			name: "rows-moved",
			new:  grid([]float64{31, 32}, []float64{11, 12}, []float64{21, 22}),
			ops:  []sheetdiff.Op{sheetdiff.BlockMovedRows{Sheet: "Sheet1", SrcStartRow: 2, RowCount: 1, DstStartRow: 0}},
		},
		{
			name: "rect-moved",
			new:  grid([]float64{0, 12}, []float64{21, 22}, []float64{31, 11}),
			ops:  []sheetdiff.Op{rect},
		},
		{
			name:    "rect-source-refilled-unreported",
			new:     grid([]float64{7, 12}, []float64{21, 22}, []float64{31, 11}),
			ops:     []sheetdiff.Op{rect},
			wantErr: true,
		},
		{
			name: "rect-source-refilled",
			new:  grid([]float64{7, 12}, []float64{21, 22}, []float64{31, 11}),
			ops:  []sheetdiff.Op{rect, refilled},
		},
		{
			name:    "rect-source-edit-from-old-value",
			new:     grid([]float64{7, 12}, []float64{21, 22}, []float64{31, 11}),
			ops:     []sheetdiff.Op{rect, edit(0, 0, 11, 7)},
			wantErr: true,
		},
		{
			name: "rect-replaced",
			new:  grid([]float64{1, 2}, []float64{3, 4}, []float64{31, 32}),
			ops:  []sheetdiff.Op{sheetdiff.RectReplaced{Sheet: "Sheet1", StartRow: 0, StartCol: 0, RowCount: 2, ColCount: 2}},
		},
		{
			name:    "unexpected-op",
			new:     grid([]float64{11, 12}, []float64{21, 22}, []float64{31, 32}),
			ops:     []sheetdiff.Op{sheetdiff.SheetAdded{Sheet: "Sheet2"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := check(old, tt.new, tt.ops)
			if got := err != nil; got != tt.wantErr {
				t.Errorf("check(...) = %v, want error: %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	a := generate(rand.New(rand.NewPCG(7, 3)), 3, 40, 6)
	b := generate(rand.New(rand.NewPCG(7, 3)), 3, 40, 6)
	if diff := cmp.Diff(a.mutations, b.mutations); diff != "" {
		t.Errorf("generate(...) mutations differ [-want,+got]:\n%s", diff)
	}
	opts := cmp.Comparer(sheetdiff.CellValue.Equal)
	for _, g := range []struct{ x, y *sheetdiff.Grid }{{a.old, b.old}, {a.new, b.new}} {
		if diff := cmp.Diff(maps.Collect(g.x.Cells()), maps.Collect(g.y.Cells()), opts); diff != "" {
			t.Errorf("generate(...) grids differ [-want,+got]:\n%s", diff)
		}
	}
	if len(a.mutations) == 0 {
		t.Errorf("generate(...) produced no mutations")
	}
}

func TestEvaluate(t *testing.T) {
	for i := range 40 {
		sc := generate(rand.New(rand.NewPCG(1, uint64(i))), i, 40, 6)
		evaluate(t.Context(), sc, true, func(n note) { t.Errorf("%s: %s", n.prefix, n.msg) }, nil)
	}
}

// TestFuzzTolerance moves a block of four rows and edits more and more of its rows. The move is
// reported as a whole while the edits stay within the tolerance and downgrades afterwards, but the
// ops always explain the new grid.
func TestFuzzTolerance(t *testing.T) {
	in := sheetdiff.NewInterner()
	var rows [][]float64
	for r := range 20 {
		rows = append(rows, []float64{float64(r*10 + 1), float64(r*10 + 2), float64(r*10 + 3), float64(r*10 + 4)})
	}
	old := grid(rows...)

	// Rows 4..7 move to 12..15.
	order := slices.Concat([]int{0, 1, 2, 3}, []int{8, 9, 10, 11, 12, 13, 14, 15}, []int{4, 5, 6, 7}, []int{16, 17, 18, 19})
	for edits := range 5 {
		t.Run(fmt.Sprintf("%d-edits", edits), func(t *testing.T) {
			var moved [][]float64
			for i, s := range order {
				row := slices.Clone(rows[s])
				if k := i - 12; k >= 0 && k < edits {
					row[1] = float64(5000 + k)
				}
				moved = append(moved, row)
			}
			new := grid(moved...)

			r, err := sheetdiff.DiffGrids(context.Background(), in, "Sheet1", old, new)
			if err != nil {
				t.Fatalf("DiffGrids(...) = %v", err)
			}
			if err := check(old, new, r.Ops); err != nil {
				t.Errorf("%d edits: ops don't explain the new grid: %v", edits, err)
			}
			whole := slices.ContainsFunc(r.Ops, func(op sheetdiff.Op) bool {
				m, ok := op.(sheetdiff.BlockMovedRows)
				return ok && m.SrcStartRow == 4 && m.RowCount == 4 && m.DstStartRow == 12
			})
			if want := edits <= 2; whole != want {
				t.Errorf("%d edits: block moved as a whole = %v, want %v", edits, whole, want)
			}
		})
	}
}
