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
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// block is a 2x2 rectangle moved from (srcRow, srcCol) to (dstRow, dstCol).
type block struct{ srcRow, srcCol, dstRow, dstCol int }

// rectMoves returns a grid filled with wide values and a copy in which every block was moved.
// The source of a block is left blank in the new grid, the destination is overwritten.
func rectMoves(nrows, ncols int, blocks ...block) (old, new *Grid) {
	base := numbers(nrows, ncols, wide)
	val := func(k, a, b int) CellValue { return NumberValue(float64(10_000 + k*100 + a*10 + b)) }
	old = edit(base, func(g *Grid) {
		for k, bl := range blocks {
			for a := range 2 {
				for b := range 2 {
					g.SetValue(bl.srcRow+a, bl.srcCol+b, val(k, a, b))
				}
			}
		}
	})
	new = edit(base, func(g *Grid) {
		for k, bl := range blocks {
			for a := range 2 {
				for b := range 2 {
					g.Set(bl.srcRow+a, bl.srcCol+b, Cell{})
					g.SetValue(bl.dstRow+a, bl.dstCol+b, val(k, a, b))
				}
			}
		}
	})
	return old, new
}

func (bl block) op() BlockMovedRect {
	return BlockMovedRect{
		Sheet:       "Sheet1",
		SrcStartRow: bl.srcRow,
		SrcRowCount: 2,
		SrcStartCol: bl.srcCol,
		SrcColCount: 2,
		DstStartRow: bl.dstRow,
		DstStartCol: bl.dstCol,
	}
}

func TestRectMoves(t *testing.T) {
	in := NewInterner()

	single := block{2, 2, 8, 6}
	singleOld, singleNew := rectMoves(12, 10, single)

	three := []block{{1, 1, 11, 6}, {4, 5, 15, 1}, {7, 3, 18, 7}}
	threeOld, threeNew := rectMoves(20, 10, three...)

	tests := []struct {
		name     string
		old, new *Grid
		want     []Op
	}{
		{
			name: "single",
			old:  singleOld,
			new:  singleNew,
			want: []Op{single.op()},
		},
		{
			name: "single-with-edit",
			old:  singleOld,
			new:  edit(singleNew, func(g *Grid) { g.SetValue(0, 0, NumberValue(77_777)) }),
			want: []Op{
				single.op(),
				edited(CellAddress{0, 0}, CellAddress{0, 0}, NumberValue(wide(0, 0)), NumberValue(77_777)),
			},
		},
		{
			name: "source-refilled",
			old:  singleOld,
			new:  edit(singleNew, func(g *Grid) { g.SetValue(2, 2, NumberValue(55_555)) }),
			want: []Op{
				single.op(),
				edited(CellAddress{2, 2}, CellAddress{2, 2}, CellValue{}, NumberValue(55_555)),
			},
		},
		{
			name: "three-disjoint",
			old:  threeOld,
			new:  threeNew,
			want: []Op{three[0].op(), three[1].op(), three[2].op()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiffGrids(context.Background(), in, "Sheet1", tt.old, tt.new)
			if err != nil {
				t.Fatalf("DiffGrids(...) = %v", err)
			}
			if diff := cmp.Diff(tt.want, got.Ops, opts...); diff != "" {
				t.Errorf("DiffGrids(...) differs [-want,+got]:\n%s", diff)
			}
			wantMoves := 0
			for _, op := range tt.want {
				if _, ok := op.(BlockMovedRect); ok {
					wantMoves++
				}
			}
			if got.Metrics.MovesDetected != wantMoves {
				t.Errorf("MovesDetected = %d, want %d", got.Metrics.MovesDetected, wantMoves)
			}
		})
	}
}

func TestRectMovesBounded(t *testing.T) {
	in := NewInterner()
	blocks := []block{
		{1, 1, 16, 8},
		{4, 4, 19, 1},
		{7, 7, 22, 4},
		{10, 1, 25, 8},
		{13, 4, 28, 1},
	}
	old, new := rectMoves(30, 12, blocks...)

	for _, tt := range []struct {
		iterations, wantMoves int
	}{
		{2, 2},
		{100, 5},
	} {
		got, err := DiffGrids(context.Background(), in, "Sheet1", old, new, MaxMoveIterations(tt.iterations))
		if err != nil {
			t.Fatal(err)
		}
		var moves []Op
		for _, op := range got.Ops {
			if _, ok := op.(BlockMovedRect); ok {
				moves = append(moves, op)
			}
		}
		var want []Op
		for _, bl := range blocks[:tt.wantMoves] {
			want = append(want, bl.op())
		}
		if diff := cmp.Diff(want, moves, opts...); diff != "" {
			t.Errorf("MaxMoveIterations(%d): moves differ [-want,+got]:\n%s", tt.iterations, diff)
		}
		if got.Metrics.MovesDetected != tt.wantMoves {
			t.Errorf("MaxMoveIterations(%d): MovesDetected = %d, want %d", tt.iterations, got.Metrics.MovesDetected, tt.wantMoves)
		}
		if tt.wantMoves < len(blocks) && len(got.Ops) == len(moves) {
			t.Errorf("MaxMoveIterations(%d): undetected moves are not reported as edits", tt.iterations)
		}
	}
}
