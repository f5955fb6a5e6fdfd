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

// table returns a grid with one row per entry of rows.
func table(rows ...[]float64) *Grid {
	ncols := 0
	for _, r := range rows {
		ncols = max(ncols, len(r))
	}
	g := NewGrid(len(rows), ncols)
	for r, row := range rows {
		for c, v := range row {
			g.SetValue(r, c, NumberValue(v))
		}
	}
	return g
}

func TestDiffGridsDatabaseMode(t *testing.T) {
	in := NewInterner()
	old := table([]float64{1, 10}, []float64{2, 20}, []float64{3, 30})
	new := table([]float64{3, 30}, []float64{1, 11}, []float64{4, 40})
	want := []Op{
		RowRemoved{Sheet: "Sheet1", Row: 1},
		RowAdded{Sheet: "Sheet1", Row: 2},
		edited(CellAddress{0, 1}, CellAddress{1, 1}, NumberValue(10), NumberValue(11)),
	}

	t.Run("entry-point", func(t *testing.T) {
		got, err := DiffGridsDatabaseMode(context.Background(), in, "Sheet1", old, new, []int{0})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got.Ops, opts...); diff != "" {
			t.Errorf("DiffGridsDatabaseMode(...) differs [-want,+got]:\n%s", diff)
		}
		if !got.Complete {
			t.Errorf("DiffGridsDatabaseMode(...) is incomplete: %q", got.Warnings)
		}
		if got.Metrics.SheetsCompared != 1 || got.Metrics.AlignmentTime != 0 {
			t.Errorf("Metrics = %+v, want one sheet without alignment", got.Metrics)
		}
	})

	t.Run("option", func(t *testing.T) {
		got, err := DiffGrids(context.Background(), in, "Sheet1", old, new, DatabaseMode("SHEET1", 0))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got.Ops, opts...); diff != "" {
			t.Errorf("DiffGrids(..., DatabaseMode(...)) differs [-want,+got]:\n%s", diff)
		}
	})

	t.Run("option-not-allowed", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("DiffGridsDatabaseMode(..., DatabaseMode(...)) did not panic")
			}
		}()
		DiffGridsDatabaseMode(context.Background(), in, "Sheet1", old, new, []int{0}, DatabaseMode("Sheet1", 1))
	})
}

func TestDiffGridsDatabaseModeCompositeKey(t *testing.T) {
	in := NewInterner()
	old := table([]float64{1, 1, 5}, []float64{1, 2, 6})
	new := table([]float64{1, 2, 7}, []float64{1, 1, 5})
	got, err := DiffGridsDatabaseMode(context.Background(), in, "Sheet1", old, new, []int{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	want := []Op{
		edited(CellAddress{1, 2}, CellAddress{0, 2}, NumberValue(6), NumberValue(7)),
	}
	if diff := cmp.Diff(want, got.Ops, opts...); diff != "" {
		t.Errorf("DiffGridsDatabaseMode(...) differs [-want,+got]:\n%s", diff)
	}
}

func TestDiffGridsDatabaseModeDuplicateKeys(t *testing.T) {
	in := NewInterner()
	old := table([]float64{1}, []float64{1}, []float64{2})
	new := table([]float64{1}, []float64{2}, []float64{3})
	got, err := DiffGridsDatabaseMode(context.Background(), in, "Sheet1", old, new, []int{0})
	if err != nil {
		t.Fatal(err)
	}
	want := []Op{
		edited(CellAddress{1, 0}, CellAddress{1, 0}, NumberValue(1), NumberValue(2)),
		edited(CellAddress{2, 0}, CellAddress{2, 0}, NumberValue(2), NumberValue(3)),
	}
	if diff := cmp.Diff(want, got.Ops, opts...); diff != "" {
		t.Errorf("DiffGridsDatabaseMode(...) differs [-want,+got]:\n%s", diff)
	}
	if got.Complete {
		t.Error("Complete = true, want false")
	}
	if diff := cmp.Diff([]string{duplicateKeysWarning}, got.Warnings); diff != "" {
		t.Errorf("Warnings differ [-want,+got]:\n%s", diff)
	}
}

func TestDiffGridsDatabaseModeBlankRow(t *testing.T) {
	in := NewInterner()
	tests := []struct {
		name     string
		old, new *Grid
		want     []Op
	}{
		{
			name: "removed",
			old:  table([]float64{1, 10}, []float64{}, []float64{2, 20}),
			new:  table([]float64{1, 10}, []float64{2, 20}),
			want: []Op{RowRemoved{Sheet: "Sheet1", Row: 1}},
		},
		{
			name: "added",
			old:  table([]float64{1, 10}, []float64{2, 20}),
			new:  table([]float64{2, 20}, []float64{1, 10}, []float64{}),
			want: []Op{RowAdded{Sheet: "Sheet1", Row: 2}},
		},
		{
			name: "kept",
			old:  table([]float64{}, []float64{1, 10}),
			new:  table([]float64{1, 10}, []float64{}),
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiffGridsDatabaseMode(context.Background(), in, "Sheet1", tt.old, tt.new, []int{0})
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got.Ops, opts...); diff != "" {
				t.Errorf("DiffGridsDatabaseMode(...) differs [-want,+got]:\n%s", diff)
			}
			if !got.Complete {
				t.Errorf("DiffGridsDatabaseMode(...) is incomplete: %q", got.Warnings)
			}
		})
	}
}
