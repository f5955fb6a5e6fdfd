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

package sheetdiff_test

import (
	"context"
	"fmt"
	"log"

	"znkr.io/sheetdiff"
)

// Compare two small grids and print every edited cell.
func ExampleDiffGrids() {
	in := sheetdiff.NewInterner()
	old := sheetdiff.NewGrid(2, 2)
	new := sheetdiff.NewGrid(2, 2)
	for _, g := range []*sheetdiff.Grid{old, new} {
		g.SetValue(0, 0, sheetdiff.NumberValue(1))
		g.SetValue(0, 1, sheetdiff.NumberValue(2))
		g.SetValue(1, 0, sheetdiff.NumberValue(3))
	}
	old.SetValue(1, 1, sheetdiff.NumberValue(4))
	new.SetValue(1, 1, sheetdiff.TextValue(in.Intern("four")))

	report, err := sheetdiff.DiffGrids(context.Background(), in, "Sheet1", old, new)
	if err != nil {
		log.Fatal(err)
	}
	for _, op := range report.Ops {
		if e, ok := op.(sheetdiff.CellEdited); ok {
			fmt.Printf("%s!%v: %s -> %s\n", e.Sheet, e.Addr, e.From.Value.Format(in), e.To.Value.Format(in))
		}
	}
	// Output:
	// Sheet1!B2: 4 -> "four"
}

// Rows that moved are reported as a single move instead of removed and added rows.
func ExampleDiffGrids_moves() {
	in := sheetdiff.NewInterner()
	old := sheetdiff.NewGrid(8, 2)
	new := sheetdiff.NewGrid(8, 2)
	order := []int{0, 5, 6, 1, 2, 3, 4, 7} // rows 5 and 6 moved up
	for r := range 8 {
		for c := range 2 {
			old.SetValue(r, c, sheetdiff.NumberValue(float64(10*r+c)))
			new.SetValue(r, c, sheetdiff.NumberValue(float64(10*order[r]+c)))
		}
	}

	report, err := sheetdiff.DiffGrids(context.Background(), in, "Sheet1", old, new)
	if err != nil {
		log.Fatal(err)
	}
	for _, op := range report.Ops {
		if m, ok := op.(sheetdiff.BlockMovedRows); ok {
			fmt.Printf("rows %d..%d moved to %d\n", m.SrcStartRow, m.SrcStartRow+m.RowCount-1, m.DstStartRow)
		}
	}
	// Output:
	// rows 5..6 moved to 1
}
