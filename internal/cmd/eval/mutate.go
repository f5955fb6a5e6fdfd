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
	"fmt"
	"math/rand/v2"
	"slices"

	"znkr.io/sheetdiff"
)

// scenario is a random grid and a mutated copy of it.
type scenario struct {
	id        int
	in        *sheetdiff.Interner
	old, new  *sheetdiff.Grid
	mutations []string
}

// dense is a mutable grid.
type dense struct {
	ncols int
	rows  [][]sheetdiff.Cell
}

func (d *dense) grid() *sheetdiff.Grid {
	g := sheetdiff.NewGrid(len(d.rows), d.ncols)
	for r, row := range d.rows {
		for c, cell := range row {
			g.Set(r, c, cell)
		}
	}
	return g
}

var words = []string{"alpha", "beta", "gamma", "delta", "total", "n/a", ""}

func randomCell(rng *rand.Rand, in *sheetdiff.Interner) sheetdiff.Cell {
	switch p := rng.IntN(10); {
	case p < 2:
		return sheetdiff.Cell{}
	case p < 7:
		return sheetdiff.Cell{Value: sheetdiff.NumberValue(float64(rng.IntN(1000)))}
	case p < 9:
		return sheetdiff.Cell{Value: sheetdiff.TextValue(in.Intern(words[rng.IntN(len(words))]))}
	default:
		return sheetdiff.Cell{Value: sheetdiff.BoolValue(rng.IntN(2) == 0)}
	}
}

func randomRow(rng *rand.Rand, in *sheetdiff.Interner, ncols int) []sheetdiff.Cell {
	row := make([]sheetdiff.Cell, ncols)
	for c := range row {
		row[c] = randomCell(rng, in)
	}
	return row
}

// generate creates a scenario from rng. The new grid is the old grid with up to five random
// mutations applied.
func generate(rng *rand.Rand, id, maxRows, maxCols int) scenario {
	in := sheetdiff.NewInterner()
	d := &dense{ncols: 1 + rng.IntN(maxCols)}
	for range 1 + rng.IntN(maxRows) {
		d.rows = append(d.rows, randomRow(rng, in, d.ncols))
	}
	sc := scenario{id: id, in: in, old: d.grid()}

	for range 1 + rng.IntN(5) {
		nrows := len(d.rows)
		switch op := rng.IntN(8); {
		case op == 0 || nrows == 0:
			at, n := rng.IntN(nrows+1), 1+rng.IntN(3)
			for range n {
				d.rows = slices.Insert(d.rows, at, randomRow(rng, in, d.ncols))
			}
			sc.mutations = append(sc.mutations, fmt.Sprintf("insert %d rows at %d", n, at))
		case op == 1 && nrows > 1:
			at := rng.IntN(nrows - 1)
			n := 1 + rng.IntN(min(3, nrows-1-at))
			d.rows = slices.Delete(d.rows, at, at+n)
			sc.mutations = append(sc.mutations, fmt.Sprintf("delete %d rows at %d", n, at))
		case op == 2:
			src := rng.IntN(nrows)
			n := 1 + rng.IntN(nrows-src)
			block := slices.Clone(d.rows[src : src+n])
			d.rows = slices.Delete(d.rows, src, src+n)
			dst := rng.IntN(len(d.rows) + 1)
			d.rows = slices.Insert(d.rows, dst, block...)
			sc.mutations = append(sc.mutations, fmt.Sprintf("move %d rows from %d to %d", n, src, dst))
		case op == 3:
			at := rng.IntN(d.ncols + 1)
			for r := range d.rows {
				d.rows[r] = slices.Insert(d.rows[r], at, randomCell(rng, in))
			}
			d.ncols++
			sc.mutations = append(sc.mutations, fmt.Sprintf("insert column at %d", at))
		case op == 4 && d.ncols > 1:
			at := rng.IntN(d.ncols)
			for r := range d.rows {
				d.rows[r] = slices.Delete(d.rows[r], at, at+1)
			}
			d.ncols--
			sc.mutations = append(sc.mutations, fmt.Sprintf("delete column at %d", at))
		case op == 5 && d.ncols > 1:
			src, dst := rng.IntN(d.ncols), rng.IntN(d.ncols)
			for r, row := range d.rows {
				c := row[src]
				row = slices.Delete(row, src, src+1)
				d.rows[r] = slices.Insert(row, dst, c)
			}
			sc.mutations = append(sc.mutations, fmt.Sprintf("move column from %d to %d", src, dst))
		default:
			r, c := rng.IntN(nrows), rng.IntN(d.ncols)
			d.rows[r][c] = randomCell(rng, in)
			sc.mutations = append(sc.mutations, fmt.Sprintf("edit %v", sheetdiff.CellAddress{Row: r, Col: c}))
		}
	}
	sc.new = d.grid()
	return sc
}
