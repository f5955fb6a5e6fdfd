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
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"
)

// ValueKind is the type of a cell value.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=ValueKind -trimprefix=Kind
type ValueKind uint8

const (
	KindBlank ValueKind = iota
	KindNumber
	KindText
	KindBool
	KindError
)

// CellValue is the value of a cell. The zero value is a blank cell.
type CellValue struct {
	kind ValueKind
	num  float64
	str  StringID
	b    bool
}

// NumberValue returns a number value.
func NumberValue(f float64) CellValue { return CellValue{kind: KindNumber, num: f} }

// TextValue returns a text value.
func TextValue(s StringID) CellValue { return CellValue{kind: KindText, str: s} }

// BoolValue returns a boolean value.
func BoolValue(b bool) CellValue { return CellValue{kind: KindBool, b: b} }

// ErrorValue returns an error value such as #DIV/0!.
func ErrorValue(code StringID) CellValue { return CellValue{kind: KindError, str: code} }

// Kind returns the type of the value.
func (v CellValue) Kind() ValueKind { return v.kind }

// Float returns the number of a number value.
func (v CellValue) Float() float64 { return v.num }

// StringID returns the interned string of a text or error value.
func (v CellValue) StringID() StringID { return v.str }

// Bool returns the boolean of a boolean value.
func (v CellValue) Bool() bool { return v.b }

// Equal reports if v and w are the same value. Numbers compare equal if they are equal as floats
// or if both are NaN.
func (v CellValue) Equal(w CellValue) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == w.num || math.IsNaN(v.num) && math.IsNaN(w.num)
	case KindText, KindError:
		return v.str == w.str
	case KindBool:
		return v.b == w.b
	default:
		return true
	}
}

// Format returns a human readable form of the value.
func (v CellValue) Format(in *Interner) string {
	switch v.kind {
	case KindNumber:
		return fmt.Sprint(v.num)
	case KindText:
		return fmt.Sprintf("%q", in.Resolve(v.str))
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindError:
		return in.Resolve(v.str)
	default:
		return "<blank>"
	}
}

// Cell is a value plus an optional formula. A zero Formula means that the cell has no formula.
type Cell struct {
	Value   CellValue
	Formula StringID
}

// Equal reports if c and d have the same value and formula.
func (c Cell) Equal(d Cell) bool {
	return c.Formula == d.Formula && c.Value.Equal(d.Value)
}

// IsBlank reports if the cell has neither a value nor a formula.
func (c Cell) IsBlank() bool {
	return c.Value.kind == KindBlank && c.Formula == 0
}

// Grid is a sparse two-dimensional cell store. Missing cells are blank.
//
// A grid must not be mutated while it is being compared.
type Grid struct {
	nrows, ncols int
	cells        map[CellAddress]Cell
}

// NewGrid returns an empty grid with the given dimensions.
func NewGrid(nrows, ncols int) *Grid {
	if nrows < 0 || ncols < 0 {
		panic(fmt.Sprintf("sheetdiff: invalid grid dimensions %dx%d", nrows, ncols))
	}
	return &Grid{nrows: nrows, ncols: ncols, cells: make(map[CellAddress]Cell)}
}

// NRows returns the number of rows.
func (g *Grid) NRows() int { return g.nrows }

// NCols returns the number of columns.
func (g *Grid) NCols() int { return g.ncols }

// Len returns the number of non-blank cells.
func (g *Grid) Len() int { return len(g.cells) }

// Set stores a cell. Storing a blank cell removes it. Set panics if the position is out of bounds.
func (g *Grid) Set(row, col int, c Cell) {
	if row < 0 || row >= g.nrows || col < 0 || col >= g.ncols {
		panic(fmt.Sprintf("sheetdiff: cell (%d, %d) out of bounds for %dx%d grid", row, col, g.nrows, g.ncols))
	}
	addr := CellAddress{row, col}
	if c.IsBlank() {
		delete(g.cells, addr)
		return
	}
	g.cells[addr] = c
}

// SetValue stores a cell without formula.
func (g *Grid) SetValue(row, col int, v CellValue) {
	g.Set(row, col, Cell{Value: v})
}

// Get returns the cell at a position. Positions outside of the grid are blank.
func (g *Grid) Get(row, col int) Cell {
	return g.cells[CellAddress{row, col}]
}

// Cells returns all non-blank cells in row-major order.
func (g *Grid) Cells() iter.Seq2[CellAddress, Cell] {
	return func(yield func(CellAddress, Cell) bool) {
		addrs := slices.SortedFunc(maps.Keys(g.cells), compareAddr)
		for _, addr := range addrs {
			if !yield(addr, g.cells[addr]) {
				return
			}
		}
	}
}

func compareAddr(a, b CellAddress) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Col, b.Col)
}
