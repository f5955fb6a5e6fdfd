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
	"encoding/binary"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// cellAt is a non-blank cell in a line (a row or a column) of a grid. idx is the position in the
// line: the column for rows and the row for columns.
type cellAt struct {
	idx  int
	cell Cell
	hash uint64
}

// view is the read-only representation of a grid used during a comparison.
type view struct {
	nrows, ncols int
	rows         [][]cellAt // sorted by column
	cols         [][]cellAt // sorted by row
	ncells       int
}

func newView(g *Grid) *view {
	v := &view{
		nrows:  g.nrows,
		ncols:  g.ncols,
		rows:   make([][]cellAt, g.nrows),
		cols:   make([][]cellAt, g.ncols),
		ncells: len(g.cells),
	}
	for addr, c := range g.cells {
		h := cellHash(c)
		v.rows[addr.Row] = append(v.rows[addr.Row], cellAt{addr.Col, c, h})
		v.cols[addr.Col] = append(v.cols[addr.Col], cellAt{addr.Row, c, h})
	}
	byIdx := func(a, b cellAt) int { return cmp.Compare(a.idx, b.idx) }
	for _, line := range v.rows {
		slices.SortFunc(line, byIdx)
	}
	for _, line := range v.cols {
		slices.SortFunc(line, byIdx)
	}
	return v
}

// at returns the cell at (row, col).
func (v *view) at(row, col int) (Cell, uint64, bool) {
	if row < 0 || row >= v.nrows {
		return Cell{}, 0, false
	}
	line := v.rows[row]
	i, ok := slices.BinarySearchFunc(line, col, func(c cellAt, col int) int { return cmp.Compare(c.idx, col) })
	if !ok {
		return Cell{}, 0, false
	}
	return line[i].cell, line[i].hash, true
}

// cellHash hashes the value and formula of a cell. Equal cells have equal hashes.
func cellHash(c Cell) uint64 {
	buf := cellBytes(c)
	return xxhash.Sum64(buf[:])
}

// cellBytes is the canonical encoding of a cell. Equal cells have equal encodings.
func cellBytes(c Cell) [13]byte {
	var buf [13]byte
	buf[0] = byte(c.Value.kind)
	switch c.Value.kind {
	case KindNumber:
		f := c.Value.num
		switch {
		case f == 0:
			f = 0 // -0
		case math.IsNaN(f):
			f = math.NaN()
		}
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(f))
	case KindText, KindError:
		binary.LittleEndian.PutUint32(buf[1:], uint32(c.Value.str))
	case KindBool:
		if c.Value.b {
			buf[1] = 1
		}
	}
	binary.LittleEndian.PutUint32(buf[9:], uint32(c.Formula))
	return buf
}

// slotCell is a cell hash placed at a slot of a line signature.
type slotCell struct {
	slot int
	hash uint64
}

// hasher computes line signatures. A signature covers all cells of a line whose position maps to
// a slot; cells in unmapped positions (slot < 0) are ignored. A nil slot mapping is the identity.
type hasher struct {
	d       *xxhash.Digest
	scratch []slotCell
}

func newHasher() *hasher {
	return &hasher{d: xxhash.New()}
}

// slotted returns the cells of a line in slot order.
func (h *hasher) slotted(line []cellAt, slots []int) []slotCell {
	out := h.scratch[:0]
	sorted := true
	for _, c := range line {
		k := c.idx
		if slots != nil {
			k = slots[c.idx]
		}
		if k < 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].slot > k {
			sorted = false
		}
		out = append(out, slotCell{k, c.hash})
	}
	if !sorted {
		slices.SortFunc(out, func(a, b slotCell) int { return cmp.Compare(a.slot, b.slot) })
	}
	h.scratch = out
	return out
}

func (h *hasher) line(line []cellAt, slots []int) uint64 {
	return h.slottedLine(h.slotted(line, slots))
}

func (h *hasher) slottedLine(cells []slotCell) uint64 {
	h.d.Reset()
	var buf [16]byte
	for _, c := range cells {
		binary.LittleEndian.PutUint64(buf[0:], uint64(c.slot))
		binary.LittleEndian.PutUint64(buf[8:], c.hash)
		h.d.Write(buf[:])
	}
	return h.d.Sum64()
}

// blockHash combines the signatures of all lines of a block.
func (h *hasher) block(sigs []uint64) Signature {
	h.d.Reset()
	var buf [8]byte
	for _, s := range sigs {
		binary.LittleEndian.PutUint64(buf[:], s)
		h.d.Write(buf[:])
	}
	return signature(h.d.Sum64())
}

// signature turns a hash into a present signature.
func signature(h uint64) Signature {
	if h == 0 {
		return 1
	}
	return Signature(h)
}

// lineDiff counts the slots in which two lines differ.
func lineDiff(x, y []slotCell) (diffs, union int) {
	i, j := 0, 0
	for i < len(x) || j < len(y) {
		switch {
		case j == len(y) || i < len(x) && x[i].slot < y[j].slot:
			diffs++
			i++
		case i == len(x) || y[j].slot < x[i].slot:
			diffs++
			j++
		default:
			if x[i].hash != y[j].hash {
				diffs++
			}
			i++
			j++
		}
		union++
	}
	return diffs, union
}

// similarity returns the fraction of equal slots of two lines. Two empty lines are identical.
func similarity(x, y []slotCell) float64 {
	diffs, union := lineDiff(x, y)
	if union == 0 {
		return 1
	}
	return float64(union-diffs) / float64(union)
}

// bagSimilarity returns the size of the multiset intersection of two sorted hash lists relative
// to the larger list.
func bagSimilarity(x, y []uint64) float64 {
	n := max(len(x), len(y))
	if n == 0 {
		return 1
	}
	common := 0
	for i, j := 0, 0; i < len(x) && j < len(y); {
		switch {
		case x[i] < y[j]:
			i++
		case y[j] < x[i]:
			j++
		default:
			common++
			i++
			j++
		}
	}
	return float64(common) / float64(n)
}

// slotLine is like hasher.slotted but returns a fresh slice.
func slotLine(line []cellAt, slots []int) []slotCell {
	var h hasher
	return h.slotted(line, slots)
}
