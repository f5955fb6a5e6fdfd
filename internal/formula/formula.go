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

// Package formula classifies the difference between two spreadsheet formulas.
//
// The classification only tags an edit, it never decides if two formulas are equivalent: formulas
// that differ only in whitespace or letter case are formatting-only changes, formulas whose
// relative references all moved by the same offset as the cell itself are the result of a fill, and
// everything else is a semantic change.
package formula

import (
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// Kind is the classification of a formula change.
type Kind int

const (
	Unchanged Kind = iota
	Added
	Removed
	FormattingOnly
	Filled
	Semantic
	Unclassified
)

// Classify compares two formulas. An empty string means that the cell has no formula. The cell
// moved by dRows rows and dCols columns from old to new; a fill shifts every relative reference by
// the same amount and needs a non-zero offset.
func Classify(old, new string, dRows, dCols int) Kind {
	switch {
	case old == new:
		return Unchanged
	case old == "":
		return Added
	case new == "":
		return Removed
	}

	x, ok := tokenize(old)
	if !ok {
		return Unclassified
	}
	y, ok := tokenize(new)
	if !ok {
		return Unclassified
	}
	if equal(x, y) {
		return FormattingOnly
	}
	if filled(x, y, dRows, dCols) {
		return Filled
	}
	return Semantic
}

type token struct {
	typ, sub string
	val      string // normalized value
}

// tokenize returns the normalized tokens of a formula without whitespace. It reports false if the
// formula can't be tokenized.
func tokenize(f string) ([]token, bool) {
	f = strings.TrimPrefix(strings.TrimSpace(f), "=")
	ps := efp.ExcelParser()
	toks := ps.Parse(f)
	if toks == nil {
		return nil, false
	}
	out := make([]token, 0, len(toks))
	for _, tok := range toks {
		switch tok.TType {
		case efp.TokenTypeUnknown:
			return nil, false
		case efp.TokenTypeWhitespace:
			continue
		}
		out = append(out, token{typ: tok.TType, sub: tok.TSubType, val: normalize(tok)})
	}
	return out, true
}

func normalize(tok efp.Token) string {
	if tok.TType != efp.TokenTypeOperand {
		return strings.ToUpper(tok.TValue)
	}
	switch tok.TSubType {
	case efp.TokenSubTypeText:
		return tok.TValue
	case efp.TokenSubTypeNumber:
		if f, err := strconv.ParseFloat(tok.TValue, 64); err == nil {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	return strings.ToUpper(tok.TValue)
}

func equal(x, y []token) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// filled reports if y is x with every relative reference shifted by (rows, cols) and the offset
// is not zero.
func filled(x, y []token, rows, cols int) bool {
	if len(x) != len(y) || rows == 0 && cols == 0 {
		return false
	}
	for i := range x {
		a, b := x[i], y[i]
		if a.typ != b.typ || a.sub != b.sub {
			return false
		}
		if a.typ == efp.TokenTypeOperand && a.sub == efp.TokenSubTypeRange {
			ra, oka := parseRef(a.val)
			rb, okb := parseRef(b.val)
			if oka && okb {
				if !shifted(ra, rb, rows, cols) {
					return false
				}
				continue
			}
		}
		if a.val != b.val {
			return false
		}
	}
	return true
}

// shifted reports if b is a with its relative parts moved by (rows, cols). Absolute parts stay.
func shifted(a, b ref, rows, cols int) bool {
	if a.sheet != b.sheet || len(a.points) != len(b.points) {
		return false
	}
	for i := range a.points {
		p, q := a.points[i], b.points[i]
		if p.hasRow != q.hasRow || p.hasCol != q.hasCol || p.absRow != q.absRow || p.absCol != q.absCol {
			return false
		}
		if p.hasRow && q.row != p.row+offset(rows, p.absRow) {
			return false
		}
		if p.hasCol && q.col != p.col+offset(cols, p.absCol) {
			return false
		}
	}
	return true
}

func offset(d int, abs bool) int {
	if abs {
		return 0
	}
	return d
}
