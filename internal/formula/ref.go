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

package formula

import "strings"

// ref is a parsed cell, row, column or range reference such as A1, $B$2:C3, 1:1, Sheet1!A:A.
type ref struct {
	sheet  string
	points []point
}

type point struct {
	row, col       int
	hasRow, hasCol bool
	absRow, absCol bool
}

// parseRef parses an upper case reference. Names (e.g. defined names) don't parse.
func parseRef(s string) (ref, bool) {
	var r ref
	if i := strings.LastIndexByte(s, '!'); i >= 0 {
		r.sheet, s = s[:i], s[i+1:]
	}
	parts := strings.Split(s, ":")
	if len(parts) > 2 {
		return ref{}, false
	}
	for _, part := range parts {
		p, ok := parsePoint(part)
		if !ok {
			return ref{}, false
		}
		r.points = append(r.points, p)
	}
	return r, true
}

func parsePoint(s string) (point, bool) {
	var p point
	i := 0
	if i < len(s) && s[i] == '$' {
		p.absCol = true
		i++
	}
	j := i
	for j < len(s) && 'A' <= s[j] && s[j] <= 'Z' {
		p.col = p.col*26 + int(s[j]-'A'+1)
		j++
	}
	switch {
	case j-i > 3:
		return point{}, false
	case j > i:
		p.hasCol = true
		p.col--
	case p.absCol:
		// "$1" is an absolute row.
		p.absCol, p.absRow = false, true
	}
	i = j
	if i < len(s) && s[i] == '$' {
		if p.absRow {
			return point{}, false
		}
		p.absRow = true
		i++
	}
	j = i
	for j < len(s) && '0' <= s[j] && s[j] <= '9' && j-i < 8 {
		p.row = p.row*10 + int(s[j]-'0')
		j++
	}
	if j > i {
		if p.row == 0 {
			return point{}, false
		}
		p.hasRow = true
		p.row--
	} else if p.absRow {
		return point{}, false
	}
	if j != len(s) || !p.hasRow && !p.hasCol {
		return point{}, false
	}
	return p, true
}
