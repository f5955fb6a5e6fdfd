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
	"fmt"
	"strconv"
)

// maxColumns bounds the column index of an address. It is large enough for every spreadsheet
// format in use and keeps column names at three letters or fewer.
const maxColumns = 26 + 26*26 + 26*26*26

// CellAddress is the zero-based position of a cell in a grid.
type CellAddress struct {
	Row, Col int
}

// String returns the address in A1 notation, e.g. "C3" for {Row: 2, Col: 2}.
func (a CellAddress) String() string {
	return ColumnName(a.Col) + strconv.Itoa(a.Row+1)
}

// MarshalText implements [encoding.TextMarshaler].
func (a CellAddress) MarshalText() ([]byte, error) {
	if a.Row < 0 || a.Col < 0 || a.Col >= maxColumns {
		return nil, fmt.Errorf("invalid cell address {%d, %d}", a.Row, a.Col)
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (a *CellAddress) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress parses an address in A1 notation. Column letters may be lower case.
func ParseAddress(s string) (CellAddress, error) {
	i := 0
	col := 0
	for i < len(s) && i < 3 && isLetter(s[i]) {
		col = col*26 + int(upper(s[i])-'A'+1)
		i++
	}
	if i == 0 || i == len(s) {
		return CellAddress{}, fmt.Errorf("invalid cell address %q", s)
	}
	for j := i; j < len(s); j++ {
		if s[j] < '0' || s[j] > '9' {
			return CellAddress{}, fmt.Errorf("invalid cell address %q", s)
		}
	}
	row, err := strconv.Atoi(s[i:])
	if err != nil || row < 1 {
		return CellAddress{}, fmt.Errorf("invalid cell address %q", s)
	}
	return CellAddress{Row: row - 1, Col: col - 1}, nil
}

// ColumnName returns the letters of a zero-based column index, e.g. "AA" for 26.
func ColumnName(col int) string {
	var buf [8]byte
	i := len(buf)
	for col++; col > 0; col = (col - 1) / 26 {
		i--
		buf[i] = byte('A' + (col-1)%26)
	}
	return string(buf[i:])
}

func isLetter(c byte) bool { return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' }

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
