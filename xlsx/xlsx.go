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

// Package xlsx loads Office Open XML workbooks into [sheetdiff.Workbook] values.
//
// Only cell contents and workbook scoped objects that excelize can read are loaded: values,
// formulas and defined names. Charts, VBA projects and Power Query definitions are left empty.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"znkr.io/sheetdiff"
)

// Open reads the workbook at path. All strings are interned in in.
func Open(path string, in *sheetdiff.Interner) (*sheetdiff.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	wb, err := load(f, in)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return wb, nil
}

// Read reads a workbook from r. All strings are interned in in.
func Read(r io.Reader, in *sheetdiff.Interner) (*sheetdiff.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return load(f, in)
}

func load(f *excelize.File, in *sheetdiff.Interner) (*sheetdiff.Workbook, error) {
	wb := &sheetdiff.Workbook{}
	for _, name := range f.GetSheetList() {
		g, err := loadSheet(f, name, in)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, sheetdiff.Sheet{Name: name, Grid: g})
	}
	for _, dn := range f.GetDefinedName() {
		name := dn.Name
		if dn.Scope != "" && dn.Scope != "Workbook" {
			name = dn.Scope + "!" + name
		}
		wb.NamedRanges = append(wb.NamedRanges, sheetdiff.NamedRange{Name: name, RefersTo: dn.RefersTo})
	}
	return wb, nil
}

func loadSheet(f *excelize.File, sheet string, in *sheetdiff.Interner) (*sheetdiff.Grid, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	ncols := 0
	for _, row := range rows {
		ncols = max(ncols, len(row))
	}
	g := sheetdiff.NewGrid(len(rows), ncols)
	for r, row := range rows {
		for c, raw := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			formula, err := f.GetCellFormula(sheet, name)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if raw == "" && formula == "" {
				continue
			}
			typ, err := f.GetCellType(sheet, name)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			cell := sheetdiff.Cell{Value: value(typ, raw, in)}
			if formula != "" {
				cell.Formula = in.Intern("=" + strings.TrimPrefix(formula, "="))
			}
			g.Set(r, c, cell)
		}
	}
	return g, nil
}

// value converts a raw cell value to a cell value.
func value(typ excelize.CellType, raw string, in *sheetdiff.Interner) sheetdiff.CellValue {
	if raw == "" {
		return sheetdiff.CellValue{}
	}
	switch typ {
	case excelize.CellTypeBool:
		return sheetdiff.BoolValue(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeError:
		return sheetdiff.ErrorValue(in.Intern(raw))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return sheetdiff.TextValue(in.Intern(raw))
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return sheetdiff.NumberValue(f)
	}
	return sheetdiff.TextValue(in.Intern(raw))
}
