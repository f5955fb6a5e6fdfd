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
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"znkr.io/sheetdiff"
)

// textWriter is a sink that prints one line per op.
type textWriter struct {
	w  *bufio.Writer
	in *sheetdiff.Interner
}

func newTextWriter(w io.Writer) *textWriter {
	return &textWriter{w: bufio.NewWriter(w)}
}

func (t *textWriter) Begin(in *sheetdiff.Interner) error {
	t.in = in
	return nil
}

func (t *textWriter) Emit(op sheetdiff.Op) error {
	_, err := fmt.Fprintln(t.w, describe(op, t.in))
	return err
}

func (t *textWriter) Finish() error { return t.w.Flush() }

// describe renders an op for humans. Row and column numbers are one based.
func describe(op sheetdiff.Op, in *sheetdiff.Interner) string {
	switch op := op.(type) {
	case sheetdiff.SheetAdded:
		return fmt.Sprintf("+ sheet %q", op.Sheet)
	case sheetdiff.SheetRemoved:
		return fmt.Sprintf("- sheet %q", op.Sheet)
	case sheetdiff.RowAdded:
		return fmt.Sprintf("%s: + row %d", op.Sheet, op.Row+1)
	case sheetdiff.RowRemoved:
		return fmt.Sprintf("%s: - row %d", op.Sheet, op.Row+1)
	case sheetdiff.ColumnAdded:
		return fmt.Sprintf("%s: + column %s", op.Sheet, sheetdiff.ColumnName(op.Col))
	case sheetdiff.ColumnRemoved:
		return fmt.Sprintf("%s: - column %s", op.Sheet, sheetdiff.ColumnName(op.Col))
	case sheetdiff.BlockMovedRows:
		return fmt.Sprintf("%s: rows %d-%d moved to %d", op.Sheet, op.SrcStartRow+1, op.SrcStartRow+op.RowCount, op.DstStartRow+1)
	case sheetdiff.BlockMovedColumns:
		return fmt.Sprintf("%s: columns %s-%s moved to %s", op.Sheet,
			sheetdiff.ColumnName(op.SrcStartCol), sheetdiff.ColumnName(op.SrcStartCol+op.ColCount-1), sheetdiff.ColumnName(op.DstStartCol))
	case sheetdiff.BlockMovedRect:
		src := sheetdiff.CellAddress{Row: op.SrcStartRow, Col: op.SrcStartCol}
		end := sheetdiff.CellAddress{Row: op.SrcStartRow + op.SrcRowCount - 1, Col: op.SrcStartCol + op.SrcColCount - 1}
		dst := sheetdiff.CellAddress{Row: op.DstStartRow, Col: op.DstStartCol}
		return fmt.Sprintf("%s: %v:%v moved to %v", op.Sheet, src, end, dst)
	case sheetdiff.RectReplaced:
		start := sheetdiff.CellAddress{Row: op.StartRow, Col: op.StartCol}
		end := sheetdiff.CellAddress{Row: op.StartRow + op.RowCount - 1, Col: op.StartCol + op.ColCount - 1}
		return fmt.Sprintf("%s: %v:%v replaced", op.Sheet, start, end)
	case sheetdiff.CellEdited:
		return fmt.Sprintf("%s!%v: %s -> %s (%v)", op.Sheet, op.Addr, snapshot(op.From, in), snapshot(op.To, in), op.FormulaDiff)
	case sheetdiff.NamedRangeAdded:
		return fmt.Sprintf("+ name %s = %s", op.Name, op.Ref)
	case sheetdiff.NamedRangeRemoved:
		return fmt.Sprintf("- name %s = %s", op.Name, op.Ref)
	case sheetdiff.NamedRangeChanged:
		return fmt.Sprintf("~ name %s: %s -> %s", op.Name, op.OldRef, op.NewRef)
	case sheetdiff.ChartAdded:
		return fmt.Sprintf("%s: + chart %q", op.Sheet, op.Name)
	case sheetdiff.ChartRemoved:
		return fmt.Sprintf("%s: - chart %q", op.Sheet, op.Name)
	case sheetdiff.ChartChanged:
		return fmt.Sprintf("%s: ~ chart %q", op.Sheet, op.Name)
	case sheetdiff.VBAModuleAdded:
		return fmt.Sprintf("+ module %s", op.Name)
	case sheetdiff.VBAModuleRemoved:
		return fmt.Sprintf("- module %s", op.Name)
	case sheetdiff.VBAModuleChanged:
		return fmt.Sprintf("~ module %s", op.Name)
	case sheetdiff.QueryAdded:
		return fmt.Sprintf("+ query %s", op.Name)
	case sheetdiff.QueryRemoved:
		return fmt.Sprintf("- query %s", op.Name)
	case sheetdiff.QueryRenamed:
		return fmt.Sprintf("~ query %s renamed to %s", op.From, op.To)
	case sheetdiff.QueryDefinitionChanged:
		return fmt.Sprintf("~ query %s: definition changed (%s)", op.Name, op.ChangeKind)
	case sheetdiff.QueryMetadataChanged:
		return fmt.Sprintf("~ query %s: %s %s -> %s", op.Name, op.Field, op.Old, op.New)
	default:
		return fmt.Sprintf("%v", op)
	}
}

func snapshot(s sheetdiff.CellSnapshot, in *sheetdiff.Interner) string {
	if s.Formula != 0 {
		return in.Resolve(s.Formula)
	}
	return s.Value.Format(in)
}

func writeJSON(w io.Writer, r *sheetdiff.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
