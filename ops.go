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

// OpKind identifies the type of an [Op]. Its string form is the "kind" discriminator of the wire
// format.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=OpKind -trimprefix=Op
type OpKind int

const (
	OpSheetAdded OpKind = iota
	OpSheetRemoved
	OpRowAdded
	OpRowRemoved
	OpColumnAdded
	OpColumnRemoved
	OpBlockMovedRows
	OpBlockMovedColumns
	OpBlockMovedRect
	OpRectReplaced
	OpCellEdited
	OpNamedRangeAdded
	OpNamedRangeRemoved
	OpNamedRangeChanged
	OpChartAdded
	OpChartRemoved
	OpChartChanged
	OpVBAModuleAdded
	OpVBAModuleRemoved
	OpVBAModuleChanged
	OpQueryAdded
	OpQueryRemoved
	OpQueryRenamed
	OpQueryDefinitionChanged
	OpQueryMetadataChanged
)

// category orders ops within the output of a workbook comparison.
type category int

const (
	categoryGrid category = iota
	categoryObject
	categoryM
)

func (k OpKind) category() category {
	switch {
	case k >= OpQueryAdded:
		return categoryM
	case k >= OpNamedRangeAdded:
		return categoryObject
	default:
		return categoryGrid
	}
}

// Op is a single change operation. The set of operations is closed, the concrete types are the
// types in this file. Ops are values and compare structurally.
type Op interface {
	Kind() OpKind
	op()
}

// Signature is a content hash of a row, a column or a moved block. The zero value means that no
// signature is present.
type Signature uint64

// CellSnapshot is the state of a cell on one side of an edit.
type CellSnapshot struct {
	Addr    CellAddress `json:"addr"`
	Value   CellValue   `json:"value,omitzero"`
	Formula StringID    `json:"formula,omitempty"`
}

func snapshot(addr CellAddress, c Cell) CellSnapshot {
	return CellSnapshot{Addr: addr, Value: c.Value, Formula: c.Formula}
}

// FormulaDiff classifies the formula change of a [CellEdited] op. It only tags an edit, the edit
// is reported regardless of the classification.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=FormulaDiff -trimprefix=Formula
type FormulaDiff int

const (
	FormulaUnchanged      FormulaDiff = iota // Formula is unchanged, only the value differs.
	FormulaAdded                             // The new cell has a formula, the old one doesn't.
	FormulaRemoved                           // The old cell has a formula, the new one doesn't.
	FormulaFormattingOnly                    // Only whitespace or letter case differ.
	FormulaFilled                            // All relative references moved by the same offset.
	FormulaSemanticChange                    // Anything else.
	FormulaUnclassified                      // A formula couldn't be tokenized.
)

// QueryChangeKind classifies a change of a query definition.
type QueryChangeKind string

const (
	QueryChangeSemantic       QueryChangeKind = "semantic"
	QueryChangeFormattingOnly QueryChangeKind = "formatting_only"
)

type SheetAdded struct {
	Sheet string `json:"sheet"`
}

type SheetRemoved struct {
	Sheet string `json:"sheet"`
}

type RowAdded struct {
	Sheet        string    `json:"sheet"`
	Row          int       `json:"row_idx"`
	RowSignature Signature `json:"row_signature,omitempty"`
}

type RowRemoved struct {
	Sheet        string    `json:"sheet"`
	Row          int       `json:"row_idx"`
	RowSignature Signature `json:"row_signature,omitempty"`
}

type ColumnAdded struct {
	Sheet        string    `json:"sheet"`
	Col          int       `json:"col_idx"`
	ColSignature Signature `json:"col_signature,omitempty"`
}

type ColumnRemoved struct {
	Sheet        string    `json:"sheet"`
	Col          int       `json:"col_idx"`
	ColSignature Signature `json:"col_signature,omitempty"`
}

// BlockMovedRows reports that old rows [SrcStartRow, SrcStartRow+RowCount) moved to new rows
// [DstStartRow, DstStartRow+RowCount).
type BlockMovedRows struct {
	Sheet       string    `json:"sheet"`
	SrcStartRow int       `json:"src_start_row"`
	RowCount    int       `json:"row_count"`
	DstStartRow int       `json:"dst_start_row"`
	BlockHash   Signature `json:"block_hash,omitempty"`
}

// BlockMovedColumns reports that old columns [SrcStartCol, SrcStartCol+ColCount) moved to new
// columns [DstStartCol, DstStartCol+ColCount).
type BlockMovedColumns struct {
	Sheet       string    `json:"sheet"`
	SrcStartCol int       `json:"src_start_col"`
	ColCount    int       `json:"col_count"`
	DstStartCol int       `json:"dst_start_col"`
	BlockHash   Signature `json:"block_hash,omitempty"`
}

// BlockMovedRect reports that a rectangle of the old grid moved to a different position in the
// new grid.
type BlockMovedRect struct {
	Sheet       string    `json:"sheet"`
	SrcStartRow int       `json:"src_start_row"`
	SrcRowCount int       `json:"src_row_count"`
	SrcStartCol int       `json:"src_start_col"`
	SrcColCount int       `json:"src_col_count"`
	DstStartRow int       `json:"dst_start_row"`
	DstStartCol int       `json:"dst_start_col"`
	BlockHash   Signature `json:"block_hash,omitempty"`
}

// RectReplaced reports that every cell of a rectangle in the new grid changed.
type RectReplaced struct {
	Sheet    string `json:"sheet"`
	StartRow int    `json:"start_row"`
	StartCol int    `json:"start_col"`
	RowCount int    `json:"row_count"`
	ColCount int    `json:"col_count"`
}

// CellEdited reports a changed cell. Addr is the address in the new grid.
type CellEdited struct {
	Sheet       string       `json:"sheet"`
	Addr        CellAddress  `json:"addr"`
	From        CellSnapshot `json:"from"`
	To          CellSnapshot `json:"to"`
	FormulaDiff FormulaDiff  `json:"formula_diff"`
}

type NamedRangeAdded struct {
	Name string `json:"name"`
	Ref  string `json:"ref"`
}

type NamedRangeRemoved struct {
	Name string `json:"name"`
	Ref  string `json:"ref"`
}

type NamedRangeChanged struct {
	Name   string `json:"name"`
	OldRef string `json:"old_ref"`
	NewRef string `json:"new_ref"`
}

type ChartAdded struct {
	Sheet string `json:"sheet"`
	Name  string `json:"name"`
}

type ChartRemoved struct {
	Sheet string `json:"sheet"`
	Name  string `json:"name"`
}

type ChartChanged struct {
	Sheet string `json:"sheet"`
	Name  string `json:"name"`
}

type VBAModuleAdded struct {
	Name string `json:"name"`
}

type VBAModuleRemoved struct {
	Name string `json:"name"`
}

type VBAModuleChanged struct {
	Name string `json:"name"`
}

type QueryAdded struct {
	Name string `json:"name"`
}

type QueryRemoved struct {
	Name string `json:"name"`
}

type QueryRenamed struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type QueryDefinitionChanged struct {
	Name       string          `json:"name"`
	ChangeKind QueryChangeKind `json:"change_kind"`
	OldHash    Signature       `json:"old_hash"`
	NewHash    Signature       `json:"new_hash"`
}

type QueryMetadataChanged struct {
	Name  string `json:"name"`
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

func (SheetAdded) Kind() OpKind             { return OpSheetAdded }
func (SheetRemoved) Kind() OpKind           { return OpSheetRemoved }
func (RowAdded) Kind() OpKind               { return OpRowAdded }
func (RowRemoved) Kind() OpKind             { return OpRowRemoved }
func (ColumnAdded) Kind() OpKind            { return OpColumnAdded }
func (ColumnRemoved) Kind() OpKind          { return OpColumnRemoved }
func (BlockMovedRows) Kind() OpKind         { return OpBlockMovedRows }
func (BlockMovedColumns) Kind() OpKind      { return OpBlockMovedColumns }
func (BlockMovedRect) Kind() OpKind         { return OpBlockMovedRect }
func (RectReplaced) Kind() OpKind           { return OpRectReplaced }
func (CellEdited) Kind() OpKind             { return OpCellEdited }
func (NamedRangeAdded) Kind() OpKind        { return OpNamedRangeAdded }
func (NamedRangeRemoved) Kind() OpKind      { return OpNamedRangeRemoved }
func (NamedRangeChanged) Kind() OpKind      { return OpNamedRangeChanged }
func (ChartAdded) Kind() OpKind             { return OpChartAdded }
func (ChartRemoved) Kind() OpKind           { return OpChartRemoved }
func (ChartChanged) Kind() OpKind           { return OpChartChanged }
func (VBAModuleAdded) Kind() OpKind         { return OpVBAModuleAdded }
func (VBAModuleRemoved) Kind() OpKind       { return OpVBAModuleRemoved }
func (VBAModuleChanged) Kind() OpKind       { return OpVBAModuleChanged }
func (QueryAdded) Kind() OpKind             { return OpQueryAdded }
func (QueryRemoved) Kind() OpKind           { return OpQueryRemoved }
func (QueryRenamed) Kind() OpKind           { return OpQueryRenamed }
func (QueryDefinitionChanged) Kind() OpKind { return OpQueryDefinitionChanged }
func (QueryMetadataChanged) Kind() OpKind   { return OpQueryMetadataChanged }

func (SheetAdded) op()             {}
func (SheetRemoved) op()           {}
func (RowAdded) op()               {}
func (RowRemoved) op()             {}
func (ColumnAdded) op()            {}
func (ColumnRemoved) op()          {}
func (BlockMovedRows) op()         {}
func (BlockMovedColumns) op()      {}
func (BlockMovedRect) op()         {}
func (RectReplaced) op()           {}
func (CellEdited) op()             {}
func (NamedRangeAdded) op()        {}
func (NamedRangeRemoved) op()      {}
func (NamedRangeChanged) op()      {}
func (ChartAdded) op()             {}
func (ChartRemoved) op()           {}
func (ChartChanged) op()           {}
func (VBAModuleAdded) op()         {}
func (VBAModuleRemoved) op()       {}
func (VBAModuleChanged) op()       {}
func (QueryAdded) op()             {}
func (QueryRemoved) op()           {}
func (QueryRenamed) op()           {}
func (QueryDefinitionChanged) op() {}
func (QueryMetadataChanged) op()   {}
