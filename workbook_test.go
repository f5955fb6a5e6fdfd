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
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func workbooks() (old, new *Workbook) {
	sheet := numbers(3, 3, distinct)
	old = &Workbook{
		Sheets: []Sheet{
			{Name: "Sheet1", Grid: sheet},
			{Name: "Removed", Grid: numbers(1, 1, distinct)},
		},
		NamedRanges: []NamedRange{
			{Name: "Total", RefersTo: "Sheet1!$A$1"},
			{Name: "Gone", RefersTo: "Sheet1!$B$1"},
		},
		Charts: []Chart{
			{Sheet: "Sheet1", Name: "Chart 1", Type: "bar", DataRange: "Sheet1!A1:B3"},
		},
		VBAModules: []VBAModule{
			{Name: "Module1", Kind: "standard", Code: "Sub A()\r\nEnd Sub"},
		},
		Queries: []Query{
			{Name: "Sales", Definition: "let x = 1 in x"},
			{Name: "Old", Definition: "let y = 2 in y", LoadToSheet: true},
		},
	}
	new = &Workbook{
		Sheets: []Sheet{
			{Name: "sheet1", Grid: edit(sheet, func(g *Grid) { g.SetValue(0, 0, NumberValue(0)) })},
			{Name: "Added"},
		},
		NamedRanges: []NamedRange{
			{Name: "total", RefersTo: "Sheet1!$A$2"},
			{Name: "New", RefersTo: "Sheet1!$C$1"},
		},
		Charts: []Chart{
			{Sheet: "Sheet1", Name: "Chart 1", Type: "line", DataRange: "Sheet1!A1:B3"},
		},
		VBAModules: []VBAModule{
			{Name: "Module1", Kind: "standard", Code: "Sub A()\nEnd Sub"},
			{Name: "Module2", Kind: "class"},
		},
		Queries: []Query{
			{Name: "Sales", Definition: "let  x = 1\nin x\n"},
			{Name: "Renamed", Definition: "let y = 2 in y"},
			{Name: "Fresh", Definition: "1", Group: "g"},
		},
	}
	return old, new
}

func TestDiff(t *testing.T) {
	old, new := workbooks()
	got, err := Diff(context.Background(), NewInterner(), old, new)
	if err != nil {
		t.Fatal(err)
	}
	want := []Op{
		CellEdited{
			Sheet: "sheet1",
			Addr:  CellAddress{0, 0},
			From:  CellSnapshot{Addr: CellAddress{0, 0}, Value: NumberValue(11)},
			To:    CellSnapshot{Addr: CellAddress{0, 0}, Value: NumberValue(0)},
		},
		SheetRemoved{Sheet: "Removed"},
		SheetAdded{Sheet: "Added"},
		NamedRangeRemoved{Name: "Gone", Ref: "Sheet1!$B$1"},
		NamedRangeAdded{Name: "New", Ref: "Sheet1!$C$1"},
		NamedRangeChanged{Name: "total", OldRef: "Sheet1!$A$1", NewRef: "Sheet1!$A$2"},
		ChartChanged{Sheet: "Sheet1", Name: "Chart 1"},
		VBAModuleAdded{Name: "Module2"},
		QueryRenamed{From: "Old", To: "Renamed"},
		QueryMetadataChanged{Name: "Renamed", Field: "load_to_sheet", Old: "true", New: "false"},
		QueryAdded{Name: "Fresh"},
		QueryDefinitionChanged{Name: "Sales", ChangeKind: QueryChangeFormattingOnly},
	}
	if diff := cmp.Diff(want, got.Ops, opts...); diff != "" {
		t.Errorf("Diff(...) differs [-want,+got]:\n%s", diff)
	}
	if got.Metrics.SheetsCompared != 1 {
		t.Errorf("SheetsCompared = %d, want 1", got.Metrics.SheetsCompared)
	}
	if got.Metrics.MDiffTime == 0 {
		t.Error("MDiffTime = 0, want > 0")
	}
}

func TestDiffQueries(t *testing.T) {
	tests := []struct {
		name     string
		old, new []Query
		want     []Op
	}{
		{
			name: "unchanged",
			old:  []Query{{Name: "Q", Definition: "let a = 1 in a"}},
			new:  []Query{{Name: "q", Definition: "let a = 1 in a\r\n"}},
			want: nil,
		},
		{
			name: "semantic",
			old:  []Query{{Name: "Q", Definition: "let a = 1 in a"}},
			new:  []Query{{Name: "Q", Definition: "let a = 2 in a"}},
			want: []Op{QueryDefinitionChanged{Name: "Q", ChangeKind: QueryChangeSemantic}},
		},
		{
			name: "metadata",
			old:  []Query{{Name: "Q", Definition: "1", Group: "a", LoadToModel: true}},
			new:  []Query{{Name: "Q", Definition: "1", Group: "b"}},
			want: []Op{
				QueryMetadataChanged{Name: "Q", Field: "load_to_model", Old: "true", New: "false"},
				QueryMetadataChanged{Name: "Q", Field: "group", Old: "a", New: "b"},
			},
		},
		{
			name: "removed-and-added",
			old:  []Query{{Name: "A", Definition: "1"}},
			new:  []Query{{Name: "B", Definition: "2"}},
			want: []Op{QueryAdded{Name: "B"}, QueryRemoved{Name: "A"}},
		},
		{
			name: "rename-claims-once",
			old:  []Query{{Name: "A", Definition: "1"}, {Name: "B", Definition: "1"}},
			new:  []Query{{Name: "C", Definition: "1"}},
			want: []Op{QueryRenamed{From: "A", To: "C"}, QueryRemoved{Name: "B"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diffQueries(tt.old, tt.new)
			if diff := cmp.Diff(tt.want, got, opts...); diff != "" {
				t.Errorf("diffQueries(...) differs [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestQueryHash(t *testing.T) {
	if queryHash("let a = 1 in a") != queryHash("  let a = 1 in a\r\n") {
		t.Error("queryHash(...) depends on surrounding whitespace")
	}
	if queryHash("let a = 1 in a") == queryHash("let a = 2 in a") {
		t.Error("queryHash(...) collides for different definitions")
	}
}

func TestReportJSON(t *testing.T) {
	old, new := workbooks()
	in := NewInterner()
	in.Intern("text")
	report, err := Diff(context.Background(), in, old, new)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("json.Marshal(report) = %v", err)
	}
	var got Report
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("json.Unmarshal(...) = %v", err)
	}
	ignore := cmpopts.IgnoreFields(Report{}, "Metrics")
	if diff := cmp.Diff(report, &got, ignore, cmp.Comparer(CellValue.Equal), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("json round trip differs [-want,+got]:\n%s", diff)
	}
}

func TestCellValueJSON(t *testing.T) {
	tests := []struct {
		v    CellValue
		want string
	}{
		{NumberValue(1.5), `{"Number":1.5}`},
		{NumberValue(math.NaN()), `{"Number":"NaN"}`},
		{NumberValue(math.Inf(1)), `{"Number":"+Inf"}`},
		{NumberValue(math.Inf(-1)), `{"Number":"-Inf"}`},
		{BoolValue(false), `{"Bool":false}`},
		{CellValue{}, `"Blank"`},
	}
	for _, tt := range tests {
		b, err := json.Marshal(tt.v)
		if err != nil {
			t.Fatalf("json.Marshal(%v) = %v", tt.v, err)
		}
		if diff := cmp.Diff(tt.want, string(b)); diff != "" {
			t.Errorf("json.Marshal(%v) differs [-want,+got]:\n%s", tt.v, diff)
		}
		var got CellValue
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("json.Unmarshal(%s) = %v", b, err)
		}
		if !got.Equal(tt.v) {
			t.Errorf("json.Unmarshal(%s) = %v, want %v", b, got, tt.v)
		}
	}

	for _, in := range []string{`{"Number":"1.5"}`, `{"Number":"x"}`, `{"Number":true}`, `{}`} {
		var v CellValue
		if err := json.Unmarshal([]byte(in), &v); err == nil {
			t.Errorf("json.Unmarshal(%s) = %v, want error", in, v)
		}
	}
}

func TestUnmarshalOpErrors(t *testing.T) {
	for _, in := range []string{
		`{`,
		`{"kind":"Nope"}`,
		`{"kind":"CellEdited","addr":"1A"}`,
		`{"kind":"CellEdited","formula_diff":"Nope"}`,
	} {
		if op, err := UnmarshalOp([]byte(in)); err == nil {
			t.Errorf("UnmarshalOp(%s) = %v, want error", in, op)
		}
	}
}

func TestMarshalOp(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{RowAdded{Sheet: "S", Row: 2}, `{"kind":"RowAdded","sheet":"S","row_idx":2}`},
		{RowAdded{Sheet: "S", Row: 2, RowSignature: 7}, `{"kind":"RowAdded","sheet":"S","row_idx":2,"row_signature":7}`},
		{VBAModuleAdded{Name: "M"}, `{"kind":"VBAModuleAdded","name":"M"}`},
		{
			CellEdited{Sheet: "S", Addr: CellAddress{0, 0}, From: CellSnapshot{Addr: CellAddress{0, 0}}, To: CellSnapshot{Addr: CellAddress{0, 0}, Value: BoolValue(true)}, FormulaDiff: FormulaAdded},
			`{"kind":"CellEdited","sheet":"S","addr":"A1","from":{"addr":"A1"},"to":{"addr":"A1","value":{"Bool":true}},"formula_diff":"Added"}`,
		},
	}
	for _, tt := range tests {
		b, err := MarshalOp(tt.op)
		if err != nil {
			t.Fatalf("MarshalOp(%v) = %v", tt.op, err)
		}
		if diff := cmp.Diff(tt.want, string(b)); diff != "" {
			t.Errorf("MarshalOp(%v) differs [-want,+got]:\n%s", tt.op, diff)
		}
		got, err := UnmarshalOp(b)
		if err != nil {
			t.Fatalf("UnmarshalOp(%s) = %v", b, err)
		}
		if diff := cmp.Diff(tt.op, got, cmp.Comparer(CellValue.Equal)); diff != "" {
			t.Errorf("UnmarshalOp(MarshalOp(%v)) differs [-want,+got]:\n%s", tt.op, diff)
		}
	}
}
