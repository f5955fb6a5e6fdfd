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

// Workbook is a document with one or more sheets and the workbook level objects that are
// compared alongside the grids.
type Workbook struct {
	Sheets      []Sheet
	NamedRanges []NamedRange
	Charts      []Chart
	VBAModules  []VBAModule
	Queries     []Query
}

// Sheet is a named grid. Sheet names are matched case-insensitively.
type Sheet struct {
	Name string
	Grid *Grid
}

// NamedRange is a defined name, e.g. "Sales" referring to "Sheet1!$A$1:$B$10". Sheet scoped
// names use the "Sheet!Name" form.
type NamedRange struct {
	Name     string
	RefersTo string
}

// Chart is a chart on a sheet. Charts compare equal if their type and data range are equal.
type Chart struct {
	Sheet     string
	Name      string
	Type      string
	DataRange string
}

// VBAModule is a macro module.
type VBAModule struct {
	Name string
	Kind string // e.g. "standard", "class", "document"
	Code string
}

// Query is a Power Query (M) query.
type Query struct {
	Name        string
	Definition  string
	Group       string
	LoadToSheet bool
	LoadToModel bool
}
