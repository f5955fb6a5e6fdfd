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

// Package sheetdiff compares two versions of a spreadsheet and describes the changes as a list of
// structural operations: edited cells, added and removed rows and columns, and moved row blocks,
// column blocks and rectangles.
//
// The main functions are [Diff], which returns a [Report] for two workbooks, and [DiffStreaming],
// which emits every op to a [Sink] as soon as it's known. [DiffGrids] and [DiffGridsDatabaseMode]
// compare single grids.
//
// A comparison of a sheet runs in phases. A cheap preflight decides if a positional comparison is
// sufficient. Otherwise, columns and rows are aligned with Myers' algorithm (with fuzzy pairing of
// modified lines), moved blocks are detected on top of the alignment and all remaining
// differences are reported cell by cell. No differing cell is ever dropped: every difference is
// represented by some op.
//
// Strings are not stored in cells directly, they are interned in an [Interner] and referenced by
// [StringID]. Reports carry the string table so that they can be resolved independently.
//
// Important: The output is not guaranteed to be stable and may change with minor version upgrades.
// DO NOT rely on the output being stable.
package sheetdiff
