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

import "time"

// ReportVersion is the schema version of reports and of the JSON Lines header.
const ReportVersion = "1"

// Report is the buffered result of a comparison.
type Report struct {
	Version string

	// Strings is the string table at the time the run started. Every [StringID] referenced by
	// Ops indexes into it.
	Strings []string

	// Ops in emission order.
	Ops []Op

	// Complete is false if the result is known to be incomplete, e.g. after a timeout. Warnings
	// describe why.
	Complete bool
	Warnings []string

	Metrics Metrics
}

// Resolve returns the string of id in the report's string table.
func (r *Report) Resolve(id StringID) string {
	return r.Strings[id]
}

// Summary is the result of a streaming comparison.
type Summary struct {
	OpCount  int
	Complete bool
	Warnings []string
	Metrics  Metrics
}

// Metrics describe where a run spent its time. A phase that didn't run reports a duration of
// exactly zero, a phase that ran reports at least one nanosecond.
type Metrics struct {
	ParseTime         time.Duration
	AlignmentTime     time.Duration
	MoveDetectionTime time.Duration
	CellDiffTime      time.Duration
	MDiffTime         time.Duration
	TotalTime         time.Duration

	SheetsCompared int
	RowsProcessed  int
	CellsCompared  int
	MovesDetected  int
}
