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

	"znkr.io/sheetdiff/internal/config"
)

// Diff compares two workbooks and returns all changes as a report.
//
// Every string referenced by the workbooks must be interned in in before calling Diff; the
// interner is frozen for the duration of the run.
//
// A canceled context stops the run between phases with an error that wraps [ErrCanceled]. A
// [Timeout] stops the run early with an incomplete report and no error.
//
// All options are supported.
func Diff(ctx context.Context, in *Interner, old, new *Workbook, opts ...Option) (*Report, error) {
	var c OpCollector
	sum, err := DiffStreaming(ctx, in, old, new, &c, opts...)
	if err != nil {
		return nil, err
	}
	return newReport(&c, sum), nil
}

// DiffStreaming compares two workbooks and emits all changes to sink. The sink is finished
// exactly once, also if the run fails.
//
// Ops are emitted in order: sheet ops (per sheet in the order of the old workbook, followed by
// added sheets), then object ops, then query ops.
//
// All options are supported.
func DiffStreaming(ctx context.Context, in *Interner, old, new *Workbook, sink Sink, opts ...Option) (Summary, error) {
	cfg := config.FromOptions(opts, config.All)
	r := newRun(ctx, in, sink, &cfg)
	return r.execute(func() error { return r.diffWorkbooks(old, new) })
}

// DiffGrids compares two grids of the named sheet and returns all changes as a report.
//
// All options are supported.
func DiffGrids(ctx context.Context, in *Interner, sheet string, old, new *Grid, opts ...Option) (*Report, error) {
	var c OpCollector
	sum, err := DiffGridsStreaming(ctx, in, sheet, old, new, &c, opts...)
	if err != nil {
		return nil, err
	}
	return newReport(&c, sum), nil
}

// DiffGridsStreaming compares two grids of the named sheet and emits all changes to sink.
//
// All options are supported.
func DiffGridsStreaming(ctx context.Context, in *Interner, sheet string, old, new *Grid, sink Sink, opts ...Option) (Summary, error) {
	cfg := config.FromOptions(opts, config.All)
	r := newRun(ctx, in, sink, &cfg)
	return r.execute(func() error { return r.diffSheet(sheet, old, new) })
}

// DiffGridsDatabaseMode compares two grids as tables keyed by keyColumns: rows are matched by
// the values in the key columns, irrespective of their position. If a key repeats in either grid,
// the grids are diffed like regular sheets and the report is marked as incomplete.
//
// All options except [DatabaseMode] are supported.
func DiffGridsDatabaseMode(ctx context.Context, in *Interner, sheet string, old, new *Grid, keyColumns []int, opts ...Option) (*Report, error) {
	var c OpCollector
	sum, err := DiffGridsDatabaseModeStreaming(ctx, in, sheet, old, new, keyColumns, &c, opts...)
	if err != nil {
		return nil, err
	}
	return newReport(&c, sum), nil
}

// DiffGridsDatabaseModeStreaming is like [DiffGridsDatabaseMode] but emits all changes to sink.
//
// All options except [DatabaseMode] are supported.
func DiffGridsDatabaseModeStreaming(ctx context.Context, in *Interner, sheet string, old, new *Grid, keyColumns []int, sink Sink, opts ...Option) (Summary, error) {
	cfg := config.FromOptions(opts, config.Grid)
	r := newRun(ctx, in, sink, &cfg)
	return r.execute(func() error {
		r.metrics.SheetsCompared++
		r.metrics.RowsProcessed += old.nrows + new.nrows
		return r.diffDatabase(sheet, old, new, keyColumns)
	})
}

func newReport(c *OpCollector, sum Summary) *Report {
	return &Report{
		Version:  ReportVersion,
		Strings:  c.Strings,
		Ops:      c.Ops,
		Complete: sum.Complete,
		Warnings: sum.Warnings,
		Metrics:  sum.Metrics,
	}
}
