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
	"strings"

	"znkr.io/sheetdiff/internal/config"
)

// sheetDiff holds the state of the comparison of a single sheet.
type sheetDiff struct {
	*run
	name     string
	old, new *view
	h        *hasher

	// Alignment.
	rows, cols           *axis
	rowSigOld, rowSigNew []uint64

	// Move detection.
	proj  *projection
	moves []Op
	rects []rectMove
}

// diffSheet compares two grids and emits the resulting ops.
func (r *run) diffSheet(name string, old, new *Grid) error {
	r.metrics.SheetsCompared++
	r.metrics.RowsProcessed += old.nrows + new.nrows
	if keys, ok := r.cfg.DatabaseSheets[strings.ToLower(name)]; ok {
		return r.diffDatabase(name, old, new, keys)
	}

	sd := r.newSheetDiff(name, old, new)
	if err := r.checkpoint(); err != nil {
		return err
	}
	ops, err := sd.diff()
	if err != nil {
		return err
	}
	return r.em.emitAll(ops)
}

func (r *run) newSheetDiff(name string, old, new *Grid) *sheetDiff {
	sd := &sheetDiff{run: r, name: name, h: newHasher()}
	r.progress.report(PhaseParse, 0)
	timed(&r.metrics.ParseTime, func() {
		sd.old, sd.new = newView(old), newView(new)
	})
	r.progress.report(PhaseParse, 1)
	return sd
}

func (sd *sheetDiff) diff() ([]Op, error) {
	if sd.identical() {
		return nil, nil
	}

	if d := sd.preflight(); d != preflightFull {
		sd.log.Debug("preflight bypass", "sheet", sd.name, "decision", d)
		return sd.diffPositional(), nil
	}

	rows, cols := max(sd.old.nrows, sd.new.nrows), max(sd.old.ncols, sd.new.ncols)
	if rows > sd.cfg.MaxAlignRows || cols > sd.cfg.MaxAlignCols {
		sd.log.Debug("alignment limits exceeded", "sheet", sd.name, "rows", rows, "cols", cols, "policy", sd.cfg.OnLimitExceeded)
		switch sd.cfg.OnLimitExceeded {
		case config.LimitReturnError:
			return nil, &LimitsExceededError{
				Sheet:   sd.name,
				Rows:    rows,
				Cols:    cols,
				MaxRows: sd.cfg.MaxAlignRows,
				MaxCols: sd.cfg.MaxAlignCols,
			}
		case config.LimitReturnPartialResult:
			sd.warn(fmt.Sprintf("Sheet '%s': alignment limits exceeded (rows=%d, cols=%d; limits: rows=%d, cols=%d)",
				sd.name, rows, cols, sd.cfg.MaxAlignRows, sd.cfg.MaxAlignCols))
		}
		return sd.diffPositional(), nil
	}

	if err := sd.checkpoint(); err != nil {
		return nil, err
	}
	sd.progress.report(PhaseAlignment, 0)
	timed(&sd.metrics.AlignmentTime, sd.align)
	sd.progress.report(PhaseAlignment, 1)

	if sd.cfg.MaxMoveIterations > 0 {
		if err := sd.checkpoint(); err != nil {
			return nil, err
		}
		sd.progress.report(PhaseMoveDetection, 0)
		timed(&sd.metrics.MoveDetectionTime, sd.detectMoves)
		sd.progress.report(PhaseMoveDetection, 1)
	}

	if err := sd.checkpoint(); err != nil {
		return nil, err
	}
	var ops []Op
	timed(&sd.metrics.CellDiffTime, func() { ops = sd.cellDiff() })
	sd.log.Debug("sheet compared", "sheet", sd.name, "moves", len(sd.moves), "ops", len(sd.moves)+len(ops))
	return append(sd.moves, ops...), nil
}

func (sd *sheetDiff) diffPositional() []Op {
	var ops []Op
	timed(&sd.metrics.CellDiffTime, func() { ops = sd.positional() })
	return ops
}

// identical reports if both grids have the same shape and the same cells.
func (sd *sheetDiff) identical() bool {
	o, n := sd.old, sd.new
	if o.nrows != n.nrows || o.ncols != n.ncols || o.ncells != n.ncells {
		return false
	}
	for r := range o.rows {
		a, b := o.rows[r], n.rows[r]
		if len(a) != len(b) {
			return false
		}
		for k := range a {
			if a[k].idx != b[k].idx || !a[k].cell.Equal(b[k].cell) {
				return false
			}
		}
	}
	return true
}
