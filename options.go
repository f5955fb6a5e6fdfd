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
	"log/slog"
	"maps"
	"strings"
	"time"

	"znkr.io/sheetdiff/internal/config"
)

// Option configures the behavior of comparison functions.
type Option = config.Option

// LimitPolicy decides what happens when a sheet exceeds the alignment limits, see
// [AlignmentLimits].
type LimitPolicy = config.LimitPolicy

const (
	// LimitReturnPartialResult diffs the sheet positionally, adds a warning and marks the result as
	// incomplete. This is the default.
	LimitReturnPartialResult = config.LimitReturnPartialResult

	// LimitFallbackToPositional diffs the sheet positionally without a warning.
	LimitFallbackToPositional = config.LimitFallbackToPositional

	// LimitReturnError aborts the run with a [*LimitsExceededError].
	LimitReturnError = config.LimitReturnError
)

// preset replaces all tuning parameters while keeping callbacks, timeout and database mode
// selections of earlier options.
func preset(p config.Config) Option {
	return func(cfg *config.Config) config.Flag {
		keep := *cfg
		*cfg = p
		cfg.Timeout = keep.Timeout
		cfg.DatabaseSheets = keep.DatabaseSheets
		cfg.Progress = keep.Progress
		cfg.Logger = keep.Logger
		return config.Preset
	}
}

// Fastest trades precision for speed: an eager preflight, small pairing budgets, few move
// iterations and exact moves only.
func Fastest() Option { return preset(config.Fastest) }

// Balanced is the default configuration.
func Balanced() Option { return preset(config.Default) }

// MostPrecise never takes the preflight shortcut, always computes minimal alignments and searches
// harder for moves.
func MostPrecise() Option { return preset(config.MostPrecise) }

// PreflightMinRows sets the number of rows a sheet needs before preflight considers bypassing
// alignment and move detection. The default is 5000.
func PreflightMinRows(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.PreflightMinRows = max(0, n)
		return config.Preflight
	}
}

// PreflightInOrder sets the thresholds for the "few edits, same order" bypass: at most
// maxMismatches rows may differ and at least minRatio of all rows must be identical. The defaults
// are 32 and 0.995.
func PreflightInOrder(maxMismatches int, minRatio float64) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.PreflightInOrderMismatchMax = max(0, maxMismatches)
		cfg.PreflightInOrderMatchRatio = minRatio
		return config.Preflight
	}
}

// BailoutSimilarity sets the similarity below which a sheet is considered rewritten and diffed
// positionally. The default is 0.05.
func BailoutSimilarity(f float64) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.BailoutSimilarity = f
		return config.Preflight
	}
}

// AlignmentLimits sets the maximum number of rows and columns of a sheet that is aligned. Larger
// sheets are handled according to the [LimitPolicy] set with [OnLimitExceeded].
func AlignmentLimits(rows, cols int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MaxAlignRows = max(0, rows)
		cfg.MaxAlignCols = max(0, cols)
		return config.Limits
	}
}

// OnLimitExceeded sets the policy for sheets that exceed the alignment limits.
func OnLimitExceeded(p LimitPolicy) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.OnLimitExceeded = p
		return config.Limits
	}
}

// FuzzyPairing sets the minimum similarity of two rows or columns to be paired as "the same
// line, modified". The defaults are 0.5.
func FuzzyPairing(rowMin, colMin float64) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.RowSimilarityMin = rowMin
		cfg.ColumnSimilarityMin = colMin
		return config.Alignment
	}
}

// MinimalAlignment finds a minimal alignment irrespective of the cost. By default, the alignment
// applies a heuristic that limits the cost for large sheets with many differences.
func MinimalAlignment() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MinimalAlignment = true
		return config.Alignment
	}
}

// MaxMoveIterations sets the maximum number of moves detected per sheet. Zero disables move
// detection. The default is 10.
func MaxMoveIterations(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MaxMoveIterations = max(0, n)
		return config.Moves
	}
}

// MaxHashRepeat sets how often a row, column or cell content may repeat before it's no longer
// used to anchor a move. The default is 8.
func MaxHashRepeat(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MaxHashRepeat = max(1, n)
		return config.Moves
	}
}

// MoveFuzzTolerance sets the number of differing cells a moved block may contain. The
// differences are reported as [CellEdited] ops. The default is 2.
func MoveFuzzTolerance(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MoveFuzzTolerance = max(0, n)
		return config.Moves
	}
}

// RectReplaceMinCells enables [RectReplaced] ops for fully edited rectangles with at least n
// cells. Zero, the default, disables them.
func RectReplaceMinCells(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.RectReplaceMinCells = max(0, n)
		return config.RectReplace
	}
}

// Timeout limits the wall time of a run. The timeout is checked between phases. A run that
// times out returns an incomplete result with a warning, not an error. Zero disables the
// timeout.
func Timeout(d time.Duration) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Timeout = max(0, d)
		return config.Timeout
	}
}

// DatabaseMode diffs the named sheet as a table keyed by the given zero based columns. Sheet
// names are matched case-insensitively.
func DatabaseMode(sheet string, keyColumns ...int) Option {
	return func(cfg *config.Config) config.Flag {
		m := maps.Clone(cfg.DatabaseSheets)
		if m == nil {
			m = make(map[string][]int)
		}
		m[strings.ToLower(sheet)] = append([]int(nil), keyColumns...)
		cfg.DatabaseSheets = m
		return config.DatabaseMode
	}
}

// WithProgress sets a callback that receives the current phase and its completion in [0, 1].
// Phases are [PhaseParse], [PhaseAlignment], [PhaseMoveDetection], [PhaseCellDiff] and
// [PhaseMDiff].
func WithProgress(fn func(phase string, pct float64)) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Progress = fn
		return config.Progress
	}
}

// WithLogger sets the logger for debug output. By default, nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Logger = l
		return config.Logger
	}
}
