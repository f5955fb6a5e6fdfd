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

// Package config provides shared configuration mechanisms for packages this module.
//
// This package is an implementation detail, the configuration surface for users is provided via
// sheetdiff.Option.
package config

import (
	"log/slog"
	"math"
	"time"
)

// LimitPolicy decides what happens when a sheet exceeds the alignment limits.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=LimitPolicy -trimprefix=Limit
type LimitPolicy int

const (
	// Diff the sheet positionally, add a warning and mark the result as incomplete.
	LimitReturnPartialResult LimitPolicy = iota

	// Diff the sheet positionally without a warning.
	LimitFallbackToPositional

	// Abort the run with an error.
	LimitReturnError
)

// Config collects all configurable parameters of a diff run.
type Config struct {
	// Preflight thresholds.
	PreflightMinRows            int
	PreflightInOrderMismatchMax int
	PreflightInOrderMatchRatio  float64
	BailoutSimilarity           float64

	// Alignment limits and what to do when they are exceeded.
	MaxAlignRows    int
	MaxAlignCols    int
	OnLimitExceeded LimitPolicy

	// Thresholds for fuzzy pairing of rows and columns inside alignment gaps.
	RowSimilarityMin    float64
	ColumnSimilarityMin float64

	// Upper bound for the n*m work of a single fuzzy pairing. Larger gaps are paired
	// positionally.
	MaxPairingCells int

	// If set, internal/impl finds a minimal alignment irrespective of the cost.
	MinimalAlignment bool

	// Move detection.
	MaxMoveIterations int
	MaxHashRepeat     int
	MoveFuzzTolerance int

	// Minimum number of cells of a fully edited rectangle to emit it as a single RectReplaced op.
	// Zero disables RectReplaced.
	RectReplaceMinCells int

	// Maximum wall time of a run. Zero means no timeout.
	Timeout time.Duration

	// Sheets to diff in database mode, keyed by lowercased sheet name.
	DatabaseSheets map[string][]int

	Progress func(phase string, pct float64)
	Logger   *slog.Logger
}

// Default is the default configuration.
var Default = Config{
	PreflightMinRows:            5000,
	PreflightInOrderMismatchMax: 32,
	PreflightInOrderMatchRatio:  0.995,
	BailoutSimilarity:           0.05,
	MaxAlignRows:                500_000,
	MaxAlignCols:                16_384,
	OnLimitExceeded:             LimitReturnPartialResult,
	RowSimilarityMin:            0.5,
	ColumnSimilarityMin:         0.5,
	MaxPairingCells:             1 << 22,
	MaxMoveIterations:           10,
	MaxHashRepeat:               8,
	MoveFuzzTolerance:           2,
}

// Fastest trades precision for speed: few move iterations, exact moves only and an eager
// preflight.
var Fastest = func() Config {
	cfg := Default
	cfg.PreflightMinRows = 1000
	cfg.PreflightInOrderMismatchMax = 128
	cfg.PreflightInOrderMatchRatio = 0.99
	cfg.MaxPairingCells = 1 << 16
	cfg.MaxMoveIterations = 2
	cfg.MoveFuzzTolerance = 0
	return cfg
}()

// MostPrecise never takes the preflight shortcut and searches harder for moves.
var MostPrecise = func() Config {
	cfg := Default
	cfg.PreflightMinRows = math.MaxInt
	cfg.MaxPairingCells = 1 << 26
	cfg.MinimalAlignment = true
	cfg.MaxMoveIterations = 32
	cfg.MaxHashRepeat = 32
	cfg.MoveFuzzTolerance = 4
	return cfg
}()

// Flag describes a single config entry. This is used to detect if configurations are being set
// that are not supported by an entry point.
type Flag int

const (
	Preset Flag = 1 << iota
	Preflight
	Limits
	Alignment
	Moves
	RectReplace
	Timeout
	DatabaseMode
	Progress
	Logger

	// All flags except DatabaseMode. Entry points that already diff in database mode do not
	// accept a per-sheet database mode selection.
	Grid = Preset | Preflight | Limits | Alignment | Moves | RectReplace | Timeout | Progress | Logger
	All  = Grid | DatabaseMode
)

// Option is the mechanism used to expose the configuration to users.
type Option func(*Config) Flag

// FromOptions creates a configuration from a set of options.
func FromOptions(opts []Option, allowed Flag) Config {
	cfg := Default
	for _, opt := range opts {
		flag := opt(&cfg)
		if flag & ^allowed != 0 {
			panic("Option " + printFlag(flag) + " not allowed here")
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

func printFlag(flag Flag) string {
	switch flag {
	case Preset:
		return "sheetdiff.Preset"
	case Preflight:
		return "sheetdiff.Preflight"
	case Limits:
		return "sheetdiff.Limits"
	case Alignment:
		return "sheetdiff.Alignment"
	case Moves:
		return "sheetdiff.Moves"
	case RectReplace:
		return "sheetdiff.RectReplace"
	case Timeout:
		return "sheetdiff.Timeout"
	case DatabaseMode:
		return "sheetdiff.DatabaseMode"
	case Progress:
		return "sheetdiff.WithProgress"
	case Logger:
		return "sheetdiff.WithLogger"
	default:
		panic("never reached")
	}
}
