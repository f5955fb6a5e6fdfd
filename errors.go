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
	"errors"
	"fmt"
)

var (
	// ErrLimitsExceeded is returned (wrapped in a [*LimitsExceededError]) if a sheet exceeds the
	// alignment limits and the limit policy is [LimitReturnError].
	ErrLimitsExceeded = errors.New("sheetdiff: alignment limits exceeded")

	// ErrCanceled is returned if the context of a run is done. The returned error also wraps the
	// context's error.
	ErrCanceled = errors.New("sheetdiff: diff canceled")

	// ErrSinkState reports a violation of the begin, emit, finish lifecycle of a sink.
	ErrSinkState = errors.New("sheetdiff: invalid sink state")
)

// LimitsExceededError describes a sheet that is too large to align.
type LimitsExceededError struct {
	Sheet            string
	Rows, Cols       int
	MaxRows, MaxCols int
}

func (e *LimitsExceededError) Error() string {
	return fmt.Sprintf("sheetdiff: sheet %q exceeds alignment limits (rows=%d, cols=%d; limits: rows=%d, cols=%d)",
		e.Sheet, e.Rows, e.Cols, e.MaxRows, e.MaxCols)
}

func (e *LimitsExceededError) Unwrap() error { return ErrLimitsExceeded }

// SinkError is an error reported by a [Sink]. Op is "begin", "emit", or "finish".
type SinkError struct {
	Op  string
	Err error
}

func (e *SinkError) Error() string { return "sheetdiff: sink " + e.Op + ": " + e.Err.Error() }

func (e *SinkError) Unwrap() error { return e.Err }
