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
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var errBoom = errors.New("boom")

// recorder is a sink that records its calls.
type recorder struct {
	calls     []string
	beginErr  error
	emitErrAt int // 1-based, 0 never fails
	finishErr error

	frozen []bool // Interner.Frozen at every call
	in     *Interner
}

func (r *recorder) Begin(in *Interner) error {
	r.in = in
	r.calls = append(r.calls, "begin")
	r.frozen = append(r.frozen, in.Frozen())
	return r.beginErr
}

func (r *recorder) Emit(op Op) error {
	r.calls = append(r.calls, "emit "+op.Kind().String())
	r.frozen = append(r.frozen, r.in.Frozen())
	if r.emitErrAt > 0 && len(r.calls)-1 == r.emitErrAt {
		return errBoom
	}
	return nil
}

func (r *recorder) Finish() error {
	r.calls = append(r.calls, "finish")
	r.frozen = append(r.frozen, r.in.Frozen())
	return r.finishErr
}

func rowsMoved() (old, new *Grid) {
	old = numbers(20, 4, distinct)
	new = edit(reorder(old, moved(20, 4, 4, 12)), func(g *Grid) { g.SetValue(13, 1, NumberValue(5555)) })
	return old, new
}

func TestSinkLifecycle(t *testing.T) {
	old, new := rowsMoved()
	tests := []struct {
		name      string
		sink      *recorder
		opts      []Option
		wantCalls []string
		wantErr   string // SinkError.Op
		wantLimit bool
	}{
		{
			name:      "ok",
			sink:      &recorder{},
			wantCalls: []string{"begin", "emit BlockMovedRows", "emit CellEdited", "finish"},
		},
		{
			name:      "begin-fails",
			sink:      &recorder{beginErr: errBoom},
			wantCalls: []string{"begin", "finish"},
			wantErr:   "begin",
		},
		{
			name:      "emit-fails",
			sink:      &recorder{emitErrAt: 1},
			wantCalls: []string{"begin", "emit BlockMovedRows", "finish"},
			wantErr:   "emit",
		},
		{
			name:      "finish-fails",
			sink:      &recorder{finishErr: errBoom},
			wantCalls: []string{"begin", "emit BlockMovedRows", "emit CellEdited", "finish"},
			wantErr:   "finish",
		},
		{
			name:      "limits-error",
			sink:      &recorder{},
			opts:      []Option{AlignmentLimits(2, 2), OnLimitExceeded(LimitReturnError)},
			wantCalls: []string{"begin", "finish"},
			wantLimit: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInterner()
			sum, err := DiffGridsStreaming(context.Background(), in, "Sheet1", old, new, tt.sink, tt.opts...)
			if diff := cmp.Diff(tt.wantCalls, tt.sink.calls); diff != "" {
				t.Errorf("DiffGridsStreaming(...) calls differ [-want,+got]:\n%s", diff)
			}
			for i, f := range tt.sink.frozen {
				if !f {
					t.Errorf("interner not frozen during %s", tt.sink.calls[i])
				}
			}
			if in.Frozen() {
				t.Error("interner still frozen after the run")
			}

			if tt.wantLimit {
				var lerr *LimitsExceededError
				if !errors.As(err, &lerr) {
					t.Fatalf("DiffGridsStreaming(...) = %v, want a LimitsExceededError", err)
				}
				return
			}
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("DiffGridsStreaming(...) = %v", err)
				}
				if sum.OpCount != 2 {
					t.Errorf("OpCount = %d, want 2", sum.OpCount)
				}
				return
			}
			var serr *SinkError
			if !errors.As(err, &serr) || serr.Op != tt.wantErr {
				t.Fatalf("DiffGridsStreaming(...) = %v, want a %s SinkError", err, tt.wantErr)
			}
			if !errors.Is(err, errBoom) {
				t.Errorf("DiffGridsStreaming(...) = %v, does not wrap %v", err, errBoom)
			}
		})
	}
}

func TestFrozenInterner(t *testing.T) {
	old, new := rowsMoved()
	in := NewInterner()
	known := in.Intern("known")
	var panicked, resolved bool
	sink := SinkFunc(func(op Op) error {
		resolved = in.Intern("known") == known
		func() {
			defer func() { panicked = recover() != nil }()
			in.Intern("unknown")
		}()
		return nil
	})
	if _, err := DiffGridsStreaming(context.Background(), in, "Sheet1", old, new, sink); err != nil {
		t.Fatal(err)
	}
	if !resolved {
		t.Error("Intern() of a known string during the run returned a different id")
	}
	if !panicked {
		t.Error("Intern() of a new string during the run did not panic")
	}
	in.Intern("unknown") // no longer frozen
}

func TestCanceled(t *testing.T) {
	old, new := rowsMoved()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sink recorder
	_, err := DiffGridsStreaming(ctx, NewInterner(), "Sheet1", old, new, &sink)
	if !errors.Is(err, ErrCanceled) || !errors.Is(err, context.Canceled) {
		t.Errorf("DiffGridsStreaming(...) = %v, want %v wrapping %v", err, ErrCanceled, context.Canceled)
	}
	if diff := cmp.Diff([]string{"begin", "finish"}, sink.calls); diff != "" {
		t.Errorf("DiffGridsStreaming(...) calls differ [-want,+got]:\n%s", diff)
	}
}

func TestTimeout(t *testing.T) {
	old, new := rowsMoved()
	var sink recorder
	sum, err := DiffGridsStreaming(context.Background(), NewInterner(), "Sheet1", old, new, &sink, Timeout(time.Nanosecond))
	if err != nil {
		t.Fatalf("DiffGridsStreaming(...) = %v, a timeout isn't an error", err)
	}
	if sum.Complete {
		t.Error("Complete = true after a timeout")
	}
	want := []string{"timeout after 1ns; diff aborted early; results may be incomplete"}
	if diff := cmp.Diff(want, sum.Warnings); diff != "" {
		t.Errorf("Warnings differ [-want,+got]:\n%s", diff)
	}
	if got := sink.calls[len(sink.calls)-1]; got != "finish" {
		t.Errorf("last sink call = %q, want finish", got)
	}
}

func TestProgress(t *testing.T) {
	old, new := rowsMoved()
	var phases []string
	last := make(map[string]float64)
	progress := func(phase string, pct float64) {
		if pct < 0 || pct > 1 {
			t.Errorf("progress(%q, %v) out of range", phase, pct)
		}
		if n := len(phases); n == 0 || phases[n-1] != phase {
			phases = append(phases, phase)
		}
		last[phase] = pct
	}
	if _, err := DiffGrids(context.Background(), NewInterner(), "Sheet1", old, new, WithProgress(progress)); err != nil {
		t.Fatal(err)
	}
	want := []string{PhaseParse, PhaseAlignment, PhaseMoveDetection, PhaseCellDiff}
	if diff := cmp.Diff(want, phases); diff != "" {
		t.Errorf("phases differ [-want,+got]:\n%s", diff)
	}
	for phase, pct := range last {
		if pct != 1 {
			t.Errorf("phase %s ended at %v, want 1", phase, pct)
		}
	}
}

func TestOpCollector(t *testing.T) {
	in := NewInterner()
	in.Intern("x")
	var c OpCollector
	if err := c.Begin(in); err != nil {
		t.Fatal(err)
	}
	for i := range 3 {
		if err := c.Emit(RowAdded{Sheet: "S", Row: i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Finish(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"", "x"}, c.Strings); diff != "" {
		t.Errorf("Strings differ [-want,+got]:\n%s", diff)
	}
	if got := fmt.Sprint(c.Ops); got != "[{S 0 0} {S 1 0} {S 2 0}]" {
		t.Errorf("Ops = %s", got)
	}
}
