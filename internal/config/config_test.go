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

package config_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"znkr.io/sheetdiff"
	"znkr.io/sheetdiff/internal/config"
)

func TestFromOptions(t *testing.T) {
	with := func(fn func(cfg *config.Config)) config.Config {
		cfg := config.Default
		fn(&cfg)
		return cfg
	}

	tests := []struct {
		name string
		opts []config.Option
		want config.Config
	}{
		{
			name: "default",
			opts: nil,
			want: config.Default,
		},
		{
			name: "moves",
			opts: []config.Option{
				sheetdiff.MaxMoveIterations(3),
				sheetdiff.MoveFuzzTolerance(0),
			},
			want: with(func(cfg *config.Config) {
				cfg.MaxMoveIterations = 3
				cfg.MoveFuzzTolerance = 0
			}),
		},
		{
			name: "negative-values-are-clamped",
			opts: []config.Option{
				sheetdiff.MaxMoveIterations(-1),
				sheetdiff.MaxHashRepeat(0),
				sheetdiff.Timeout(-time.Second),
			},
			want: with(func(cfg *config.Config) {
				cfg.MaxMoveIterations = 0
				cfg.MaxHashRepeat = 1
			}),
		},
		{
			name: "limits",
			opts: []config.Option{
				sheetdiff.AlignmentLimits(10, 5),
				sheetdiff.OnLimitExceeded(sheetdiff.LimitReturnError),
			},
			want: with(func(cfg *config.Config) {
				cfg.MaxAlignRows = 10
				cfg.MaxAlignCols = 5
				cfg.OnLimitExceeded = config.LimitReturnError
			}),
		},
		{
			name: "database-mode",
			opts: []config.Option{
				sheetdiff.DatabaseMode("Data", 0, 2),
				sheetdiff.DatabaseMode("Other", 1),
			},
			want: with(func(cfg *config.Config) {
				cfg.DatabaseSheets = map[string][]int{"data": {0, 2}, "other": {1}}
			}),
		},
		{
			name: "preset",
			opts: []config.Option{
				sheetdiff.Fastest(),
			},
			want: config.Fastest,
		},
		{
			name: "preset-keeps-timeout",
			opts: []config.Option{
				sheetdiff.Timeout(time.Minute),
				sheetdiff.MostPrecise(),
			},
			want: func() config.Config {
				cfg := config.MostPrecise
				cfg.Timeout = time.Minute
				return cfg
			}(),
		},
		{
			name: "preset-override",
			opts: []config.Option{
				sheetdiff.MaxMoveIterations(1),
				sheetdiff.Fastest(),
				sheetdiff.Balanced(),
			},
			want: config.Default,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := config.FromOptions(tt.opts, config.All)
			if got.Logger == nil {
				t.Errorf("FromOptions(...) returned a nil logger")
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(config.Config{}, "Logger", "Progress")); diff != "" {
				t.Errorf("FromOptions(...) result are different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestFromOptionsNotAllowed(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("FromOptions(...) did not panic")
		}
		want := "Option sheetdiff.DatabaseMode not allowed here"
		if r != want {
			t.Errorf("FromOptions(...) panicked with %q, want %q", r, want)
		}
	}()
	config.FromOptions([]config.Option{sheetdiff.DatabaseMode("Sheet1", 0)}, config.Grid)
}
