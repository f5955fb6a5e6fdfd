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
	"log/slog"
	"time"

	"znkr.io/sheetdiff/internal/config"
)

// errTimeout stops a run early. It's reported as a warning, not as an error.
var errTimeout = errors.New("timeout")

// run is the state of a single diff run.
type run struct {
	ctx      context.Context
	cfg      *config.Config
	in       *Interner
	em       *emitter
	log      *slog.Logger
	start    time.Time
	progress progress
	metrics  Metrics
	warnings []string
}

func newRun(ctx context.Context, in *Interner, sink Sink, cfg *config.Config) *run {
	return &run{
		ctx:      ctx,
		cfg:      cfg,
		in:       in,
		em:       &emitter{sink: sink, in: in},
		log:      cfg.Logger,
		start:    time.Now(),
		progress: progress{fn: cfg.Progress},
	}
}

// execute runs body between begin and finish of the emitter. The sink is finished on every
// path.
func (r *run) execute(body func() error) (Summary, error) {
	err := r.em.begin()
	if err == nil {
		err = body()
	}
	if errors.Is(err, errTimeout) {
		r.log.Warn("diff timed out", "timeout", r.cfg.Timeout)
		r.warn(fmt.Sprintf("timeout after %s; diff aborted early; results may be incomplete", r.cfg.Timeout))
		err = nil
	}
	if ferr := r.em.finish(); err == nil {
		err = ferr
	}
	r.metrics.TotalTime = time.Since(r.start)
	sum := Summary{
		OpCount:  r.em.count,
		Complete: len(r.warnings) == 0,
		Warnings: r.warnings,
		Metrics:  r.metrics,
	}
	if err != nil {
		r.log.Debug("diff failed", "error", err)
		return sum, err
	}
	r.log.Debug("diff finished", "ops", sum.OpCount, "complete", sum.Complete, "total", r.metrics.TotalTime)
	return sum, nil
}

// checkpoint is called between phases, it reports cancellation and timeouts.
func (r *run) checkpoint() error {
	if err := r.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	if r.cfg.Timeout > 0 && time.Since(r.start) > r.cfg.Timeout {
		return errTimeout
	}
	return nil
}

func (r *run) warn(msg string) {
	r.warnings = append(r.warnings, msg)
}

// timed adds the duration of fn to d. A phase that ran always records a non-zero duration.
func timed(d *time.Duration, fn func()) {
	start := time.Now()
	fn()
	*d += max(time.Since(start), time.Nanosecond)
}
