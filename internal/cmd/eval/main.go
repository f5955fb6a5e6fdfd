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

// eval validates the diff engine on random grid mutations. Every result is checked for whether
// its ops explain all cells of the new grid.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"znkr.io/sheetdiff"
)

type config struct {
	scenarios int
	seed      uint64
	maxRows   int
	maxCols   int
	parallel  int
	stats     string
	validate  bool
}

func main() {
	var cfg config
	flag.IntVar(&cfg.scenarios, "scenarios", 1000, "number of random scenarios to evaluate")
	flag.Uint64Var(&cfg.seed, "seed", 1, "seed for scenario generation")
	flag.IntVar(&cfg.maxRows, "max-rows", 200, "maximum number of rows of a generated grid")
	flag.IntVar(&cfg.maxCols, "max-cols", 12, "maximum number of columns of a generated grid")
	flag.IntVar(&cfg.parallel, "parallel", runtime.GOMAXPROCS(0), "number of evaluations to run in parallel")
	flag.StringVar(&cfg.stats, "stats", "", "file to store stats in")
	flag.BoolVar(&cfg.validate, "validate", true, "if validation should be performed")
	flag.Parse()

	if len(flag.CommandLine.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected command line arguments: %v\n", flag.CommandLine.Args())
		os.Exit(1)
	}

	if err := run(context.Background(), &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var bars = []string{
	" ",
	"▏",
	"▎",
	"▍",
	"▌",
	"▋",
	"▊",
	"▉",
	"█",
}

type note struct {
	prefix string
	msg    string
}

type result struct {
	scenario   int
	variant    string
	N, M       int // number of cells
	mutations  int
	ops, moves int
	duration   time.Duration
}

type variant struct {
	name string
	opts []sheetdiff.Option
}

var variants = []variant{
	{"balanced", nil},
	{"fastest", []sheetdiff.Option{sheetdiff.Fastest()}},
	{"most-precise", []sheetdiff.Option{sheetdiff.MostPrecise()}},
	{"exact-moves", []sheetdiff.Option{sheetdiff.MoveFuzzTolerance(0)}},
	{"rect-replace", []sheetdiff.Option{sheetdiff.RectReplaceMinCells(4)}},
}

// evaluate diffs a scenario with all variants. If validate is set, failures are reported as
// notes.
func evaluate(ctx context.Context, sc scenario, validate bool, report func(note), record func(result)) {
	for _, v := range variants {
		start := time.Now()
		r, err := sheetdiff.DiffGrids(ctx, sc.in, "Sheet1", sc.old, sc.new, v.opts...)
		duration := time.Since(start)
		prefix := fmt.Sprintf("scenario %d (%s)", sc.id, v.name)
		if err != nil {
			report(note{prefix, fmt.Sprintf("diff failed: %v", err)})
			continue
		}
		if record != nil {
			moves := 0
			for _, op := range r.Ops {
				switch op.(type) {
				case sheetdiff.BlockMovedRows, sheetdiff.BlockMovedColumns, sheetdiff.BlockMovedRect:
					moves++
				}
			}
			record(result{
				scenario:  sc.id,
				variant:   v.name,
				N:         sc.old.NRows() * sc.old.NCols(),
				M:         sc.new.NRows() * sc.new.NCols(),
				mutations: len(sc.mutations),
				ops:       len(r.Ops),
				moves:     moves,
				duration:  duration,
			})
		}
		if validate {
			if err := check(sc.old, sc.new, r.Ops); err != nil {
				report(note{prefix, fmt.Sprintf("ops don't explain the new grid after %s:\n%v", strings.Join(sc.mutations, ", "), err)})
			}
		}
	}
}

func run(ctx context.Context, cfg *config) error {
	start := time.Now()
	notes := make(chan note)
	done := make(chan struct{})
	var processed atomic.Int64
	var failures atomic.Int64

	var stats *os.File
	if cfg.stats != "" {
		var err error
		stats, err = os.Create(cfg.stats)
		if err != nil {
			return fmt.Errorf("creating stats file: %v", err)
		}
		defer stats.Close()
	}

	// Generate scenarios. Every scenario has its own random source to make it reproducible
	// independently of the order of evaluation.
	scenarios := make(chan scenario)
	go func() {
		defer close(scenarios)
		for i := range cfg.scenarios {
			rng := rand.New(rand.NewPCG(cfg.seed, uint64(i)))
			scenarios <- generate(rng, i, cfg.maxRows, cfg.maxCols)
		}
	}()

	// Process diffs.
	var processWG sync.WaitGroup
	var results chan result
	var record func(result)
	if cfg.stats != "" {
		results = make(chan result)
		record = func(r result) { results <- r }
	}
	report := func(n note) {
		failures.Add(1)
		notes <- n
	}
	for range cfg.parallel {
		processWG.Add(1)
		go func() {
			defer processWG.Done()
			for sc := range scenarios {
				evaluate(ctx, sc, cfg.validate, report, record)
				processed.Add(1)
			}
		}()
	}

	// Render progress
	var ioWG sync.WaitGroup
	render := func() {
		const width = 60
		processed := processed.Load()
		progress := float64(processed) / float64(max(1, cfg.scenarios))
		whole := int(progress * width)
		remainder := math.Mod(progress*width, 1)
		last := bars[max(0, min(len(bars)-1, int(remainder*float64(len(bars)))))]
		if width-whole < 1 {
			last = ""
		}
		bar := strings.Repeat(bars[len(bars)-1], whole) + last
		var procPerSec int
		if processed > 0 {
			procPerSec = int((time.Duration(processed) * time.Second) / time.Since(start))
		}
		fmt.Printf("\r[%-*s] % 3.1f%% (%d scenarios/s, %d failures) ", width, bar, 100*progress, procPerSec, failures.Load())
	}
	ioWG.Add(1)
	go func() {
		defer ioWG.Done()
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case note := <-notes:
				fmt.Printf("\r%s: %s\n", note.prefix, note.msg)
				render()

			case <-ticker.C:
				render()

			case <-done:
				render()
				fmt.Printf("\n")
				return
			}
		}
	}()
	var statsErr error
	var statsWG sync.WaitGroup
	if results != nil {
		statsWG.Add(1)
		go func() {
			defer statsWG.Done()
			w := bufio.NewWriter(stats)
			w.WriteString("scenario,variant,N,M,mutations,ops,moves,duration_ns\n")
			for r := range results {
				if statsErr != nil {
					continue
				}
				_, statsErr = fmt.Fprintf(w, "%d,%s,%d,%d,%d,%d,%d,%d\n", r.scenario, r.variant, r.N, r.M, r.mutations, r.ops, r.moves, r.duration.Nanoseconds())
			}
			if err := w.Flush(); statsErr == nil {
				statsErr = err
			}
		}()
	}

	// Shutdown
	processWG.Wait()
	if results != nil {
		close(results)
	}
	statsWG.Wait()
	close(done)
	ioWG.Wait()

	if statsErr != nil {
		return fmt.Errorf("writing stats: %v", statsErr)
	}
	if n := failures.Load(); n > 0 {
		return fmt.Errorf("%d evaluations failed", n)
	}
	return nil
}
