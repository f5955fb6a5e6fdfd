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

// Command sheetdiff compares two xlsx workbooks and prints the differences.
//
// Usage:
//
//	sheetdiff [flags] OLD.xlsx NEW.xlsx
//
// Every flag can also be set with a SHEETDIFF_* environment variable, e.g. SHEETDIFF_FORMAT=json,
// or in a TOML file passed with --config. Environment variables are read from a .env file in the
// working directory if it exists. Flags take precedence over the environment, the environment
// over the config file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"znkr.io/sheetdiff"
	"znkr.io/sheetdiff/internal/logging"
	"znkr.io/sheetdiff/jsonl"
	"znkr.io/sheetdiff/xlsx"
)

type flags struct {
	format            string
	output            string
	preset            string
	maxMoveIterations int
	timeout           string
	limitPolicy       string
	database          []string
	logLevel          string
	logFormat         string
	config            string
}

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "sheetdiff OLD NEW",
		Short: "Compare two xlsx workbooks",
		Long: `sheetdiff compares two xlsx workbooks structurally. It reports added and removed
sheets, rows and columns, moved blocks, edited cells and changed defined names.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyEnv(cmd.Flags(), os.LookupEnv); err != nil {
				return err
			}
			return applyConfigFile(cmd.Flags(), f.config)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), &f, args[0], args[1], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.format, "format", "f", "text", "Output format: text, json, jsonl")
	fs.StringVarP(&f.output, "output", "o", "", "Output file path (default: stdout)")
	fs.StringVar(&f.preset, "preset", "balanced", "Preset: fastest, balanced, most-precise")
	fs.IntVar(&f.maxMoveIterations, "max-move-iterations", -1, "Maximum number of moves per sheet, 0 disables move detection (default: preset)")
	fs.StringVar(&f.timeout, "timeout", "", "Maximum run time, e.g. 30s (default: no timeout)")
	fs.StringVar(&f.limitPolicy, "limit-policy", "partial", "Policy for sheets exceeding the alignment limits: partial, positional, error")
	fs.StringArrayVar(&f.database, "database", nil, "Diff a sheet as a keyed table, e.g. --database Orders=A,C (repeatable)")
	fs.StringVar(&f.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log format: text, json")
	fs.StringVar(&f.config, "config", "", "TOML file with default flag values")
	return cmd
}

// applyEnv sets every flag that wasn't set on the command line from its SHEETDIFF_* environment
// variable.
func applyEnv(fs *pflag.FlagSet, lookup func(string) (string, bool)) error {
	var errs []error
	fs.VisitAll(func(fl *pflag.Flag) {
		if fl.Changed {
			return
		}
		name := "SHEETDIFF_" + strings.ToUpper(strings.ReplaceAll(fl.Name, "-", "_"))
		v, ok := lookup(name)
		if !ok {
			return
		}
		if err := fs.Set(fl.Name, v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	})
	return errors.Join(errs...)
}

func run(ctx context.Context, f *flags, oldPath, newPath string, stdout, stderr io.Writer) error {
	log := logging.New(stderr, f.logLevel, f.logFormat).With("run_id", uuid.NewString())

	opts, err := options(f, log)
	if err != nil {
		return err
	}

	in := sheetdiff.NewInterner()
	old, err := xlsx.Open(oldPath, in)
	if err != nil {
		return err
	}
	new, err := xlsx.Open(newPath, in)
	if err != nil {
		return err
	}
	log.Info("workbooks loaded", "old", oldPath, "new", newPath, "old_sheets", len(old.Sheets), "new_sheets", len(new.Sheets))

	out := stdout
	var file *os.File
	if f.output != "" {
		file, err = os.Create(f.output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer file.Close()
		out = file
	}

	var sum sheetdiff.Summary
	switch f.format {
	case "jsonl":
		sum, err = sheetdiff.DiffStreaming(ctx, in, old, new, jsonl.NewWriter(out), opts...)
	case "text":
		sum, err = sheetdiff.DiffStreaming(ctx, in, old, new, newTextWriter(out), opts...)
	case "json":
		var report *sheetdiff.Report
		report, err = sheetdiff.Diff(ctx, in, old, new, opts...)
		if err == nil {
			sum = sheetdiff.Summary{OpCount: len(report.Ops), Complete: report.Complete, Warnings: report.Warnings, Metrics: report.Metrics}
			err = writeJSON(out, report)
		}
	default:
		return fmt.Errorf("invalid format: %s (must be text, json, or jsonl)", f.format)
	}
	if err != nil {
		return err
	}

	for _, w := range sum.Warnings {
		log.Warn(w)
	}
	log.Info("diff finished",
		"ops", sum.OpCount,
		"complete", sum.Complete,
		"sheets", sum.Metrics.SheetsCompared,
		"moves", sum.Metrics.MovesDetected,
		"total", sum.Metrics.TotalTime,
	)
	if file != nil {
		return file.Close()
	}
	return nil
}

func options(f *flags, log *slog.Logger) ([]sheetdiff.Option, error) {
	var opts []sheetdiff.Option
	switch f.preset {
	case "fastest":
		opts = append(opts, sheetdiff.Fastest())
	case "balanced":
		opts = append(opts, sheetdiff.Balanced())
	case "most-precise":
		opts = append(opts, sheetdiff.MostPrecise())
	default:
		return nil, fmt.Errorf("invalid preset: %s (must be fastest, balanced, or most-precise)", f.preset)
	}

	if f.maxMoveIterations >= 0 {
		opts = append(opts, sheetdiff.MaxMoveIterations(f.maxMoveIterations))
	}

	if f.timeout != "" {
		d, err := time.ParseDuration(f.timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout: %w", err)
		}
		opts = append(opts, sheetdiff.Timeout(d))
	}

	switch f.limitPolicy {
	case "partial":
		opts = append(opts, sheetdiff.OnLimitExceeded(sheetdiff.LimitReturnPartialResult))
	case "positional":
		opts = append(opts, sheetdiff.OnLimitExceeded(sheetdiff.LimitFallbackToPositional))
	case "error":
		opts = append(opts, sheetdiff.OnLimitExceeded(sheetdiff.LimitReturnError))
	default:
		return nil, fmt.Errorf("invalid limit policy: %s (must be partial, positional, or error)", f.limitPolicy)
	}

	for _, spec := range f.database {
		sheet, keys, err := parseDatabase(spec)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sheetdiff.DatabaseMode(sheet, keys...))
	}

	opts = append(opts, sheetdiff.WithLogger(log))
	if log.Enabled(context.Background(), slog.LevelDebug) {
		opts = append(opts, sheetdiff.WithProgress(func(phase string, pct float64) {
			log.Debug("progress", "phase", phase, "pct", pct)
		}))
	}
	return opts, nil
}

// parseDatabase parses a "Sheet=A,C" database mode selection.
func parseDatabase(spec string) (sheet string, keys []int, err error) {
	sheet, cols, ok := strings.Cut(spec, "=")
	if !ok || sheet == "" || cols == "" {
		return "", nil, fmt.Errorf("invalid database selection %q (must be SHEET=COLS, e.g. Orders=A,C)", spec)
	}
	for col := range strings.SplitSeq(cols, ",") {
		addr, err := sheetdiff.ParseAddress(strings.TrimSpace(col) + "1")
		if err != nil {
			return "", nil, fmt.Errorf("invalid key column %q in %q", col, spec)
		}
		keys = append(keys, addr.Col)
	}
	return sheet, keys, nil
}
