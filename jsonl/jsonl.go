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

// Package jsonl reads and writes diff results in the JSON Lines format.
//
// The first line of a stream is a header with the string table of the run:
//
//	{"kind":"Header","version":"1","strings":["","Sheet1"]}
//
// Every following line is a single op as encoded by [sheetdiff.MarshalOp].
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"znkr.io/sheetdiff"
)

type header struct {
	Kind    string   `json:"kind"`
	Version string   `json:"version"`
	Strings []string `json:"strings"`
}

// Writer is a [sheetdiff.Sink] that writes ops as JSON Lines. Output is buffered until Finish.
type Writer struct {
	w *bufio.Writer
}

var _ sheetdiff.Sink = (*Writer)(nil)

// NewWriter returns a writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Begin writes the header line.
func (w *Writer) Begin(in *sheetdiff.Interner) error {
	strs := in.Strings()
	if strs == nil {
		strs = []string{}
	}
	b, err := json.Marshal(header{Kind: "Header", Version: sheetdiff.ReportVersion, Strings: strs})
	if err != nil {
		return err
	}
	return w.line(b)
}

// Emit writes one op per line.
func (w *Writer) Emit(op sheetdiff.Op) error {
	b, err := sheetdiff.MarshalOp(op)
	if err != nil {
		return err
	}
	return w.line(b)
}

// Finish flushes all buffered output.
func (w *Writer) Finish() error {
	return w.w.Flush()
}

func (w *Writer) line(b []byte) error {
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Stream is a decoded JSON Lines stream.
type Stream struct {
	Version string
	Strings []string
	Ops     []sheetdiff.Op
}

// Read decodes a stream written by [Writer]. Empty lines are ignored.
func Read(r io.Reader) (*Stream, error) {
	br := bufio.NewReader(r)
	var s *Stream
	for lineno := 1; ; lineno++ {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if data := bytes.TrimSpace(line); len(data) > 0 {
			if s == nil {
				var h header
				if err := json.Unmarshal(data, &h); err != nil {
					return nil, fmt.Errorf("line %d: %w", lineno, err)
				}
				if h.Kind != "Header" {
					return nil, fmt.Errorf("line %d: expected header, got %q", lineno, h.Kind)
				}
				if h.Version != sheetdiff.ReportVersion {
					return nil, fmt.Errorf("line %d: unsupported version %q", lineno, h.Version)
				}
				s = &Stream{Version: h.Version, Strings: h.Strings}
			} else {
				op, err := sheetdiff.UnmarshalOp(data)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineno, err)
				}
				s.Ops = append(s.Ops, op)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	if s == nil {
		return nil, errors.New("missing header")
	}
	return s, nil
}
