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

// Sink receives the ops of a streaming comparison.
//
// A run calls Begin exactly once, then Emit for every op, then Finish exactly once. Finish is
// called even if the run fails, is canceled, or times out, and even if Begin or Emit returned an
// error. The interner passed to Begin is frozen until Finish returns: every string an op refers to
// already resolves when Begin is called.
type Sink interface {
	Begin(in *Interner) error
	Emit(op Op) error
	Finish() error
}

// OpCollector is a sink that buffers all ops in memory.
type OpCollector struct {
	// Strings is the string table passed to Begin.
	Strings []string
	Ops     []Op
}

func (c *OpCollector) Begin(in *Interner) error {
	c.Strings = in.Strings()
	return nil
}

func (c *OpCollector) Emit(op Op) error {
	c.Ops = append(c.Ops, op)
	return nil
}

func (c *OpCollector) Finish() error { return nil }

// SinkFunc is a sink that calls a function for every op.
type SinkFunc func(op Op) error

func (f SinkFunc) Begin(*Interner) error { return nil }
func (f SinkFunc) Emit(op Op) error      { return f(op) }
func (f SinkFunc) Finish() error         { return nil }
