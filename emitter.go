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

import "fmt"

type emitterState int

const (
	notStarted emitterState = iota
	active
	finished
)

// emitter drives a sink through its lifecycle and enforces the category order of ops.
type emitter struct {
	sink    Sink
	in      *Interner
	state   emitterState
	cat     category
	count   int
	restore func()
}

func (e *emitter) begin() error {
	if e.state != notStarted {
		return fmt.Errorf("%w: begin called twice", ErrSinkState)
	}
	e.state = active
	e.restore = e.in.freeze()
	if err := e.sink.Begin(e.in); err != nil {
		return &SinkError{Op: "begin", Err: err}
	}
	return nil
}

func (e *emitter) emit(op Op) error {
	if e.state != active {
		return fmt.Errorf("%w: emit outside of begin and finish", ErrSinkState)
	}
	c := op.Kind().category()
	if c < e.cat {
		return fmt.Errorf("%w: %v emitted out of order", ErrSinkState, op.Kind())
	}
	e.cat = c
	if err := e.sink.Emit(op); err != nil {
		return &SinkError{Op: "emit", Err: err}
	}
	e.count++
	return nil
}

func (e *emitter) emitAll(ops []Op) error {
	for _, op := range ops {
		if err := e.emit(op); err != nil {
			return err
		}
	}
	return nil
}

// finish finishes the sink. It's safe to call finish more than once, only the first call reaches
// the sink.
func (e *emitter) finish() error {
	if e.state != active {
		return nil
	}
	e.state = finished
	defer e.restore()
	if err := e.sink.Finish(); err != nil {
		return &SinkError{Op: "finish", Err: err}
	}
	return nil
}
