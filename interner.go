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

import "slices"

// StringID identifies a string in an [Interner]. The zero value is the empty string.
type StringID uint32

// Interner is an append-only string table. Both grids of a comparison must use the same interner.
//
// While a run is streaming ops to a [Sink], the interner is frozen: strings that are already
// known still resolve, but interning a new string panics. An interner is not safe for concurrent
// mutation.
type Interner struct {
	strs   []string
	ids    map[string]StringID
	frozen bool
}

// NewInterner returns an interner that only contains the empty string.
func NewInterner() *Interner {
	return &Interner{
		strs: []string{""},
		ids:  map[string]StringID{"": 0},
	}
}

// Intern returns the id of s, adding it to the table if necessary.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.ids[s]; ok {
		return id
	}
	if in.frozen {
		panic("sheetdiff: Intern of a new string on a frozen interner")
	}
	id := StringID(len(in.strs))
	in.strs = append(in.strs, s)
	in.ids[s] = id
	return id
}

// Lookup returns the id of s if s is known.
func (in *Interner) Lookup(s string) (StringID, bool) {
	id, ok := in.ids[s]
	return id, ok
}

// Resolve returns the string for id. It panics if id is unknown.
func (in *Interner) Resolve(id StringID) string {
	return in.strs[id]
}

// Len returns the number of strings in the table, including the empty string.
func (in *Interner) Len() int { return len(in.strs) }

// Strings returns a copy of the string table, indexed by [StringID].
func (in *Interner) Strings() []string { return slices.Clone(in.strs) }

// Frozen reports if the interner is frozen.
func (in *Interner) Frozen() bool { return in.frozen }

// freeze freezes the interner and returns a function that restores the previous state.
func (in *Interner) freeze() (restore func()) {
	prev := in.frozen
	in.frozen = true
	return func() { in.frozen = prev }
}

// NewInternerFromStrings rebuilds an interner from a string table such as [Report.Strings]. The
// first entry of strs must be the empty string.
func NewInternerFromStrings(strs []string) *Interner {
	in := NewInterner()
	for i, s := range strs {
		if i == 0 {
			continue
		}
		in.strs = append(in.strs, s)
		if _, ok := in.ids[s]; !ok {
			in.ids[s] = StringID(i)
		}
	}
	return in
}
