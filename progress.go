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

// Progress phases.
const (
	PhaseParse         = "parse"
	PhaseAlignment     = "alignment"
	PhaseCellDiff      = "cell_diff"
	PhaseMoveDetection = "move_detection"
	PhaseMDiff         = "m_diff"
)

// progress throttles progress callbacks: a phase is reported when it starts, when it advanced by
// at least 1%, and when it completes.
type progress struct {
	fn    func(phase string, pct float64)
	phase string
	last  float64
}

func (p *progress) report(phase string, pct float64) {
	if p.fn == nil {
		return
	}
	pct = min(1, max(0, pct))
	if phase == p.phase && pct-p.last < 0.01 && (pct < 1 || p.last == 1) {
		return
	}
	p.phase, p.last = phase, pct
	p.fn(phase, pct)
}
