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

package impl

import "math"

// minCostLimit is a lower bound for the TOO_EXPENSIVE heuristic. The heuristic only kicks in for
// large inputs with a lot of differences.
const minCostLimit = 4096

// myers is the linear space variant of Myers' algorithm (section 4.2 of the paper) on dense ids.
//
// We number diagonals with k = s - t. A d-path is a path with exactly d non-diagonal edges and by
// Lemma 1 it ends on one of the diagonals -d, -d+2, ..., d. The search runs forwards from
// (smin, tmin) and backwards from (smax, tmax) until the furthest reaching paths overlap; by
// Lemma 3 the overlap lies on an optimal path and splits the problem in two halves.
//
// Myers, E.W. An O(ND) difference algorithm and its variations. Algorithmica 1, 251-266 (1986).
type myers struct {
	x, y []int

	// Furthest reaching endpoints (s-coordinate) per diagonal for the forward and backward
	// search. Diagonal k is stored at v0+k.
	vf, vb []int
	v0     int

	costLimit int

	// Positions of x and y in the result vectors.
	xidx, yidx []int
	rx, ry     []bool
}

func (m *myers) init(x, y []int) (smin, smax, tmin, tmax int) {
	smin, smax, tmin, tmax = trimCommon(x, y)

	diagonals := (smax - smin) + (tmax - tmin)
	vlen := 2*diagonals + 3 // middle point plus one border element on each side
	buf := make([]int, 2*vlen)
	m.x, m.y = x, y
	m.vf, m.vb = buf[:vlen], buf[vlen:]
	m.v0 = diagonals + 1

	// Approximately sqrt(diagonals), bounded from below.
	costLimit := 1
	for i := diagonals; i != 0; i >>= 2 {
		costLimit <<= 1
	}
	m.costLimit = max(minCostLimit, costLimit)
	return
}

// compare marks all unmatched elements between (smin, tmin) and (smax, tmax).
//
// x[smin:smax] and y[tmin:tmax] must not have a common prefix or suffix.
func (m *myers) compare(smin, smax, tmin, tmax int, optimal bool) {
	switch {
	case smin == smax:
		for t := tmin; t < tmax; t++ {
			m.ry[m.yidx[t]] = true
		}
	case tmin == tmax:
		for s := smin; s < smax; s++ {
			m.rx[m.xidx[s]] = true
		}
	default:
		// The middle diagonal run (s0, t0) to (s1, t1) splits the input into two boxes without
		// common prefix or suffix.
		s0, s1, t0, t1, opt0, opt1 := m.split(smin, smax, tmin, tmax, optimal)
		m.compare(smin, s0, tmin, t0, opt0)
		m.compare(s1, smax, t1, tmax, opt1)
	}
}

// split finds a, possibly empty, run of diagonals in the middle of an optimal path from
// (smin, tmin) to (smax, tmax). opt0 and opt1 report if the halves still need to be optimal.
func (m *myers) split(smin, smax, tmin, tmax int, optimal bool) (s0, s1, t0, t1 int, opt0, opt1 bool) {
	x, y := m.x, m.y
	vf, vb, v0 := m.vf, m.vb, m.v0

	kmin, kmax := smin-tmax, smax-tmin
	fmid, bmid := smin-tmin, smax-tmax
	fmin, fmax := fmid, fmid
	bmin, bmax := bmid, bmid

	// Overlaps can only be found in the forward pass if the difference in length is odd and only
	// in the backward pass if it's even (Corollary 1).
	odd := ((smax-smin)-(tmax-tmin))%2 != 0

	// There is no common prefix or suffix, d=0 is trivial.
	vf[v0+fmid] = smin
	vb[v0+bmid] = smax

	for d := 1; ; d++ {
		// Forward pass. The bounds for k stay inside of the edit grid; the sentinel values at
		// the borders let the k-loop treat them like any other diagonal.
		if fmin > kmin {
			fmin--
			vf[v0+fmin-1] = math.MinInt
		} else {
			fmin++
		}
		if fmax < kmax {
			fmax++
			vf[v0+fmax+1] = math.MinInt
		} else {
			fmax--
		}
		for k := fmin; k <= fmax; k += 2 {
			k0 := v0 + k
			var s int
			if vf[k0-1] < vf[k0+1] {
				s = vf[k0+1] // insertion
			} else {
				s = vf[k0-1] + 1 // deletion, preferred on ties
			}
			t := s - k
			ss, st := s, t
			for s < smax && t < tmax && x[s] == y[t] {
				s++
				t++
			}
			vf[k0] = s
			if odd && bmin <= k && k <= bmax && s >= vb[k0] {
				return ss, s, st, t, true, true
			}
		}

		// Backward pass, mirrored.
		if bmin > kmin {
			bmin--
			vb[v0+bmin-1] = math.MaxInt
		} else {
			bmin++
		}
		if bmax < kmax {
			bmax++
			vb[v0+bmax+1] = math.MaxInt
		} else {
			bmax--
		}
		for k := bmin; k <= bmax; k += 2 {
			k0 := v0 + k
			var s int
			if vb[k0-1] < vb[k0+1] {
				s = vb[k0-1]
			} else {
				s = vb[k0+1] - 1
			}
			t := s - k
			ss, st := s, t
			for s > smin && t > tmin && x[s-1] == y[t-1] {
				s--
				t--
			}
			vb[k0] = s
			if !odd && fmin <= k && k <= fmax && s <= vf[k0] {
				return s, ss, t, st, true, true
			}
		}

		if optimal || d < m.costLimit {
			continue
		}

		// TOO_EXPENSIVE (Paul Eggert): give up on optimality and split at the endpoint of the
		// forward or backward path that got furthest.
		fbest, fbestk := math.MinInt, 0
		for k := fmin; k <= fmax; k += 2 {
			s := vf[v0+k]
			t := s - k
			if smin <= s && s < smax && tmin <= t && t < tmax && fbest < s+t {
				fbest, fbestk = s+t, k
			}
		}
		bbest, bbestk := math.MaxInt, 0
		for k := bmin; k <= bmax; k += 2 {
			s := vb[v0+k]
			t := s - k
			if smin <= s && s < smax && tmin <= t && t < tmax && s+t < bbest {
				bbest, bbestk = s+t, k
			}
		}

		if (smax+tmax)-bbest < fbest-(smin+tmin) {
			k := fbestk
			s := vf[v0+k]
			t := s - k
			pk := k - 1
			if vf[v0+k-1] < vf[v0+k+1] {
				pk = k + 1
			}
			ps := vf[v0+pk]
			diag := min(s-ps, t-(ps-pk))
			return s - diag, s, t - diag, t, true, false
		}
		k := bbestk
		s := vb[v0+k]
		t := s - k
		pk := k + 1
		if vb[v0+k-1] < vb[v0+k+1] {
			pk = k - 1
		}
		ps := vb[v0+pk]
		diag := min(ps-s, (ps-pk)-t)
		return s, s + diag, t, t + diag, false, true
	}
}
