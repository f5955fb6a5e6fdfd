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
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// diffWorkbooks compares sheets, workbook objects and queries, in this order.
func (r *run) diffWorkbooks(old, new *Workbook) error {
	newSheets := make(map[string]int, len(new.Sheets))
	for j, s := range new.Sheets {
		newSheets[strings.ToLower(s.Name)] = j
	}
	matched := make([]bool, len(new.Sheets))
	for _, s := range old.Sheets {
		if err := r.checkpoint(); err != nil {
			return err
		}
		j, ok := newSheets[strings.ToLower(s.Name)]
		if !ok {
			if err := r.em.emit(SheetRemoved{Sheet: s.Name}); err != nil {
				return err
			}
			continue
		}
		matched[j] = true
		if err := r.diffSheet(new.Sheets[j].Name, gridOf(s), gridOf(new.Sheets[j])); err != nil {
			return err
		}
	}
	for j, s := range new.Sheets {
		if !matched[j] {
			if err := r.em.emit(SheetAdded{Sheet: s.Name}); err != nil {
				return err
			}
		}
	}

	if err := r.em.emitAll(diffObjects(old, new)); err != nil {
		return err
	}

	if err := r.checkpoint(); err != nil {
		return err
	}
	var ops []Op
	r.progress.report(PhaseMDiff, 0)
	timed(&r.metrics.MDiffTime, func() { ops = diffQueries(old.Queries, new.Queries) })
	r.progress.report(PhaseMDiff, 1)
	return r.em.emitAll(ops)
}

func gridOf(s Sheet) *Grid {
	if s.Grid == nil {
		return NewGrid(0, 0)
	}
	return s.Grid
}

// diffKeyed matches old and new items by key and returns the ops for added, removed and changed
// items in key order. changed returns nil if two items are equal.
func diffKeyed[T any](old, new []T, key func(T) string, added, removed func(T) Op, changed func(x, y T) Op) []Op {
	oldBy := make(map[string]T, len(old))
	for _, x := range old {
		oldBy[key(x)] = x
	}
	newBy := make(map[string]T, len(new))
	for _, y := range new {
		newBy[key(y)] = y
	}
	keys := make([]string, 0, len(oldBy)+len(newBy))
	for k := range oldBy {
		keys = append(keys, k)
	}
	for k := range newBy {
		if _, ok := oldBy[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var ops []Op
	for _, k := range keys {
		x, inOld := oldBy[k]
		y, inNew := newBy[k]
		switch {
		case !inNew:
			ops = append(ops, removed(x))
		case !inOld:
			ops = append(ops, added(y))
		default:
			if op := changed(x, y); op != nil {
				ops = append(ops, op)
			}
		}
	}
	return ops
}

// diffObjects compares named ranges, charts and VBA modules.
func diffObjects(old, new *Workbook) []Op {
	var ops []Op
	ops = append(ops, diffKeyed(old.NamedRanges, new.NamedRanges,
		func(n NamedRange) string { return strings.ToLower(n.Name) },
		func(n NamedRange) Op { return NamedRangeAdded{Name: n.Name, Ref: n.RefersTo} },
		func(n NamedRange) Op { return NamedRangeRemoved{Name: n.Name, Ref: n.RefersTo} },
		func(x, y NamedRange) Op {
			if x.RefersTo == y.RefersTo {
				return nil
			}
			return NamedRangeChanged{Name: y.Name, OldRef: x.RefersTo, NewRef: y.RefersTo}
		},
	)...)
	ops = append(ops, diffKeyed(old.Charts, new.Charts,
		func(c Chart) string { return strings.ToLower(c.Sheet + "!" + c.Name) },
		func(c Chart) Op { return ChartAdded{Sheet: c.Sheet, Name: c.Name} },
		func(c Chart) Op { return ChartRemoved{Sheet: c.Sheet, Name: c.Name} },
		func(x, y Chart) Op {
			if x.Type == y.Type && x.DataRange == y.DataRange {
				return nil
			}
			return ChartChanged{Sheet: y.Sheet, Name: y.Name}
		},
	)...)
	ops = append(ops, diffKeyed(old.VBAModules, new.VBAModules,
		func(m VBAModule) string { return strings.ToLower(m.Name) },
		func(m VBAModule) Op { return VBAModuleAdded{Name: m.Name} },
		func(m VBAModule) Op { return VBAModuleRemoved{Name: m.Name} },
		func(x, y VBAModule) Op {
			if x.Kind == y.Kind && normalizeNewlines(x.Code) == normalizeNewlines(y.Code) {
				return nil
			}
			return VBAModuleChanged{Name: y.Name}
		},
	)...)
	return ops
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// normalizeQuery normalizes newlines and surrounding whitespace of a query definition.
func normalizeQuery(def string) string {
	return strings.TrimSpace(normalizeNewlines(def))
}

// collapseWhitespace replaces every run of whitespace by a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func queryHash(def string) Signature {
	return signature(xxhash.Sum64String(normalizeQuery(def)))
}

// diffQueries compares queries by name. A removed query reappearing with the same definition
// under a new name is a rename.
func diffQueries(old, new []Query) []Op {
	oldBy := make(map[string]Query, len(old))
	for _, q := range old {
		oldBy[strings.ToLower(q.Name)] = q
	}
	newBy := make(map[string]Query, len(new))
	for _, q := range new {
		newBy[strings.ToLower(q.Name)] = q
	}
	byName := func(a, b Query) int { return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }

	var removed, added, common []Query
	for k, q := range oldBy {
		if _, ok := newBy[k]; ok {
			common = append(common, q)
		} else {
			removed = append(removed, q)
		}
	}
	for k, q := range newBy {
		if _, ok := oldBy[k]; !ok {
			added = append(added, q)
		}
	}
	slices.SortFunc(removed, byName)
	slices.SortFunc(added, byName)
	slices.SortFunc(common, byName)

	var ops []Op
	claimed := make([]bool, len(added))
	var unrenamed []Query
	for _, x := range removed {
		j := -1
		for k, y := range added {
			if !claimed[k] && normalizeQuery(y.Definition) == normalizeQuery(x.Definition) {
				j = k
				break
			}
		}
		if j < 0 {
			unrenamed = append(unrenamed, x)
			continue
		}
		claimed[j] = true
		ops = append(ops, QueryRenamed{From: x.Name, To: added[j].Name})
		ops = append(ops, queryMetadata(added[j].Name, x, added[j])...)
	}
	for j, y := range added {
		if !claimed[j] {
			ops = append(ops, QueryAdded{Name: y.Name})
		}
	}
	for _, x := range unrenamed {
		ops = append(ops, QueryRemoved{Name: x.Name})
	}
	for _, x := range common {
		y := newBy[strings.ToLower(x.Name)]
		if nx, ny := normalizeQuery(x.Definition), normalizeQuery(y.Definition); nx != ny {
			kind := QueryChangeSemantic
			if collapseWhitespace(nx) == collapseWhitespace(ny) {
				kind = QueryChangeFormattingOnly
			}
			ops = append(ops, QueryDefinitionChanged{
				Name:       y.Name,
				ChangeKind: kind,
				OldHash:    queryHash(x.Definition),
				NewHash:    queryHash(y.Definition),
			})
		}
		ops = append(ops, queryMetadata(y.Name, x, y)...)
	}
	return ops
}

// queryMetadata returns one op per changed metadata field.
func queryMetadata(name string, x, y Query) []Op {
	var ops []Op
	if x.LoadToSheet != y.LoadToSheet {
		ops = append(ops, QueryMetadataChanged{Name: name, Field: "load_to_sheet", Old: strconv.FormatBool(x.LoadToSheet), New: strconv.FormatBool(y.LoadToSheet)})
	}
	if x.LoadToModel != y.LoadToModel {
		ops = append(ops, QueryMetadataChanged{Name: name, Field: "load_to_model", Old: strconv.FormatBool(x.LoadToModel), New: strconv.FormatBool(y.LoadToModel)})
	}
	if x.Group != y.Group {
		ops = append(ops, QueryMetadataChanged{Name: name, Field: "group", Old: x.Group, New: y.Group})
	}
	return ops
}
