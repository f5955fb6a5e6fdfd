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
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// MarshalOp encodes an op as a JSON object. The first field is the "kind" discriminator, absent
// optional fields are omitted.
func MarshalOp(op Op) ([]byte, error) {
	body, err := json.Marshal(op)
	if err != nil {
		return nil, fmt.Errorf("encoding %v: %w", op.Kind(), err)
	}
	out := make([]byte, 0, len(body)+len(`{"kind":"",`)+32)
	out = append(out, `{"kind":"`...)
	out = append(out, op.Kind().String()...)
	out = append(out, '"')
	if len(body) > 2 {
		out = append(out, ',')
		out = append(out, body[1:]...)
	} else {
		out = append(out, '}')
	}
	return out, nil
}

var opKinds = func() map[string]OpKind {
	m := make(map[string]OpKind)
	for k := OpSheetAdded; k <= OpQueryMetadataChanged; k++ {
		m[k.String()] = k
	}
	return m
}()

// UnmarshalOp decodes an op encoded with [MarshalOp].
func UnmarshalOp(data []byte) (Op, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decoding op: %w", err)
	}
	kind, ok := opKinds[head.Kind]
	if !ok {
		return nil, fmt.Errorf("decoding op: unknown kind %q", head.Kind)
	}
	switch kind {
	case OpSheetAdded:
		return decodeOp[SheetAdded](data)
	case OpSheetRemoved:
		return decodeOp[SheetRemoved](data)
	case OpRowAdded:
		return decodeOp[RowAdded](data)
	case OpRowRemoved:
		return decodeOp[RowRemoved](data)
	case OpColumnAdded:
		return decodeOp[ColumnAdded](data)
	case OpColumnRemoved:
		return decodeOp[ColumnRemoved](data)
	case OpBlockMovedRows:
		return decodeOp[BlockMovedRows](data)
	case OpBlockMovedColumns:
		return decodeOp[BlockMovedColumns](data)
	case OpBlockMovedRect:
		return decodeOp[BlockMovedRect](data)
	case OpRectReplaced:
		return decodeOp[RectReplaced](data)
	case OpCellEdited:
		return decodeOp[CellEdited](data)
	case OpNamedRangeAdded:
		return decodeOp[NamedRangeAdded](data)
	case OpNamedRangeRemoved:
		return decodeOp[NamedRangeRemoved](data)
	case OpNamedRangeChanged:
		return decodeOp[NamedRangeChanged](data)
	case OpChartAdded:
		return decodeOp[ChartAdded](data)
	case OpChartRemoved:
		return decodeOp[ChartRemoved](data)
	case OpChartChanged:
		return decodeOp[ChartChanged](data)
	case OpVBAModuleAdded:
		return decodeOp[VBAModuleAdded](data)
	case OpVBAModuleRemoved:
		return decodeOp[VBAModuleRemoved](data)
	case OpVBAModuleChanged:
		return decodeOp[VBAModuleChanged](data)
	case OpQueryAdded:
		return decodeOp[QueryAdded](data)
	case OpQueryRemoved:
		return decodeOp[QueryRemoved](data)
	case OpQueryRenamed:
		return decodeOp[QueryRenamed](data)
	case OpQueryDefinitionChanged:
		return decodeOp[QueryDefinitionChanged](data)
	case OpQueryMetadataChanged:
		return decodeOp[QueryMetadataChanged](data)
	default:
		panic("never reached")
	}
}

func decodeOp[T Op](data []byte) (Op, error) {
	var op T
	if err := json.Unmarshal(data, &op); err != nil {
		return nil, fmt.Errorf("decoding %v: %w", op.Kind(), err)
	}
	return op, nil
}

type reportJSON struct {
	Version  string            `json:"version"`
	Strings  []string          `json:"strings"`
	Ops      []json.RawMessage `json:"ops"`
	Complete bool              `json:"complete"`
	Warnings []string          `json:"warnings,omitempty"`
}

// MarshalJSON implements [json.Marshaler].
func (r Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		Version:  r.Version,
		Strings:  r.Strings,
		Ops:      make([]json.RawMessage, 0, len(r.Ops)),
		Complete: r.Complete,
		Warnings: r.Warnings,
	}
	for _, op := range r.Ops {
		b, err := MarshalOp(op)
		if err != nil {
			return nil, err
		}
		out.Ops = append(out.Ops, b)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (r *Report) UnmarshalJSON(data []byte) error {
	var in reportJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Version != ReportVersion {
		return fmt.Errorf("unsupported report version %q", in.Version)
	}
	ops := make([]Op, 0, len(in.Ops))
	for _, raw := range in.Ops {
		op, err := UnmarshalOp(raw)
		if err != nil {
			return err
		}
		ops = append(ops, op)
	}
	*r = Report{
		Version:  in.Version,
		Strings:  in.Strings,
		Ops:      ops,
		Complete: in.Complete,
		Warnings: in.Warnings,
	}
	return nil
}

// MarshalJSON implements [json.Marshaler]. Values are encoded as {"Number":1.5}, {"Text":3},
// {"Bool":true}, {"Error":4} or "Blank". Numbers that JSON can't represent are encoded as
// {"Number":"NaN"}, {"Number":"+Inf"} or {"Number":"-Inf"}.
func (v CellValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return json.Marshal(struct{ Number string }{strconv.FormatFloat(v.num, 'g', -1, 64)})
		}
		return json.Marshal(struct{ Number float64 }{v.num})
	case KindText:
		return json.Marshal(struct{ Text StringID }{v.str})
	case KindBool:
		return json.Marshal(struct{ Bool bool }{v.b})
	case KindError:
		return json.Marshal(struct{ Error StringID }{v.str})
	default:
		return []byte(`"Blank"`), nil
	}
}

// UnmarshalJSON implements [json.Unmarshaler].
func (v *CellValue) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"Blank"`, "null":
		*v = CellValue{}
		return nil
	}
	var in struct {
		Number json.RawMessage
		Text   *StringID
		Bool   *bool
		Error  *StringID
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch {
	case in.Number != nil && string(in.Number) != "null":
		f, err := unmarshalNumber(in.Number)
		if err != nil {
			return err
		}
		*v = NumberValue(f)
	case in.Text != nil:
		*v = TextValue(*in.Text)
	case in.Bool != nil:
		*v = BoolValue(*in.Bool)
	case in.Error != nil:
		*v = ErrorValue(*in.Error)
	default:
		return fmt.Errorf("invalid cell value %s", data)
	}
	return nil
}

// unmarshalNumber decodes a JSON number or one of the strings "NaN", "+Inf" and "-Inf".
func unmarshalNumber(data []byte) (float64, error) {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, fmt.Errorf("invalid number %s", data)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !math.IsNaN(f) && !math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %s", data)
	}
	return f, nil
}

// IsZero reports if v is blank.
func (v CellValue) IsZero() bool { return v.kind == KindBlank }

var formulaDiffs = func() map[string]FormulaDiff {
	m := make(map[string]FormulaDiff)
	for d := FormulaUnchanged; d <= FormulaUnclassified; d++ {
		m[d.String()] = d
	}
	return m
}()

// MarshalText implements [encoding.TextMarshaler].
func (d FormulaDiff) MarshalText() ([]byte, error) {
	if d < FormulaUnchanged || d > FormulaUnclassified {
		return nil, fmt.Errorf("invalid formula diff %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *FormulaDiff) UnmarshalText(text []byte) error {
	v, ok := formulaDiffs[string(text)]
	if !ok {
		return fmt.Errorf("invalid formula diff %q", text)
	}
	*d = v
	return nil
}
