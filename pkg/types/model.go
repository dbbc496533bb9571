package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Value is one attribute exactly as it appeared in the source document.
// Numbers keep their literal text so labels show what the model wrote.
type Value struct {
	raw json.RawMessage
}

func Number(f float64) Value {
	return Value{raw: json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64))}
}

func Text(s string) Value {
	b, _ := json.Marshal(s)
	return Value{raw: b}
}

func (v Value) String() string {
	if len(v.raw) == 0 {
		return ""
	}
	switch v.raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v.raw, &s); err == nil {
			return s
		}
	case 'n':
		return ""
	}
	return string(v.raw)
}

// IsSet reports whether the value counts as present for labels:
// null, false, zero, "" and empty containers do not.
func (v Value) IsSet() bool {
	switch string(v.raw) {
	case "", "null", "false", `""`, "[]", "{}":
		return false
	}
	if f, err := strconv.ParseFloat(string(v.raw), 64); err == nil {
		return f != 0
	}
	return true
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	v.raw = buf.Bytes()
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

type Attributes map[string]Value

// Lookup returns the first alternate name whose value is set.
func (a Attributes) Lookup(names ...string) (Value, bool) {
	for _, n := range names {
		if v, ok := a[n]; ok && v.IsSet() {
			return v, true
		}
	}
	return Value{}, false
}

type Equipment struct {
	ID    string     `json:"id" validate:"required"`
	Type  string     `json:"type" validate:"required"`
	Spec  string     `json:"spec,omitempty"`
	Attrs Attributes `json:"-"`
}

type Stream struct {
	ID    string     `json:"id" validate:"required"`
	From  string     `json:"from" validate:"required"`
	To    string     `json:"to" validate:"required"`
	Flow  *Value     `json:"flow" validate:"required"`
	Attrs Attributes `json:"-"`
}

type ProcessModel struct {
	Equipment []Equipment `json:"equipment" validate:"dive"`
	Streams   []Stream    `json:"streams" validate:"dive"`
}

func (e *Equipment) UnmarshalJSON(b []byte) error {
	var fields map[string]Value
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	e.ID = strings.TrimSpace(fields["id"].String())
	e.Type = fields["type"].String()
	e.Spec = fields["spec"].String()
	e.Attrs = Attributes{}
	for k, v := range fields {
		switch k {
		case "id", "type", "spec":
			continue
		}
		e.Attrs[k] = v
	}
	return nil
}

func (e Equipment) MarshalJSON() ([]byte, error) {
	out := make(map[string]Value, len(e.Attrs)+3)
	for k, v := range e.Attrs {
		out[k] = v
	}
	out["id"] = Text(e.ID)
	out["type"] = Text(e.Type)
	if e.Spec != "" {
		out["spec"] = Text(e.Spec)
	}
	return json.Marshal(out)
}

func (s *Stream) UnmarshalJSON(b []byte) error {
	var fields map[string]Value
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	s.ID = strings.TrimSpace(fields["id"].String())
	s.From = strings.TrimSpace(fields["from"].String())
	s.To = strings.TrimSpace(fields["to"].String())
	s.Flow = nil
	if f, ok := fields["flow"]; ok && string(f.raw) != "null" {
		s.Flow = &f
	}
	s.Attrs = Attributes{}
	for k, v := range fields {
		switch k {
		case "id", "from", "to":
			continue
		}
		s.Attrs[k] = v
	}
	return nil
}

func (s Stream) MarshalJSON() ([]byte, error) {
	out := make(map[string]Value, len(s.Attrs)+4)
	for k, v := range s.Attrs {
		out[k] = v
	}
	out["id"] = Text(s.ID)
	out["from"] = Text(s.From)
	out["to"] = Text(s.To)
	if s.Flow != nil {
		out["flow"] = *s.Flow
	}
	return json.Marshal(out)
}

// NewStream builds a stream with its flow mirrored into the attribute set,
// the same shape decoding produces.
func NewStream(id, from, to string, flow float64, attrs Attributes) Stream {
	f := Number(flow)
	a := Attributes{"flow": f}
	for k, v := range attrs {
		a[k] = v
	}
	return Stream{ID: id, From: from, To: to, Flow: &f, Attrs: a}
}

func (a Attributes) clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Clone returns a copy whose records and attribute maps are not shared with m.
func (m ProcessModel) Clone() ProcessModel {
	var out ProcessModel
	if m.Equipment != nil {
		out.Equipment = make([]Equipment, len(m.Equipment))
		for i, e := range m.Equipment {
			e.Attrs = e.Attrs.clone()
			out.Equipment[i] = e
		}
	}
	if m.Streams != nil {
		out.Streams = make([]Stream, len(m.Streams))
		for i, s := range m.Streams {
			s.Attrs = s.Attrs.clone()
			if s.Flow != nil {
				f := *s.Flow
				s.Flow = &f
			}
			out.Streams[i] = s
		}
	}
	return out
}

// DanglingRefs lists stream endpoints that name no equipment record, in first-reference order.
func (m ProcessModel) DanglingRefs() []string {
	known := make(map[string]struct{}, len(m.Equipment))
	for _, e := range m.Equipment {
		known[e.ID] = struct{}{}
	}
	var out []string
	for _, s := range m.Streams {
		for _, id := range []string{s.From, s.To} {
			if _, ok := known[id]; ok {
				continue
			}
			known[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
