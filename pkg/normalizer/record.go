// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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
package normalizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
	"k8s.io/utils/ptr"
)

// Field is one key of a record or group map. A nil Value is an absent cell
// and encodes as null.
type Field struct {
	Key   string
	Value *string
}

// GroupField is the nested map built from the columns of one group.
type GroupField struct {
	Key   string
	Slots []Field
}

// Slot returns the value stored under key and whether the key exists.
func (g GroupField) Slot(key string) (*string, bool) {
	for _, f := range g.Slots {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Record is one normalized asset row. Key order is preserved on encoding:
// scalars first in schema order, then group maps in schema order.
type Record struct {
	Scalars []Field
	Groups  []GroupField
}

// Scalar returns the value of a scalar field and whether the field exists.
func (r Record) Scalar(name string) (*string, bool) {
	for _, f := range r.Scalars {
		if f.Key == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Group returns the nested map stored under key.
func (r Record) Group(key string) (GroupField, bool) {
	for _, g := range r.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return GroupField{}, false
}

// IsEmpty reports whether the record carries no value at all.
func (r Record) IsEmpty() bool {
	for _, f := range r.Scalars {
		if f.Value != nil {
			return false
		}
	}
	for _, g := range r.Groups {
		for _, f := range g.Slots {
			if f.Value != nil {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes the record as an object with deterministic key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Scalars {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeField(&buf, f); err != nil {
			return nil, err
		}
	}
	for i, g := range r.Groups {
		if i > 0 || len(r.Scalars) > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, g.Key); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, f := range g.Slots {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeField(&buf, f); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

func writeField(buf *bytes.Buffer, f Field) error {
	if err := writeKey(buf, f.Key); err != nil {
		return err
	}
	if f.Value == nil {
		buf.WriteString("null")
		return nil
	}
	b, err := json.Marshal(*f.Value)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// UnmarshalJSON decodes an object written by MarshalJSON. String and null
// members become scalars, object members become group maps.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	var out Record
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return err
		}
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case nil:
			out.Scalars = append(out.Scalars, Field{Key: key})
		case string:
			out.Scalars = append(out.Scalars, Field{Key: key, Value: ptr.To(v)})
		case json.Delim:
			if v != '{' {
				return fmt.Errorf("record field %q: expected object, got %v", key, v)
			}
			g, err := readGroup(dec, key)
			if err != nil {
				return err
			}
			out.Groups = append(out.Groups, g)
		default:
			return fmt.Errorf("record field %q: expected string, null or object, got %T", key, tok)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	*r = out
	return nil
}

func readGroup(dec *json.Decoder, key string) (GroupField, error) {
	g := GroupField{Key: key}
	for dec.More() {
		slot, err := readKey(dec)
		if err != nil {
			return g, err
		}
		tok, err := dec.Token()
		if err != nil {
			return g, err
		}
		switch v := tok.(type) {
		case nil:
			g.Slots = append(g.Slots, Field{Key: slot})
		case string:
			g.Slots = append(g.Slots, Field{Key: slot, Value: ptr.To(v)})
		default:
			return g, fmt.Errorf("group %q slot %q: expected string or null, got %v", key, slot, tok)
		}
	}
	return g, expectDelim(dec, '}')
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %v, got %v", want, tok)
	}
	return nil
}

// MarshalYAML keeps the same key order as the JSON encoding.
func (r Record) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r.Scalars {
		n.Content = append(n.Content, keyNode(f.Key), valueNode(f.Value))
	}
	for _, g := range r.Groups {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range g.Slots {
			m.Content = append(m.Content, keyNode(f.Key), valueNode(f.Value))
		}
		n.Content = append(n.Content, keyNode(g.Key), m)
	}
	return n, nil
}

func keyNode(k string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
}

func valueNode(v *string) *yaml.Node {
	if v == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: *v}
}

// Records is the ordered output of one normalization run.
type Records []Record

type tableGroup struct {
	key   string
	slots []string
}

// tableLayout collects the union of keys over all records. Slot keys share
// the group prefix, so ordering by length then text orders them by index.
func (rs Records) tableLayout() ([]string, []tableGroup) {
	if len(rs) == 0 {
		return nil, nil
	}
	var scalars []string
	for _, f := range rs[0].Scalars {
		scalars = append(scalars, f.Key)
	}

	var groups []tableGroup
	at := make(map[string]int)
	seen := make(map[string]bool)
	for _, r := range rs {
		for _, g := range r.Groups {
			gi, ok := at[g.Key]
			if !ok {
				gi = len(groups)
				at[g.Key] = gi
				groups = append(groups, tableGroup{key: g.Key})
			}
			for _, f := range g.Slots {
				id := g.Key + "." + f.Key
				if !seen[id] {
					seen[id] = true
					groups[gi].slots = append(groups[gi].slots, f.Key)
				}
			}
		}
	}
	for _, g := range groups {
		sort.Slice(g.slots, func(i, j int) bool {
			a, b := g.slots[i], g.slots[j]
			if len(a) != len(b) {
				return len(a) < len(b)
			}
			return a < b
		})
	}
	return scalars, groups
}

// Columns returns the flattened column names over all records, group slots
// rendered as group.slot. It backs tabular rendering.
func (rs Records) Columns() []string {
	scalars, groups := rs.tableLayout()
	cols := append([]string(nil), scalars...)
	for _, g := range groups {
		for _, slot := range g.slots {
			cols = append(cols, g.key+"."+slot)
		}
	}
	return cols
}

// Rows returns one string row per record aligned with Columns. Absent values
// and slots a record does not carry render as an empty string.
func (rs Records) Rows() [][]string {
	scalars, groups := rs.tableLayout()
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		row := make([]string, 0, len(scalars))
		for _, name := range scalars {
			v, _ := r.Scalar(name)
			row = append(row, ptr.Deref(v, ""))
		}
		for _, g := range groups {
			own, _ := r.Group(g.key)
			for _, slot := range g.slots {
				v, _ := own.Slot(slot)
				row = append(row, ptr.Deref(v, ""))
			}
		}
		rows = append(rows, row)
	}
	return rows
}
