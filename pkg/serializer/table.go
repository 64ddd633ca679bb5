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
package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
)

// defaultValueKey labels a scalar rendered as a table.
const defaultValueKey = "value"

const (
	emptyTable = "<empty>\n"
	columnGap  = 2
)

// marshalTable renders Tabular values as columns. Anything else goes through
// its JSON form and is listed as sorted FIELD/VALUE pairs keyed by JSON names,
// so records read the same in every format.
func marshalTable(v any) ([]byte, error) {
	if t, ok := v.(Tabular); ok {
		return renderTable(t.Columns(), nil, t.Rows())
	}

	fields, err := flattenJSON(v)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return renderTable(nil, nil, nil)
	}

	rows := make([][]string, 0, len(fields))
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		rows = append(rows, []string{key, fields[key]})
	}
	return renderTable([]string{"FIELD", "VALUE"}, []string{"-----", "-----"}, rows)
}

// renderTable pads every column but the last to its widest cell plus two
// spaces. Widths are display cells, so CJK and other wide runes stay aligned.
func renderTable(header, rule []string, rows [][]string) ([]byte, error) {
	if len(header) == 0 {
		return []byte(emptyTable), nil
	}

	lines := make([][]string, 0, len(rows)+2)
	lines = append(lines, header)
	if rule != nil {
		lines = append(lines, rule)
	}
	lines = append(lines, rows...)

	var widths []int
	for _, line := range lines {
		for i, cell := range line {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var buf bytes.Buffer
	for _, line := range lines {
		var row strings.Builder
		for i, cell := range line {
			if i == len(line)-1 {
				row.WriteString(cell)
				break
			}
			row.WriteString(runewidth.FillRight(cell, widths[i]+columnGap))
		}
		buf.WriteString(strings.TrimRight(row.String(), " "))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func flattenJSON(v any) (map[string]string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize to table: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to serialize to table: %w", err)
	}

	out := make(map[string]string)
	flatten(out, "", generic)
	return out, nil
}

func flatten(out map[string]string, prefix string, v any) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			flatten(out, joinKey(prefix, k), child)
		}
	case []any:
		for i, child := range val {
			flatten(out, fmt.Sprintf("%s[%d]", prefix, i), child)
		}
	case nil:
		if prefix != "" {
			out[prefix] = "<nil>"
		}
	default:
		if prefix == "" {
			prefix = defaultValueKey
		}
		out[prefix] = fmt.Sprint(val)
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
