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
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// ViolationKind tags a category of header violation.
type ViolationKind string

const (
	ViolationDuplicate  ViolationKind = "duplicate_columns"
	ViolationMissing    ViolationKind = "missing_columns"
	ViolationUncovered  ViolationKind = "uncovered_groups"
	ViolationOutOfRange ViolationKind = "index_out_of_range"
	ViolationUnknown    ViolationKind = "unknown_columns"
)

// Violation describes one problem found in a header.
type Violation struct {
	Kind    ViolationKind `json:"kind" yaml:"kind"`
	Message string        `json:"message" yaml:"message"`
	Columns []string      `json:"columns,omitempty" yaml:"columns,omitempty"`
	Group   string        `json:"group,omitempty" yaml:"group,omitempty"`
	Index   int           `json:"index,omitempty" yaml:"index,omitempty"`
	Max     int           `json:"max,omitempty" yaml:"max,omitempty"`
}

// HeaderError carries every violation found in a header.
type HeaderError struct {
	Violations []Violation
}

// Error implements the error interface.
func (e *HeaderError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "invalid header: " + strings.Join(msgs, "; ")
}

// Has reports whether a violation of the given kind is present.
func (e *HeaderError) Has(kind ViolationKind) bool {
	return e.Find(kind) != nil
}

// Find returns the first violation of the given kind, or nil.
func (e *HeaderError) Find(kind ViolationKind) *Violation {
	for i := range e.Violations {
		if e.Violations[i].Kind == kind {
			return &e.Violations[i]
		}
	}
	return nil
}

// Report is the outcome of checking a header against a Schema.
type Report struct {
	// Columns classifies every header position, in order.
	Columns []Column
	// Violations lists the problems found, grouped by category in a fixed order:
	// duplicates, missing, uncovered, out of range, unknown.
	Violations []Violation
}

// Valid reports whether the header satisfies the schema.
func (r *Report) Valid() bool {
	return len(r.Violations) == 0
}

// Err returns nil for a valid header and a *HeaderError otherwise.
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	return &HeaderError{Violations: r.Violations}
}

// CheckHeader validates the whole header in one pass and collects every
// violation category instead of stopping at the first one.
func (s *Schema) CheckHeader(header []string) *Report {
	r := &Report{Columns: make([]Column, 0, len(header))}

	seenScalar := make(map[string]bool, len(s.scalars))
	seenSlot := make(map[string]bool)
	covered := make([]bool, len(s.groups))
	dupSeen := make(map[string]bool)
	var dups, unknown []string
	var outOfRange []Violation

	addDup := func(name string) {
		if !dupSeen[name] {
			dupSeen[name] = true
			dups = append(dups, name)
		}
	}

	for _, name := range header {
		col := s.Classify(name)
		r.Columns = append(r.Columns, col)

		switch col.Kind {
		case ColumnScalar:
			if seenScalar[name] {
				addDup(name)
			}
			seenScalar[name] = true
		case ColumnGroup:
			g := s.groups[col.Slot.Group]
			if !s.InRange(col.Slot) {
				outOfRange = append(outOfRange, Violation{
					Kind:    ViolationOutOfRange,
					Message: fmt.Sprintf("column %s is out of range for %s (1..%d)", name, g.Name, g.Max),
					Columns: []string{name},
					Group:   g.Name,
					Index:   col.Slot.Index,
					Max:     g.Max,
				})
				continue
			}
			if seenSlot[col.Slot.Key] {
				addDup(name)
			}
			seenSlot[col.Slot.Key] = true
			covered[col.Slot.Group] = true
		default:
			unknown = append(unknown, name)
		}
	}

	if len(dups) > 0 {
		r.Violations = append(r.Violations, Violation{
			Kind:    ViolationDuplicate,
			Message: "duplicate header entries: " + quoteJoin(dups),
			Columns: dups,
		})
	}

	var missing []string
	for _, name := range s.scalars {
		if !seenScalar[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		r.Violations = append(r.Violations, Violation{
			Kind:    ViolationMissing,
			Message: "missing required columns: " + strings.Join(missing, ", "),
			Columns: missing,
		})
	}

	var examples, parts []string
	for i, g := range s.groups {
		if !covered[i] {
			examples = append(examples, g.Example())
			parts = append(parts, fmt.Sprintf("%s (e.g. %s)", g.Name, g.Example()))
		}
	}
	if len(examples) > 0 {
		r.Violations = append(r.Violations, Violation{
			Kind:    ViolationUncovered,
			Message: "at least one column is required for each group: " + strings.Join(parts, ", "),
			Columns: examples,
		})
	}

	r.Violations = append(r.Violations, outOfRange...)

	if len(unknown) > 0 {
		r.Violations = append(r.Violations, Violation{
			Kind:    ViolationUnknown,
			Message: "columns not allowed: " + quoteJoin(unknown),
			Columns: unknown,
		})
	}

	return r
}

func quoteJoin(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		if n == "" || strings.TrimSpace(n) != n {
			out[i] = fmt.Sprintf("%q", n)
			continue
		}
		out[i] = n
	}
	return strings.Join(out, ", ")
}
