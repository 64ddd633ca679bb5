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
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrNoScalars is returned when a schema declares no scalar columns.
	ErrNoScalars = errors.New("schema must declare at least one scalar column")
	// ErrEmptyColumn is returned for a blank scalar column name.
	ErrEmptyColumn = errors.New("column name cannot be empty")
	// ErrDuplicateColumn is returned when a scalar column is declared twice.
	ErrDuplicateColumn = errors.New("duplicate scalar column")
	// ErrInvalidGroupName is returned for group names that are not purely alphabetic.
	ErrInvalidGroupName = errors.New("group name must contain letters only")
	// ErrDuplicateGroup is returned when two groups share a name (case-insensitive).
	ErrDuplicateGroup = errors.New("duplicate group")
	// ErrInvalidGroupMax is returned when a group allows no index at all.
	ErrInvalidGroupMax = errors.New("group max index must be at least 1")
	// ErrAmbiguousColumn is returned when a scalar name also reads as a group slot.
	ErrAmbiguousColumn = errors.New("scalar column collides with a group pattern")
)

var groupNameRE = regexp.MustCompile(`^[A-Za-z]+$`)

// Group declares a family of indexed columns such as HDD1..HDD12.
type Group struct {
	Name string `json:"name" yaml:"name"`
	Max  int    `json:"max" yaml:"max"`
}

// Key returns the nested map key for the group, e.g. "hdd".
func (g Group) Key() string {
	return strings.ToLower(g.Name)
}

// Example returns the first slot name, used in error messages.
func (g Group) Example() string {
	return g.Name + "1"
}

// Slot identifies one indexed column of a group.
type Slot struct {
	// Group is the index of the group in Schema.Groups.
	Group int
	// Index is the parsed numeric suffix. Values that overflow int are clamped.
	Index int
	// Key is the nested map key, e.g. "hdd3".
	Key string
}

// ColumnKind classifies a header column.
type ColumnKind int

const (
	// ColumnUnknown is neither a scalar nor a group slot.
	ColumnUnknown ColumnKind = iota
	// ColumnScalar maps to a top-level record field.
	ColumnScalar
	// ColumnGroup maps to a slot of a nested group map.
	ColumnGroup
)

// Column is the classification of one header position.
type Column struct {
	Name   string
	Kind   ColumnKind
	Scalar int // index into Schema.Scalars for ColumnScalar
	Slot   Slot
}

// Schema is an immutable column schema. Build it with New, Default or Load;
// the zero value is not usable. A Schema is safe for concurrent use.
type Schema struct {
	scalars  []string
	groups   []Group
	scalarAt map[string]int
	groupAt  map[string]int
	pattern  *regexp.Regexp
}

// New validates the declaration and returns a ready Schema.
func New(scalars []string, groups []Group) (*Schema, error) {
	if len(scalars) == 0 {
		return nil, ErrNoScalars
	}

	s := &Schema{
		scalars:  append([]string(nil), scalars...),
		groups:   append([]Group(nil), groups...),
		scalarAt: make(map[string]int, len(scalars)),
		groupAt:  make(map[string]int, len(groups)),
	}

	for i, name := range s.scalars {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: scalar at position %d", ErrEmptyColumn, i+1)
		}
		if _, dup := s.scalarAt[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
		}
		s.scalarAt[name] = i
	}

	alternatives := make([]string, 0, len(s.groups))
	for i, g := range s.groups {
		if !groupNameRE.MatchString(g.Name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidGroupName, g.Name)
		}
		upper := strings.ToUpper(g.Name)
		if _, dup := s.groupAt[upper]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateGroup, g.Name)
		}
		if g.Max < 1 {
			return nil, fmt.Errorf("%w: %s has max %d", ErrInvalidGroupMax, g.Name, g.Max)
		}
		s.groupAt[upper] = i
		alternatives = append(alternatives, regexp.QuoteMeta(g.Name))
	}

	if len(alternatives) > 0 {
		s.pattern = regexp.MustCompile(`(?i)^(` + strings.Join(alternatives, "|") + `)_?(\d+)$`)
		for _, name := range s.scalars {
			if _, ok := s.MatchGroup(name); ok {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguousColumn, name)
			}
		}
	}

	return s, nil
}

// Scalars returns the scalar column names in emission order.
func (s *Schema) Scalars() []string {
	return append([]string(nil), s.scalars...)
}

// Groups returns the group declarations in emission order.
func (s *Schema) Groups() []Group {
	return append([]Group(nil), s.groups...)
}

// IsScalar reports whether name is a scalar column. Matching is exact.
func (s *Schema) IsScalar(name string) bool {
	_, ok := s.scalarAt[name]
	return ok
}

// MatchGroup reports whether col reads as {group}{index}. Whitespace anywhere in
// the name and a single underscore before the digits are ignored, and the group
// name is matched case-insensitively. The index is not range checked.
func (s *Schema) MatchGroup(col string) (Slot, bool) {
	if s.pattern == nil {
		return Slot{}, false
	}
	m := s.pattern.FindStringSubmatch(stripSpace(col))
	if m == nil {
		return Slot{}, false
	}
	gi := s.groupAt[strings.ToUpper(m[1])]
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		idx = math.MaxInt
	}
	return Slot{
		Group: gi,
		Index: idx,
		Key:   s.groups[gi].Key() + strconv.Itoa(idx),
	}, true
}

// Classify maps one header name to its column kind.
func (s *Schema) Classify(name string) Column {
	if i, ok := s.scalarAt[name]; ok {
		return Column{Name: name, Kind: ColumnScalar, Scalar: i}
	}
	if slot, ok := s.MatchGroup(name); ok {
		return Column{Name: name, Kind: ColumnGroup, Slot: slot}
	}
	return Column{Name: name, Kind: ColumnUnknown}
}

// InRange reports whether the slot index is within 1..Max of its group.
func (s *Schema) InRange(slot Slot) bool {
	return slot.Index >= 1 && slot.Index <= s.groups[slot.Group].Max
}

func stripSpace(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			return -1
		}
		return r
	}, v)
}
