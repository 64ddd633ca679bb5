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
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"k8s.io/utils/ptr"

	cnserrors "github.com/NVIDIA/asset-intake/pkg/errors"
	"github.com/NVIDIA/asset-intake/pkg/schema"
	"github.com/NVIDIA/asset-intake/pkg/tabular"
)

// Input carries the per-document reading options.
type Input struct {
	// Encoding of csv input. Empty means utf-8.
	Encoding string
	// Delimiter hint for csv input. Empty means comma, which still lets the
	// first-line heuristic pick semicolon or tab.
	Delimiter tabular.Delimiter
	// Format of the container. Empty means auto.
	Format tabular.Format
}

// Stats summarizes one run.
type Stats struct {
	DataRows     int    `json:"dataRows" yaml:"dataRows"`
	BlankRows    int    `json:"blankRows" yaml:"blankRows"`
	EmptyRecords int    `json:"emptyRecords" yaml:"emptyRecords"`
	Records      int    `json:"records" yaml:"records"`
	Format       string `json:"format" yaml:"format"`
	Delimiter    string `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	Encoding     string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
}

// Dropped returns the number of data rows that produced no record.
func (s Stats) Dropped() int {
	return s.BlankRows + s.EmptyRecords
}

// Result is the output of a successful run.
type Result struct {
	Records Records
	Stats   Stats
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSchema sets the column schema. A nil schema is ignored.
func WithSchema(s *schema.Schema) Option {
	return func(n *Normalizer) {
		if s != nil {
			n.schema = s
		}
	}
}

// WithLayout sets the group layout. An empty layout is ignored.
func WithLayout(l Layout) Option {
	return func(n *Normalizer) {
		if l != "" {
			n.layout = l
		}
	}
}

// Normalizer validates and transforms asset documents.
type Normalizer struct {
	schema *schema.Schema
	layout Layout
}

// New returns a Normalizer using the default asset schema and DefaultLayout
// unless options say otherwise.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		schema: schema.Default(),
		layout: DefaultLayout,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Schema returns the schema in use.
func (n *Normalizer) Schema() *schema.Schema {
	return n.schema
}

// Layout returns the group layout in use.
func (n *Normalizer) Layout() Layout {
	return n.layout
}

// Normalize runs the whole pipeline over data. On error no records are
// returned. Errors are *errors.StructuredError with code EMPTY_INPUT,
// SCHEMA_VALIDATION, INVALID_INPUT or INVALID_REQUEST; for header problems the
// cause is a *schema.HeaderError and the context carries its violations.
func (n *Normalizer) Normalize(data []byte, in Input) (res *Result, err error) {
	start := time.Now()
	defer func() {
		normalizeDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			normalizeRejects.WithLabelValues(string(cnserrors.CodeOf(err))).Inc()
		}
	}()

	if _, perr := tabular.ParseDelimiter(string(in.Delimiter)); perr != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid delimiter", perr)
	}

	tbl, err := tabular.Read(data, tabular.Options{
		Encoding:  in.Encoding,
		Delimiter: in.Delimiter,
		Format:    in.Format,
	})
	if err != nil {
		return nil, readError(err)
	}

	report := n.schema.CheckHeader(tbl.Header)
	if herr := report.Err(); herr != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeSchemaValidation,
			"header does not match the asset schema", herr,
			map[string]any{"violations": report.Violations})
	}

	p := newPlan(n.schema, report.Columns)
	stats := Stats{
		DataRows: len(tbl.Rows),
		Format:   string(tbl.Format),
		Encoding: tbl.Encoding,
	}
	if tbl.Format == tabular.FormatCSV {
		stats.Delimiter = tbl.Delimiter.Name()
	}

	records := make(Records, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		if IsBlankRow(row) {
			stats.BlankRows++
			continue
		}
		rec := p.build(row, n.layout)
		if rec.IsEmpty() {
			stats.EmptyRecords++
			continue
		}
		records = append(records, rec)
	}
	stats.Records = len(records)

	recordsEmitted.Add(float64(stats.Records))
	rowsDropped.WithLabelValues("blank").Add(float64(stats.BlankRows))
	rowsDropped.WithLabelValues("empty").Add(float64(stats.EmptyRecords))

	slog.Debug("document normalized",
		"format", stats.Format,
		"delimiter", stats.Delimiter,
		"rows", stats.DataRows,
		"records", stats.Records,
		"dropped", stats.Dropped(),
	)

	return &Result{Records: records, Stats: stats}, nil
}

func readError(err error) error {
	switch {
	case errors.Is(err, tabular.ErrEmptyInput):
		return cnserrors.Wrap(cnserrors.ErrCodeEmptyInput, "empty file", err)
	case errors.Is(err, tabular.ErrMalformedInput):
		return cnserrors.Wrap(cnserrors.ErrCodeInvalidInput, "document could not be parsed", err)
	case errors.Is(err, tabular.ErrUnknownEncoding),
		errors.Is(err, tabular.ErrInvalidDelimiter),
		errors.Is(err, tabular.ErrInvalidFormat):
		return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid reading options", err)
	default:
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to read document", err)
	}
}

// IsAbsent reports whether a raw cell reads as no value.
func IsAbsent(cell string) bool {
	switch strings.ToUpper(strings.TrimSpace(cell)) {
	case "", "NA", "N/A", "NULL":
		return true
	}
	return false
}

// IsBlankRow reports whether every cell of a raw row is absent.
func IsBlankRow(row []string) bool {
	for _, c := range row {
		if !IsAbsent(c) {
			return false
		}
	}
	return true
}

// NormalizeCell trims a raw cell and maps empty markers to nil.
func NormalizeCell(cell string) *string {
	if IsAbsent(cell) {
		return nil
	}
	return ptr.To(strings.TrimSpace(cell))
}

// plan maps header positions to record fields for a validated header.
type plan struct {
	scalars []positioned
	groups  []groupPlan
}

type positioned struct {
	key   string
	index int
	pos   int
}

type groupPlan struct {
	key   string
	slots []positioned
}

func newPlan(s *schema.Schema, cols []schema.Column) *plan {
	names := s.Scalars()
	p := &plan{scalars: make([]positioned, len(names))}
	for i, name := range names {
		p.scalars[i] = positioned{key: name, pos: -1}
	}

	groups := s.Groups()
	p.groups = make([]groupPlan, len(groups))
	for i, g := range groups {
		p.groups[i] = groupPlan{key: g.Key()}
	}

	for pos, c := range cols {
		switch c.Kind {
		case schema.ColumnScalar:
			p.scalars[c.Scalar].pos = pos
		case schema.ColumnGroup:
			g := &p.groups[c.Slot.Group]
			g.slots = append(g.slots, positioned{key: c.Slot.Key, index: c.Slot.Index, pos: pos})
		case schema.ColumnUnknown:
		}
	}
	for i := range p.groups {
		slots := p.groups[i].slots
		sort.SliceStable(slots, func(a, b int) bool { return slots[a].index < slots[b].index })
	}
	return p
}

func (p *plan) build(row []string, layout Layout) Record {
	rec := Record{
		Scalars: make([]Field, len(p.scalars)),
		Groups:  make([]GroupField, len(p.groups)),
	}
	for i, sc := range p.scalars {
		rec.Scalars[i] = Field{Key: sc.key, Value: cellAt(row, sc.pos)}
	}
	for i, g := range p.groups {
		var slots []Field
		for _, sl := range g.slots {
			slots = append(slots, Field{Key: sl.key, Value: cellAt(row, sl.pos)})
		}
		rec.Groups[i] = GroupField{Key: g.key, Slots: layout.apply(slots)}
	}
	return rec
}

// cellAt tolerates short rows; missing trailing cells are absent.
func cellAt(row []string, pos int) *string {
	if pos < 0 || pos >= len(row) {
		return nil
	}
	return NormalizeCell(row[pos])
}
