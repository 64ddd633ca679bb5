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
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyInput is returned when the document has no rows at all.
	ErrEmptyInput = errors.New("empty file")
	// ErrMalformedInput is returned when the document cannot be split into rows.
	ErrMalformedInput = errors.New("malformed tabular input")
	// ErrInvalidFormat is returned for unsupported format values.
	ErrInvalidFormat = errors.New("unsupported input format")
)

// Format is the container of the uploaded table.
type Format string

const (
	// FormatAuto picks xlsx for ZIP payloads and csv otherwise.
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var zipMagic = []byte("PK\x03\x04")

// ParseFormat validates a format name. Empty means auto.
func ParseFormat(v string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(v))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: auto, csv, xlsx)", ErrInvalidFormat, v)
	}
}

// Options controls how a document is read.
type Options struct {
	// Encoding names the text encoding of csv input; empty means utf-8.
	Encoding string
	// Delimiter is the separator hint for csv input; empty means comma.
	Delimiter Delimiter
	// Format selects the container; empty means auto.
	Format Format
}

// Table is a parsed document: a normalized header and the raw data rows.
// Rows may be shorter or longer than the header.
type Table struct {
	Header    []string
	Rows      [][]string
	Format    Format
	Encoding  string
	Delimiter Delimiter
}

// Read parses data into a Table. The first row is the header; its cells are
// trimmed and stripped of a byte order mark.
func Read(data []byte, opts Options) (*Table, error) {
	format := opts.Format
	if format == "" || format == FormatAuto {
		format = FormatCSV
		if bytes.HasPrefix(data, zipMagic) {
			format = FormatXLSX
		}
	}

	var (
		t   *Table
		err error
	)
	switch format {
	case FormatCSV:
		t, err = readCSV(data, opts)
	case FormatXLSX:
		t, err = readXLSX(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	if err != nil {
		return nil, err
	}

	for i, c := range t.Header {
		t.Header[i] = NormalizeHeaderCell(c)
	}
	return t, nil
}

// NormalizeHeaderCell trims whitespace and a leading byte order mark.
func NormalizeHeaderCell(c string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(c), bom))
}

func readCSV(data []byte, opts Options) (*Table, error) {
	encoding, err := CanonicalEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	text, err := Decode(data, encoding)
	if err != nil {
		return nil, err
	}

	hint := opts.Delimiter
	if hint == "" {
		hint = DelimiterComma
	}
	delim := DetectDelimiter(FirstLine(text), hint)

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim.Rune()
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	return &Table{
		Header:    rows[0],
		Rows:      rows[1:],
		Format:    FormatCSV,
		Encoding:  encoding,
		Delimiter: delim,
	}, nil
}

func readXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", ErrMalformedInput, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %w", ErrMalformedInput, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	return &Table{
		Header: rows[0],
		Rows:   rows[1:],
		Format: FormatXLSX,
	}, nil
}
