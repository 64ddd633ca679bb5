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
	"errors"
	"fmt"
	"strings"
)

// Delimiter is a field separator, or DelimiterAuto.
type Delimiter string

const (
	DelimiterComma     Delimiter = ","
	DelimiterSemicolon Delimiter = ";"
	DelimiterTab       Delimiter = "\t"
	// DelimiterAuto runs the same first-line heuristic as DelimiterComma.
	DelimiterAuto Delimiter = "auto"
)

// ErrInvalidDelimiter is returned for unsupported delimiter values.
var ErrInvalidDelimiter = errors.New("unsupported delimiter")

// ParseDelimiter accepts the separator itself or its name. Empty means comma.
func ParseDelimiter(v string) (Delimiter, error) {
	switch strings.ToLower(v) {
	case "", ",", "comma":
		return DelimiterComma, nil
	case ";", "semicolon":
		return DelimiterSemicolon, nil
	case "\t", "\\t", "tab":
		return DelimiterTab, nil
	case "auto":
		return DelimiterAuto, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: comma, semicolon, tab, auto)", ErrInvalidDelimiter, v)
	}
}

// Rune returns the separator rune. DelimiterAuto yields a comma.
func (d Delimiter) Rune() rune {
	switch d {
	case DelimiterSemicolon:
		return ';'
	case DelimiterTab:
		return '\t'
	default:
		return ','
	}
}

// Name returns a printable name for the delimiter.
func (d Delimiter) Name() string {
	switch d {
	case DelimiterComma:
		return "comma"
	case DelimiterSemicolon:
		return "semicolon"
	case DelimiterTab:
		return "tab"
	default:
		return string(d)
	}
}

// DetectDelimiter picks the separator from the first line of the document.
// Only a comma (or auto) hint is second-guessed: semicolon wins when it
// outnumbers commas, then tab when it outnumbers both. Explicit semicolon and
// tab hints are returned unchanged.
func DetectDelimiter(firstLine string, hint Delimiter) Delimiter {
	if hint != DelimiterComma && hint != DelimiterAuto {
		return hint
	}
	commas := strings.Count(firstLine, ",")
	semis := strings.Count(firstLine, ";")
	tabs := strings.Count(firstLine, "\t")

	switch {
	case semis > commas:
		return DelimiterSemicolon
	case tabs > max(commas, semis):
		return DelimiterTab
	default:
		return DelimiterComma
	}
}

// FirstLine returns text up to the first line break, without the break.
func FirstLine(text string) string {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return text[:i]
	}
	return text
}
