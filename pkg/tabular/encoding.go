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

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding is requested.
const DefaultEncoding = "utf-8"

const bom = "\ufeff"

// ErrUnknownEncoding is returned for encoding names that cannot be resolved.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// encodingAliases maps spellings seen in spreadsheet exports to WHATWG labels.
var encodingAliases = map[string]string{
	"utf8":      "utf-8",
	"utf-8-sig": "utf-8",
	"utf8-sig":  "utf-8",
	"latin-1":   "iso-8859-1",
	"latin1":    "iso-8859-1",
	"cp1252":    "windows-1252",
	"cp1251":    "windows-1251",
	"cp1250":    "windows-1250",
	"mac-roman": "macintosh",
}

// CanonicalEncoding resolves name to the canonical label of a supported encoding.
func CanonicalEncoding(name string) (string, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" {
		label = DefaultEncoding
	}
	if alias, ok := encodingAliases[label]; ok {
		label = alias
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		return label, nil
	}
	return canonical, nil
}

// Decode converts data from the named encoding to UTF-8. A leading UTF-8 or
// UTF-16 byte order mark takes precedence over the requested encoding and is
// removed. Byte sequences that are invalid for the encoding become U+FFFD.
func Decode(data []byte, encoding string) (string, error) {
	label, err := CanonicalEncoding(encoding)
	if err != nil {
		return "", err
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
	}

	return decodeWith(unicode.BOMOverride(enc.NewDecoder()), data), nil
}

// decodeWith runs data through dec. Decoders replace invalid input, so an
// error means a truncated tail: the decoded prefix is kept and the rest is
// marked with U+FFFD.
func decodeWith(dec transform.Transformer, data []byte) string {
	out, _, err := transform.Bytes(dec, data)
	text := strings.TrimPrefix(string(out), bom)
	if err != nil {
		return text + "\uFFFD"
	}
	return text
}
