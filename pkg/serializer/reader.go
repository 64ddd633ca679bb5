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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FormatFromPath picks an output format from the file extension. Unknown
// extensions yield json.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".txt", ".table":
		return FormatTable
	default:
		return FormatJSON
	}
}

// IsURL reports whether src is an http or https URL.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// ReadSource returns the content of src: an http(s) URL fetched with an
// HttpReader built from opts, "-" for stdin, or a local file path. The
// reader's MaxBytes bounds every source.
func ReadSource(ctx context.Context, src string, opts ...HttpReaderOption) ([]byte, error) {
	r := NewHttpReader(opts...)
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return nil, fmt.Errorf("input is required")
	case IsURL(src):
		return r.ReadWithContext(ctx, src)
	case src == "-":
		data, err := readLimited(os.Stdin, r.MaxBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	default:
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src, err)
		}
		defer f.Close()

		data, err := readLimited(f, r.MaxBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src, err)
		}
		return data, nil
	}
}
