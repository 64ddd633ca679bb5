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
	"fmt"
	"strings"
)

// Layout controls which slots a group map carries.
type Layout string

const (
	// LayoutTrim keeps the slots declared in the header, ordered by index,
	// and drops absent slots at the high end.
	LayoutTrim Layout = "trim"
	// LayoutDeclared keeps every slot declared in the header.
	LayoutDeclared Layout = "declared"
	// LayoutPresent keeps only slots that hold a value.
	LayoutPresent Layout = "present"
)

// DefaultLayout is used when no layout is configured.
const DefaultLayout = LayoutTrim

var ErrInvalidLayout = errors.New("unsupported group layout")

// ParseLayout accepts trim, declared or present. Empty selects DefaultLayout.
func ParseLayout(v string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(v))); l {
	case "":
		return DefaultLayout, nil
	case LayoutTrim, LayoutDeclared, LayoutPresent:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: trim, declared, present)", ErrInvalidLayout, v)
	}
}

func (l Layout) apply(slots []Field) []Field {
	switch l {
	case LayoutDeclared:
		return slots
	case LayoutPresent:
		var out []Field
		for _, f := range slots {
			if f.Value != nil {
				out = append(out, f)
			}
		}
		return out
	default:
		end := len(slots)
		for end > 0 && slots[end-1].Value == nil {
			end--
		}
		if end == 0 {
			return nil
		}
		return slots[:end]
	}
}
