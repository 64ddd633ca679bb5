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
// Package schema declares the closed column schema of a supplier asset sheet
// and validates spreadsheet headers against it.
//
// A Schema has two parts:
//
//   - Scalars: columns that must each appear exactly once (SerialNumber, Model, ...).
//     Names are matched exactly, case included.
//   - Groups: indexed column families such as HDD1..HDD12. A header column
//     belongs to a group when it reads {group}{index}, case-insensitive, with
//     whitespace ignored and an optional underscore before the index
//     ("HDD1", "hdd_1", "Hdd 1"). Every group needs at least one column.
//
// CheckHeader walks the header once and reports every violation category at
// the same time:
//
//	report := schema.Default().CheckHeader(header)
//	if err := report.Err(); err != nil {
//	    var herr *schema.HeaderError
//	    errors.As(err, &herr)
//	    for _, v := range herr.Violations {
//	        fmt.Println(v.Kind, v.Columns)
//	    }
//	}
//
// Out-of-range indices (HDD13 when HDD allows 12) get their own violation with
// the group and allowed range, distinct from unknown columns.
//
// Custom schemas are loaded from YAML:
//
//	kind: Schema
//	apiVersion: intake.nvidia.com/v1alpha1
//	scalars: [SerialNumber, Model]
//	groups:
//	  - name: HDD
//	    max: 4
package schema
