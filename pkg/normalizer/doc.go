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
// Package normalizer turns uploaded asset spreadsheets into ordered records.
//
// A run decodes the bytes, detects the delimiter, validates the whole header
// against a schema.Schema and then transforms each data row. Any failure
// before the transform aborts the run; no partial record set is returned.
//
// Cells are trimmed, and the empty string or NA, N/A and NULL (any case) read
// as absent. Every scalar of the schema is present in each record, absent
// values encoding as null. Group columns such as HDD3 or nic_2 are nested
// under the lowercase group key ("hdd", "nic"); which slots a group map keeps
// is controlled by Layout.
//
// Rows whose cells are all absent are dropped, as are records that end up
// carrying no value.
//
// Usage:
//
//	n := normalizer.New(normalizer.WithLayout(normalizer.LayoutTrim))
//	res, err := n.Normalize(data, normalizer.Input{Delimiter: tabular.DelimiterAuto})
//	if err != nil {
//	    return err
//	}
//	out, _ := json.Marshal(res.Records)
//
// A Normalizer holds no mutable state and is safe for concurrent use.
package normalizer
