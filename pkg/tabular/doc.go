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
// Package tabular turns uploaded bytes into a header and rows.
//
// CSV input is decoded with golang.org/x/text using the requested encoding
// (UTF-8 by default). A byte order mark overrides the request and invalid byte
// sequences are replaced with U+FFFD, so a sheet exported with the wrong code
// page still loads. The field separator is sniffed from the first line only:
//
//	tabular.DetectDelimiter("a;b;c,d", tabular.DelimiterComma) // semicolon
//
// XLSX workbooks (detected by their ZIP signature, or requested explicitly)
// are read with excelize; the first worksheet is used.
//
//	t, err := tabular.Read(data, tabular.Options{Encoding: "cp1252"})
//	if errors.Is(err, tabular.ErrEmptyInput) {
//	    // no rows at all
//	}
package tabular
