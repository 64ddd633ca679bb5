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
// Package serializer renders values as JSON, YAML or a text table and moves
// documents in and out over HTTP.
//
// Writing:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer w.Close()
//	if err := w.Serialize(ctx, records); err != nil {
//	    return err
//	}
//
// Values implementing Tabular (such as normalizer.Records) print as a column
// table with one row per item; anything else is flattened into FIELD/VALUE
// pairs.
//
// For HTTP handlers, RespondJSON buffers the encoding before writing headers
// so that a failed encode never leaves a half-written response.
//
// ReadSource loads an input document from a local path, stdin ("-") or an
// http(s) URL through HttpReader, which applies the timeouts from
// pkg/defaults and caps the body size.
package serializer
