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

// Package cli implements the intake command-line tool.
//
// # Commands
//
// normalize - convert a document into JSON records:
//
//	intake normalize --input assets.csv [--delimiter semicolon] [--encoding latin-1]
//	    [--layout trim|declared|present] [--schema FILE] [--output DEST] [--format json|yaml|table]
//
// validate - print a validation report, exit 1 when the document is not valid:
//
//	intake validate --input assets.xlsx [--schema FILE]
//
// schema - print the active column schema:
//
//	intake schema [--schema FILE] [--format yaml]
//
// # Inputs
//
// --input accepts a local path, an http(s) URL or - for stdin. CSV and XLSX
// are told apart by content unless --document-format is given. Inputs over
// --max-bytes (default 20 MiB) are rejected.
//
// # Outputs
//
// --output accepts:
//   - empty: stdout
//   - a file path: the format defaults from the extension
//   - cm://namespace/name: a ConfigMap, applied server-side
//   - oci://registry/repository[:tag]: an OCI artifact, tagged latest by default
//   - oci-layout://DIR: an OCI image layout directory, tagged latest
//
// # Global Flags
//
//	--log-level    debug, info, warn or error (env: LOG_LEVEL)
//	--help, -h     show command help
//	--version, -v  show version information
package cli
