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
// Package header provides the common header carried by intake documents.
//
// Schema files, validation reports and exported asset arrays all begin with
// the same Kubernetes-style fields, so consumers can detect what they are
// reading before decoding the rest.
//
// # Header Structure
//
//	type Header struct {
//	    Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
//	    APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
//	    Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
//	}
//
// # Usage
//
// Stamp a validation report:
//
//	var h header.Header
//	h.Init(header.KindValidationReport, header.APIVersion, version)
//
// Check a decoded document:
//
//	if err := doc.Expect(header.KindSchema); err != nil {
//	    return err
//	}
//
// Init always records an RFC3339 "timestamp" and, when non-empty, the tool
// "version". The ConfigMap export store copies Kind and version into labels.
package header
