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
package header

import (
	"fmt"
	"time"
)

// Kind names the type of an intake document.
type Kind string

const (
	KindAssetExport      Kind = "AssetExport"
	KindSchema           Kind = "Schema"
	KindValidationReport Kind = "ValidationReport"
)

// APIVersion is stamped on every document this module writes.
const APIVersion = "intake.nvidia.com/v1alpha1"

// Metadata keys set by Init.
const (
	MetadataTimestamp = "timestamp"
	MetadataVersion   = "version"
)

func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindAssetExport, KindSchema, KindValidationReport:
		return true
	default:
		return false
	}
}

// Header is the Kubernetes-style preamble shared by intake documents.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init resets h for kind and records the current UTC time and, when
// non-empty, the producing tool version.
func (h *Header) Init(kind Kind, apiVersion string, version string) {
	h.Kind = kind
	h.APIVersion = apiVersion
	h.Metadata = map[string]string{
		MetadataTimestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if version != "" {
		h.Metadata[MetadataVersion] = version
	}
}

// Version returns the recorded tool version, or "".
func (h *Header) Version() string {
	return h.Metadata[MetadataVersion]
}

// Timestamp returns the recorded creation time, or "".
func (h *Header) Timestamp() string {
	return h.Metadata[MetadataTimestamp]
}

// Expect checks a decoded header against the kind the caller reads. A
// document without a kind is accepted; hand-written schema files often omit it.
func (h *Header) Expect(kind Kind) error {
	if h.Kind == "" || h.Kind == kind {
		return nil
	}
	return fmt.Errorf("expected kind %s, got %s", kind, h.Kind)
}
