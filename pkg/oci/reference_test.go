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
package oci

import (
	"testing"
)

func TestParseOutputTarget(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantIsOCI bool
		wantReg   string
		wantRepo  string
		wantTag   string
		wantPath  string
		wantErr   bool
	}{
		{name: "relative path", input: "./out/assets.json", wantPath: "./out/assets.json"},
		{name: "absolute path", input: "/srv/assets.json", wantPath: "/srv/assets.json"},
		{name: "configmap uri is not OCI", input: "cm://ns/name", wantPath: "cm://ns/name"},
		{name: "with tag", input: "oci://ghcr.io/nvidia/asset-export:2026-10-14", wantIsOCI: true,
			wantReg: "ghcr.io", wantRepo: "nvidia/asset-export", wantTag: "2026-10-14"},
		{name: "without tag", input: "oci://ghcr.io/nvidia/asset-export", wantIsOCI: true,
			wantReg: "ghcr.io", wantRepo: "nvidia/asset-export"},
		{name: "port and tag", input: "oci://localhost:5000/intake/assets:v1", wantIsOCI: true,
			wantReg: "localhost:5000", wantRepo: "intake/assets", wantTag: "v1"},
		{name: "surrounding spaces", input: "  oci://localhost:5000/intake/assets:v1 ", wantIsOCI: true,
			wantReg: "localhost:5000", wantRepo: "intake/assets", wantTag: "v1"},
		{name: "nested repository", input: "oci://ghcr.io/org/team/assets:latest", wantIsOCI: true,
			wantReg: "ghcr.io", wantRepo: "org/team/assets", wantTag: "latest"},
		{name: "empty reference", input: "oci://", wantErr: true},
		{name: "uppercase repository", input: "oci://ghcr.io/INVALID/Assets:v1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseOutputTarget(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputTarget() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if ref.IsOCI != tt.wantIsOCI {
				t.Errorf("IsOCI = %v, want %v", ref.IsOCI, tt.wantIsOCI)
			}
			if ref.Registry != tt.wantReg {
				t.Errorf("Registry = %q, want %q", ref.Registry, tt.wantReg)
			}
			if ref.Repository != tt.wantRepo {
				t.Errorf("Repository = %q, want %q", ref.Repository, tt.wantRepo)
			}
			if ref.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", ref.Tag, tt.wantTag)
			}
			if ref.LocalPath != tt.wantPath {
				t.Errorf("LocalPath = %q, want %q", ref.LocalPath, tt.wantPath)
			}
		})
	}
}

func TestValidateRegistryReference(t *testing.T) {
	tests := []struct {
		registry   string
		repository string
		wantErr    bool
	}{
		{"ghcr.io", "nvidia/assets", false},
		{"https://ghcr.io", "nvidia/assets", false},
		{"localhost:5000", "assets", false},
		{"", "nvidia/assets", true},
		{"ghcr.io", "", true},
		{"ghcr.io", "Bad Repo", true},
	}

	for _, tt := range tests {
		t.Run(tt.registry+"/"+tt.repository, func(t *testing.T) {
			err := ValidateRegistryReference(tt.registry, tt.repository)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRegistryReference() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReferenceFormatting(t *testing.T) {
	local := &Reference{LocalPath: "./assets.json"}
	tagged := &Reference{IsOCI: true, Registry: "ghcr.io", Repository: "nvidia/assets", Tag: "v1"}
	untagged := &Reference{IsOCI: true, Registry: "ghcr.io", Repository: "nvidia/assets"}

	tests := []struct {
		name      string
		ref       *Reference
		wantStr   string
		wantImage string
	}{
		{"local", local, "./assets.json", ""},
		{"tagged", tagged, "oci://ghcr.io/nvidia/assets:v1", "ghcr.io/nvidia/assets:v1"},
		{"untagged", untagged, "oci://ghcr.io/nvidia/assets", "ghcr.io/nvidia/assets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.String(); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
			if got := tt.ref.ImageReference(); got != tt.wantImage {
				t.Errorf("ImageReference() = %q, want %q", got, tt.wantImage)
			}
		})
	}
}

func TestReferenceWithTag(t *testing.T) {
	local := &Reference{LocalPath: "./assets.json"}
	if got := local.WithTag("v2"); got != local || got.Tag != "" {
		t.Errorf("WithTag() on local target = %+v, want unchanged", got)
	}

	orig := &Reference{IsOCI: true, Registry: "ghcr.io", Repository: "nvidia/assets", Tag: "v1"}
	got := orig.WithTag("v2")
	if got.Tag != "v2" {
		t.Errorf("WithTag() Tag = %q, want v2", got.Tag)
	}
	if orig.Tag != "v1" {
		t.Errorf("WithTag() modified the original: %q", orig.Tag)
	}
	if got.Registry != orig.Registry || got.Repository != orig.Repository {
		t.Errorf("WithTag() lost fields: %+v", got)
	}
}
