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
package intake

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/NVIDIA/asset-intake/pkg/admission"
	"github.com/NVIDIA/asset-intake/pkg/defaults"
	"github.com/NVIDIA/asset-intake/pkg/normalizer"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvSchemaFile     = "INTAKE_SCHEMA_FILE"
	EnvExportURI      = "INTAKE_EXPORT_URI"
	EnvLegacyJSONPath = "JSON_OUTPUT_PATH"
	EnvMaxUploadBytes = "INTAKE_MAX_UPLOAD_BYTES"
	EnvAdmission      = "INTAKE_ADMISSION"
	EnvLayout         = "INTAKE_LAYOUT"
)

// Config holds the intake service settings.
type Config struct {
	// SchemaFile is a YAML schema document; empty selects the built-in schema.
	SchemaFile string
	// ExportURI is a file path or cm://namespace/name.
	ExportURI string
	// MaxUploadBytes caps the uploaded document size.
	MaxUploadBytes int64
	// Admission is the gate policy: single, unlimited or a capacity.
	Admission string
	// Layout is the default group layout; requests may override it.
	Layout normalizer.Layout
}

// NewConfig returns the defaults.
func NewConfig() *Config {
	return &Config{
		ExportURI:      defaults.ExportPath,
		MaxUploadBytes: defaults.MaxUploadBytes,
		Admission:      "single",
		Layout:         normalizer.DefaultLayout,
	}
}

// ConfigFromEnv overlays the environment on the defaults. Invalid values are
// errors rather than silently ignored.
func ConfigFromEnv() (*Config, error) {
	cfg := NewConfig()

	cfg.SchemaFile = strings.TrimSpace(os.Getenv(EnvSchemaFile))

	if v := strings.TrimSpace(os.Getenv(EnvExportURI)); v != "" {
		cfg.ExportURI = v
	} else if v := strings.TrimSpace(os.Getenv(EnvLegacyJSONPath)); v != "" {
		cfg.ExportURI = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvMaxUploadBytes)); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", EnvMaxUploadBytes, v)
		}
		cfg.MaxUploadBytes = n
	}

	if v := strings.TrimSpace(os.Getenv(EnvAdmission)); v != "" {
		cfg.Admission = v
	}

	if v := os.Getenv(EnvLayout); v != "" {
		l, err := normalizer.ParseLayout(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLayout, err)
		}
		cfg.Layout = l
	}

	if _, err := admission.Parse(cfg.Admission); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvAdmission, err)
	}

	return cfg, nil
}
