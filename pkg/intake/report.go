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
	stderrors "errors"

	cnserrors "github.com/NVIDIA/asset-intake/pkg/errors"
	"github.com/NVIDIA/asset-intake/pkg/header"
	"github.com/NVIDIA/asset-intake/pkg/normalizer"
	"github.com/NVIDIA/asset-intake/pkg/schema"
)

// ValidationReport is the outcome of validating one document.
type ValidationReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Valid      bool               `json:"valid" yaml:"valid"`
	Stats      *normalizer.Stats  `json:"stats,omitempty" yaml:"stats,omitempty"`
	Code       string             `json:"code,omitempty" yaml:"code,omitempty"`
	Message    string             `json:"message,omitempty" yaml:"message,omitempty"`
	Violations []schema.Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
}

// NewValidationReport builds a report from a Normalize outcome. A nil err
// yields a valid report carrying res.Stats.
func NewValidationReport(res *normalizer.Result, err error, version string) *ValidationReport {
	r := &ValidationReport{}
	r.Init(header.KindValidationReport, header.APIVersion, version)

	if err == nil {
		r.Valid = true
		if res != nil {
			stats := res.Stats
			r.Stats = &stats
		}
		return r
	}

	r.Code = string(cnserrors.CodeOf(err))
	r.Message = err.Error()

	var se *cnserrors.StructuredError
	if stderrors.As(err, &se) {
		r.Message = se.Message
	}

	var herr *schema.HeaderError
	if stderrors.As(err, &herr) {
		r.Violations = herr.Violations
	} else if se != nil && se.Cause != nil {
		r.Message = se.Message + ": " + se.Cause.Error()
	}

	return r
}
