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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/NVIDIA/asset-intake/pkg/errors"
	"github.com/NVIDIA/asset-intake/pkg/header"
	"github.com/NVIDIA/asset-intake/pkg/normalizer"
	"github.com/NVIDIA/asset-intake/pkg/tabular"
)

var codeOf = cnserrors.CodeOf

func TestValidationReportValid(t *testing.T) {
	n := normalizer.New(normalizer.WithSchema(testSchema(t)))
	res, err := n.Normalize([]byte(sampleCSV), normalizer.Input{})
	require.NoError(t, err)

	r := NewValidationReport(res, nil, "1.0.0")
	assert.True(t, r.Valid)
	assert.Equal(t, header.KindValidationReport, r.Kind)
	assert.Equal(t, header.APIVersion, r.APIVersion)
	assert.Equal(t, "1.0.0", r.Metadata["version"])
	require.NotNil(t, r.Stats)
	assert.Equal(t, 2, r.Stats.Records)
	assert.Empty(t, r.Violations)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"ValidationReport"`)
	assert.NotContains(t, string(data), "violations")
}

func TestValidationReportHeaderViolations(t *testing.T) {
	n := normalizer.New(normalizer.WithSchema(testSchema(t)))
	_, err := n.Normalize([]byte("Serial,Bogus\nS1,x\n"), normalizer.Input{})
	require.Error(t, err)

	r := NewValidationReport(nil, err, "dev")
	assert.False(t, r.Valid)
	assert.Nil(t, r.Stats)
	assert.Equal(t, "SCHEMA_VALIDATION", r.Code)
	assert.Equal(t, "header does not match the asset schema", r.Message)
	require.Len(t, r.Violations, 3, "missing Model, uncovered HDD, unknown Bogus")
}

func TestValidationReportOtherErrors(t *testing.T) {
	n := normalizer.New(normalizer.WithSchema(testSchema(t)))
	_, err := n.Normalize(nil, normalizer.Input{})
	require.Error(t, err)

	r := NewValidationReport(nil, err, "dev")
	assert.Equal(t, "EMPTY_INPUT", r.Code)
	assert.Contains(t, r.Message, tabular.ErrEmptyInput.Error())
	assert.Empty(t, r.Violations)

	plain := NewValidationReport(nil, assert.AnError, "dev")
	assert.Equal(t, "INTERNAL", plain.Code)
	assert.Equal(t, assert.AnError.Error(), plain.Message)
}
