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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindIsValid(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindAssetExport, true},
		{KindSchema, true},
		{KindValidationReport, true},
		{Kind("Snapshot"), false},
		{Kind(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsValid())
		})
	}
}

func TestInit(t *testing.T) {
	var h Header
	h.Init(KindSchema, APIVersion, "v0.3.0")

	assert.Equal(t, KindSchema, h.Kind)
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, "v0.3.0", h.Version())
	_, err := time.Parse(time.RFC3339, h.Timestamp())
	assert.NoError(t, err)

	h.Init(KindSchema, APIVersion, "")
	assert.Empty(t, h.Version())
	assert.NotContains(t, h.Metadata, MetadataVersion)
}

func TestExpect(t *testing.T) {
	assert.NoError(t, (&Header{}).Expect(KindSchema))
	assert.NoError(t, (&Header{Kind: KindSchema}).Expect(KindSchema))
	assert.Error(t, (&Header{Kind: KindValidationReport}).Expect(KindSchema))
}
