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
package schema

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/asset-intake/pkg/header"
)

// ErrUnsupportedKind is returned when a schema file declares another document kind.
var ErrUnsupportedKind = errors.New("unsupported document kind")

// Document is the serialized form of a Schema.
type Document struct {
	header.Header `json:",inline" yaml:",inline"`

	Scalars []string `json:"scalars" yaml:"scalars"`
	Groups  []Group  `json:"groups" yaml:"groups"`
}

// Document returns the serializable form of the schema stamped with version.
func (s *Schema) Document(version string) *Document {
	d := &Document{
		Scalars: s.Scalars(),
		Groups:  s.Groups(),
	}
	d.Init(header.KindSchema, header.APIVersion, version)
	return d
}

// Parse decodes a YAML (or JSON) schema document and validates it.
func Parse(data []byte) (*Schema, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := d.Expect(header.KindSchema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKind, err)
	}
	s, err := New(d.Scalars, d.Groups)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return s, nil
}

// Load reads a schema document from path. An empty path yields the default schema.
func Load(path string) (*Schema, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
