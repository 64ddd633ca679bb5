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

import "gopkg.in/yaml.v3"

func yamlMarshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// validHeader returns every default scalar followed by one slot per group.
func validHeader(extra ...string) []string {
	h := append([]string(nil), DefaultScalars...)
	h = append(h, "HDD1", "NIC1", "EMBMAC1")
	return append(h, extra...)
}

func without(h []string, name string) []string {
	out := make([]string, 0, len(h))
	for _, c := range h {
		if c != name {
			out = append(out, c)
		}
	}
	return out
}
