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
package server

import (
	"net/http"
	"slices"
	"strings"
)

// DefaultAPIVersion answers requests that do not ask for a vendor media type.
const DefaultAPIVersion = "v1"

const (
	headerAPIVersion  = "X-API-Version"
	vendorMediaPrefix = "application/vnd.nvidia.intake."
)

var supportedAPIVersions = []string{"v1"}

// negotiateAPIVersion returns the first supported version named by an Accept
// entry of the form application/vnd.nvidia.intake.<version>+json.
func negotiateAPIVersion(r *http.Request) string {
	for entry := range strings.SplitSeq(r.Header.Get("Accept"), ",") {
		media, _, _ := strings.Cut(entry, ";")
		rest, ok := strings.CutPrefix(strings.TrimSpace(media), vendorMediaPrefix)
		if !ok {
			continue
		}
		version, _, _ := strings.Cut(rest, "+")
		if isValidAPIVersion(version) {
			return version
		}
	}
	return DefaultAPIVersion
}

func isValidAPIVersion(version string) bool {
	return slices.Contains(supportedAPIVersions, version)
}

// SetAPIVersionHeader echoes the negotiated version.
func SetAPIVersionHeader(w http.ResponseWriter, version string) {
	w.Header().Set(headerAPIVersion, version)
}
