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
package defaults

// Upload size limits.
const (
	// MaxUploadBytes caps a single document at 20 MiB.
	MaxUploadBytes int64 = 20 << 20

	// MultipartMemoryBytes is held in memory before multipart parts spill to
	// temporary files.
	MultipartMemoryBytes int64 = 8 << 20
)

const (
	// ExportFileName names the export file and its download attachment.
	ExportFileName = "assets_transformed.json"

	// ExportPath is where the normalized array is written when no other
	// destination is configured.
	ExportPath = "/tmp/assets/json/" + ExportFileName
)
