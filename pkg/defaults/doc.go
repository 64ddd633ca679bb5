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

// Package defaults holds the timeouts, limits and locations shared by the
// intake server, its handlers and the CLI.
//
// Values that operators tune at runtime (PORT, SHUTDOWN_TIMEOUT_SECONDS,
// INTAKE_MAX_UPLOAD_BYTES, INTAKE_EXPORT_URI) start from the constants here.
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.UploadHandlerTimeout)
//	defer cancel()
package defaults
