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

import "time"

// Listener and rate limit defaults for intaked. PORT overrides ServerPort.
const (
	ServerPort           = 8080
	ServerRateLimit      = 100
	ServerRateLimitBurst = 200
)

// http.Server timeouts. The read window has to cover a full MaxUploadBytes
// body on a slow link; the write window covers the slowest handler.
const (
	ServerReadTimeout       = 30 * time.Second
	ServerReadHeaderTimeout = 5 * time.Second
	ServerWriteTimeout      = 90 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	// ServerShutdownTimeout is overridden by SHUTDOWN_TIMEOUT_SECONDS so it can
	// track the pod's termination grace period.
	ServerShutdownTimeout = 30 * time.Second
)

// Per-request budgets applied by the intake handlers.
const (
	// UploadHandlerTimeout bounds one upload or validate request end to end.
	UploadHandlerTimeout = 60 * time.Second

	// NormalizeTimeout leaves UploadHandlerTimeout headroom to persist the
	// export and answer with an error.
	NormalizeTimeout = 45 * time.Second

	// ExportHandlerTimeout bounds GET and DELETE on the stored export.
	ExportHandlerTimeout = 15 * time.Second
)
