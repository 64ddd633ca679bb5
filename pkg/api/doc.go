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

// Package api wires the intake handlers into pkg/server and runs the
// intaked service.
//
// Serve reads the intake settings from the environment, builds the handler
// set and blocks until SIGINT/SIGTERM:
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Endpoints
//
// Application endpoints (rate limited):
//   - POST   /v1/assets/upload   - normalize a CSV or XLSX upload
//   - POST   /v1/assets/validate - check a document without transforming it
//   - GET    /v1/assets/schema   - active column schema
//   - GET    /v1/assets/json     - last persisted export
//   - DELETE /v1/assets/json     - remove the persisted export
//
// System endpoints:
//   - GET /health  - liveness
//   - GET /ready   - readiness
//   - GET /metrics - Prometheus metrics
//
// # Configuration
//
//   - PORT: listen port (default: 8080)
//   - SHUTDOWN_TIMEOUT_SECONDS: graceful shutdown window (default: 30)
//   - RATE_LIMIT, RATE_LIMIT_BURST: token bucket shared by the API routes (default: 100, 200)
//   - LOG_LEVEL: debug, info, warn or error
//   - INTAKE_SCHEMA_FILE: YAML schema document
//   - INTAKE_EXPORT_URI: file path or cm://namespace/name (JSON_OUTPUT_PATH is honored as a fallback)
//   - INTAKE_MAX_UPLOAD_BYTES: upload size cap
//   - INTAKE_ADMISSION: single, unlimited or a concurrency limit
//   - INTAKE_LAYOUT: trim, declared or present
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/asset-intake/pkg/api.version=1.0.0'"
package api
