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
// Package server hosts HTTP handlers behind a common middleware chain.
//
// The server is stateless: application handlers are supplied as a map of
// mux patterns and everything else (health probes, metrics, error bodies,
// graceful shutdown) is provided here.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("intaked"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/assets/upload": h.Upload,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// Config.ShutdownTimeout.
//
// # Middleware
//
// Application handlers pass through, outermost first: Prometheus metrics,
// API version negotiation (Accept: application/vnd.nvidia.intake.v1+json),
// request id (X-Request-Id, regenerated unless a valid UUID), panic recovery,
// token bucket rate limiting (Config.RateLimit, Config.RateLimitBurst) and
// request logging.
//
// # System Endpoints
//
//	GET /health   liveness, always 200
//	GET /ready    200 once listening, 503 before and during shutdown
//	GET /metrics  Prometheus exposition
//	GET /         name, version and route list
//
// # Errors
//
// Handlers answer failures with WriteError or WriteErrorFromErr. Both emit
// ErrorResponse:
//
//	{
//	  "code": "SCHEMA_VALIDATION",
//	  "message": "header does not match the asset schema",
//	  "details": {"violations": [...]},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-01-01T00:00:00Z",
//	  "retryable": false
//	}
//
// HTTPStatusFromCode maps error codes to statuses: input problems with the
// document itself (EMPTY_INPUT, SCHEMA_VALIDATION, INVALID_INPUT) are 422,
// CONFLICT is 409, PAYLOAD_TOO_LARGE is 413 and UNSUPPORTED_MEDIA_TYPE is 415.
//
// # Configuration
//
//	PORT                      listen port (default 8080)
//	SHUTDOWN_TIMEOUT_SECONDS  graceful shutdown budget (default 30)
//
// # systemd
//
// When started by systemd with Type=notify the server sends READY=1 after the
// listener is bound, STOPPING=1 on shutdown, and pings the watchdog when
// WatchdogSec is configured. Outside systemd these calls are no-ops.
package server
