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
	"time"

	cnserrors "github.com/NVIDIA/asset-intake/pkg/errors"
	"github.com/NVIDIA/asset-intake/pkg/serializer"
)

const (
	statusHealthy  = "healthy"
	statusReady    = "ready"
	statusNotReady = "not_ready"
)

// HealthResponse is the body of the liveness and readiness probes.
type HealthResponse struct {
	Status    string    `json:"status" yaml:"status"`
	Version   string    `json:"version,omitempty" yaml:"version,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// handleHealth is the liveness probe; it answers as long as the process serves.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.probe(w, r, func() (int, HealthResponse) {
		return http.StatusOK, HealthResponse{Status: statusHealthy}
	})
}

// handleReady reports 503 until the listener is bound and again once
// shutdown begins.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.probe(w, r, func() (int, HealthResponse) {
		if !s.isReady() {
			return http.StatusServiceUnavailable, HealthResponse{
				Status: statusNotReady,
				Reason: "server is not accepting traffic",
			}
		}
		return http.StatusOK, HealthResponse{Status: statusReady}
	})
}

func (s *Server) probe(w http.ResponseWriter, r *http.Request, check func() (int, HealthResponse)) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		WriteError(w, r, http.StatusMethodNotAllowed, cnserrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	status, resp := check()
	resp.Version = s.config.Version
	resp.Timestamp = time.Now().UTC()
	serializer.RespondJSON(w, status, resp)
}
