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
package api

import (
	"context"
	"log/slog"

	"github.com/NVIDIA/asset-intake/pkg/intake"
	"github.com/NVIDIA/asset-intake/pkg/logging"
	"github.com/NVIDIA/asset-intake/pkg/server"
)

const (
	name           = "intaked"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/asset-intake/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
// It configures logging, loads the intake configuration from the environment
// and handles graceful shutdown.
func Serve() error {
	return ServeContext(context.Background())
}

// ServeContext is Serve bound to ctx; cancelling ctx shuts the server down.
func ServeContext(ctx context.Context) error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	s, err := newServer()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return err
	}

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

func newServer() (*server.Server, error) {
	cfg, err := intake.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	h, err := intake.NewHandlerFromConfig(cfg, version)
	if err != nil {
		return nil, err
	}

	return server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(h.Routes()),
	), nil
}
