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
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/asset-intake/pkg/defaults"
)

// Environment variables read when a server is created.
const (
	EnvPort            = "PORT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT_SECONDS"
	EnvRateLimit       = "RATE_LIMIT"
	EnvRateLimitBurst  = "RATE_LIMIT_BURST"
)

// Config holds server configuration.
type Config struct {
	Name    string
	Version string

	// Handlers maps mux patterns to application handlers, each wrapped with
	// the middleware chain.
	Handlers map[string]http.HandlerFunc

	Address string
	Port    int

	// RateLimit is the sustained requests per second across all clients.
	RateLimit      rate.Limit
	RateLimitBurst int

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// NewConfig returns the defaults with the environment applied.
func NewConfig() *Config {
	return configFromEnv()
}

// configFromEnv never fails: a malformed or non-positive value is logged and
// the default kept, so a typo cannot stop the pod from starting.
func configFromEnv() *Config {
	cfg := &Config{
		Name:              "server",
		Version:           "undefined",
		Port:              defaults.ServerPort,
		RateLimit:         defaults.ServerRateLimit,
		RateLimitBurst:    defaults.ServerRateLimitBurst,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}

	if n, ok := positiveEnv(EnvPort); ok {
		cfg.Port = n
	}
	if n, ok := positiveEnv(EnvShutdownTimeout); ok {
		cfg.ShutdownTimeout = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnv(EnvRateLimit); ok {
		cfg.RateLimit = rate.Limit(n)
	}
	if n, ok := positiveEnv(EnvRateLimitBurst); ok {
		cfg.RateLimitBurst = n
	}
	if cfg.RateLimitBurst < int(cfg.RateLimit) {
		cfg.RateLimitBurst = int(cfg.RateLimit)
	}

	return cfg
}

func positiveEnv(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		slog.Warn("ignoring invalid environment value", "key", key, "value", v)
		return 0, false
	}
	return n, true
}
