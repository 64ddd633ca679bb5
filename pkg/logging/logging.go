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
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel is the environment variable consulted for the default level.
const EnvLogLevel = "LOG_LEVEL"

// ParseLevel converts a level name to slog.Level. Unknown or empty values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// levelFromEnv returns the level named by LOG_LEVEL, defaulting to info.
func levelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(EnvLogLevel))
}

// SetDefaultStructuredLogger installs a JSON logger on stderr as the slog default,
// with the level taken from LOG_LEVEL.
func SetDefaultStructuredLogger(module, version string) {
	slog.SetDefault(newStructuredLogger(os.Stderr, module, version, levelFromEnv()))
}

// SetDefaultStructuredLoggerWithLevel installs a JSON logger on stderr as the slog
// default with an explicit level. An empty level falls back to LOG_LEVEL.
func SetDefaultStructuredLoggerWithLevel(module, version, level string) {
	lvl := levelFromEnv()
	if strings.TrimSpace(level) != "" {
		lvl = ParseLevel(level)
	}
	slog.SetDefault(newStructuredLogger(os.Stderr, module, version, lvl))
}

// NewStructuredLogger returns a JSON logger on stderr carrying module and version.
func NewStructuredLogger(module, version, level string) *slog.Logger {
	return newStructuredLogger(os.Stderr, module, version, ParseLevel(level))
}

func newStructuredLogger(w io.Writer, module, version string, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})
	return slog.New(h).With("module", module, "version", version)
}

// NewLogLogger returns a standard library logger that writes through the
// default slog handler at the given level.
func NewLogLogger(level slog.Level, addSource bool) *log.Logger {
	if addSource {
		h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level, AddSource: true})
		return slog.NewLogLogger(h, level)
	}
	return slog.NewLogLogger(slog.Default().Handler(), level)
}
