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
package intake

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/NVIDIA/asset-intake/pkg/admission"
	"github.com/NVIDIA/asset-intake/pkg/defaults"
	"github.com/NVIDIA/asset-intake/pkg/export"
	"github.com/NVIDIA/asset-intake/pkg/normalizer"
	"github.com/NVIDIA/asset-intake/pkg/schema"
)

// Route paths served by Handler.
const (
	RouteUpload   = "/v1/assets/upload"
	RouteValidate = "/v1/assets/validate"
	RouteSchema   = "/v1/assets/schema"
	RouteJSON     = "/v1/assets/json"
)

// Handler serves the asset intake endpoints.
type Handler struct {
	normalizer *normalizer.Normalizer
	store      export.Store
	gate       admission.Gate
	maxBytes   int64
	version    string
}

// Option configures a Handler.
type Option func(*Handler)

// WithNormalizer sets the normalizer; its schema and layout are the defaults
// for every request.
func WithNormalizer(n *normalizer.Normalizer) Option {
	return func(h *Handler) {
		if n != nil {
			h.normalizer = n
		}
	}
}

// WithStore sets where persisted exports go.
func WithStore(s export.Store) Option {
	return func(h *Handler) {
		h.store = s
	}
}

// WithGate sets the admission gate for upload and validate.
func WithGate(g admission.Gate) Option {
	return func(h *Handler) {
		if g != nil {
			h.gate = g
		}
	}
}

// WithMaxUploadBytes sets the document size ceiling.
func WithMaxUploadBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBytes = n
		}
	}
}

// WithVersion sets the version stamped on emitted documents.
func WithVersion(v string) Option {
	return func(h *Handler) {
		h.version = v
	}
}

// NewHandler returns a handler with the default schema, a single-flight gate
// and a file store at defaults.ExportPath.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		normalizer: normalizer.New(),
		gate:       admission.NewSingleFlight(),
		maxBytes:   defaults.MaxUploadBytes,
		version:    "dev",
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.store == nil {
		fs, err := export.NewFileStore(defaults.ExportPath, fallbackExportDir())
		if err != nil {
			slog.Error("default export store unavailable", "error", err)
		} else {
			h.store = fs
		}
	}
	return h
}

// NewHandlerFromConfig loads the schema and builds the store and gate named
// by cfg.
func NewHandlerFromConfig(cfg *Config, version string) (*Handler, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	s, err := schema.Load(cfg.SchemaFile)
	if err != nil {
		return nil, err
	}

	gate, err := admission.Parse(cfg.Admission)
	if err != nil {
		return nil, err
	}

	store, err := export.NewStore(cfg.ExportURI, export.Options{
		FallbackDirs: []string{fallbackExportDir()},
		ConfigMap:    []export.ConfigMapOption{export.WithVersion(version)},
	})
	if err != nil {
		return nil, fmt.Errorf("invalid export destination %q: %w", cfg.ExportURI, err)
	}

	slog.Info("intake configured",
		"schemaFile", cfg.SchemaFile,
		"scalars", len(s.Scalars()),
		"groups", len(s.Groups()),
		"export", store.Location(),
		"maxUploadBytes", cfg.MaxUploadBytes,
		"admission", cfg.Admission,
		"layout", string(cfg.Layout),
	)

	return NewHandler(
		WithNormalizer(normalizer.New(normalizer.WithSchema(s), normalizer.WithLayout(cfg.Layout))),
		WithStore(store),
		WithGate(gate),
		WithMaxUploadBytes(cfg.MaxUploadBytes),
		WithVersion(version),
	), nil
}

func fallbackExportDir() string {
	return filepath.Join(os.TempDir(), "assets", "json")
}

// Routes returns the handler map for server.WithHandler.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		RouteUpload:   h.HandleUpload,
		RouteValidate: h.HandleValidate,
		RouteSchema:   h.HandleSchema,
		RouteJSON:     h.HandleJSON,
	}
}
