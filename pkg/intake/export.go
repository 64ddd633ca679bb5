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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/NVIDIA/asset-intake/pkg/defaults"
	cnserrors "github.com/NVIDIA/asset-intake/pkg/errors"
	"github.com/NVIDIA/asset-intake/pkg/export"
	"github.com/NVIDIA/asset-intake/pkg/serializer"
	"github.com/NVIDIA/asset-intake/pkg/server"
)

// HandleJSON serves GET (download) and DELETE on the stored export.
func (h *Handler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodDelete {
		w.Header().Set("Allow", "GET, DELETE")
		server.WriteError(w, r, http.StatusMethodNotAllowed, cnserrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{http.MethodGet, http.MethodDelete},
			})
		return
	}

	if h.store == nil {
		server.WriteError(w, r, http.StatusServiceUnavailable, cnserrors.ErrCodeUnavailable,
			"No export store configured", true, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.ExportHandlerTimeout)
	defer cancel()

	if r.Method == http.MethodDelete {
		if err := h.store.Delete(ctx); err != nil {
			exportWrites.WithLabelValues("delete", "error").Inc()
			server.WriteErrorFromErr(w, r, storeError(err), "Failed to delete export", nil)
			return
		}
		exportWrites.WithLabelValues("delete", "ok").Inc()
		slog.Info("export deleted", "requestID", server.RequestIDFromContext(ctx), "location", h.store.Location())
		serializer.RespondJSON(w, http.StatusOK, map[string]string{"message": "export deleted"})
		return
	}

	data, err := h.store.Get(ctx)
	if err != nil {
		server.WriteErrorFromErr(w, r, storeError(err), "Failed to read export", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", defaults.ExportFileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}

func storeError(err error) error {
	switch {
	case errors.Is(err, export.ErrNotFound):
		return cnserrors.Wrap(cnserrors.ErrCodeNotFound, "No export stored", err)
	case errors.Is(err, export.ErrNotOwned):
		return cnserrors.Wrap(cnserrors.ErrCodeConflict, "Export destination is not managed by intake", err)
	case errors.Is(err, context.DeadlineExceeded):
		return cnserrors.Wrap(cnserrors.ErrCodeTimeout, "Export store timed out", err)
	default:
		return cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "Export store unavailable", err)
	}
}

// HandleSchema returns the active schema document as JSON, or as YAML with
// ?format=yaml.
func (h *Handler) HandleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, cnserrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	doc := h.normalizer.Schema().Document(h.version)

	switch format := serializer.Format(r.URL.Query().Get("format")); format {
	case "", serializer.FormatJSON:
		serializer.RespondJSON(w, http.StatusOK, doc)
	case serializer.FormatYAML:
		data, err := serializer.Marshal(serializer.FormatYAML, doc)
		if err != nil {
			server.WriteErrorFromErr(w, r, err, "Failed to encode schema", nil)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			slog.Warn("response write failed", "error", err)
		}
	default:
		server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
			"Unsupported schema format", false, map[string]any{
				"format":    string(format),
				"supported": []string{string(serializer.FormatJSON), string(serializer.FormatYAML)},
			})
	}
}
