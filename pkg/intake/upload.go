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
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/NVIDIA/asset-intake/pkg/defaults"
	cnserrors "github.com/NVIDIA/asset-intake/pkg/errors"
	"github.com/NVIDIA/asset-intake/pkg/normalizer"
	"github.com/NVIDIA/asset-intake/pkg/serializer"
	"github.com/NVIDIA/asset-intake/pkg/server"
	"github.com/NVIDIA/asset-intake/pkg/tabular"
)

// Accepted upload media types.
const (
	MediaTypeCSV         = "text/csv"
	MediaTypeExcel       = "application/vnd.ms-excel"
	MediaTypeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MediaTypeOctetStream = "application/octet-stream"

	formField = "file"

	// multipartSlack allows for boundaries and part headers around the file.
	multipartSlack int64 = 64 << 10
)

// UploadSummary is returned when the export was persisted.
type UploadSummary struct {
	Location string           `json:"location" yaml:"location"`
	Records  int              `json:"records" yaml:"records"`
	Stats    normalizer.Stats `json:"stats" yaml:"stats"`
}

// upload is one received document and its reading options.
type upload struct {
	data     []byte
	filename string
	input    normalizer.Input
	layout   normalizer.Layout
	persist  bool
}

// HandleUpload normalizes the uploaded document. The JSON array is returned
// as an attachment, or stored when persist=true.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	h.process(w, r, "upload", func(ctx context.Context, u *upload, res *normalizer.Result) {
		data, err := serializer.Marshal(serializer.FormatJSON, res.Records)
		if err != nil {
			server.WriteErrorFromErr(w, r, err, "Failed to encode assets", nil)
			return
		}

		if !u.persist {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", defaults.ExportFileName))
			w.Header().Set("X-Intake-Records", strconv.Itoa(res.Stats.Records))
			w.Header().Set("X-Intake-Dropped-Rows", strconv.Itoa(res.Stats.Dropped()))
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write(data); err != nil {
				slog.Warn("response write failed", "error", err)
			}
			return
		}

		if h.store == nil {
			server.WriteError(w, r, http.StatusServiceUnavailable, cnserrors.ErrCodeUnavailable,
				"No export store configured", true, nil)
			return
		}

		location, err := h.store.Put(ctx, data)
		if err != nil {
			exportWrites.WithLabelValues("put", "error").Inc()
			server.WriteErrorFromErr(w, r,
				cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "Failed to store export", err),
				"Failed to store export", map[string]any{"destination": h.store.Location()})
			return
		}
		exportWrites.WithLabelValues("put", "ok").Inc()

		slog.Info("export stored",
			"requestID", server.RequestIDFromContext(ctx),
			"location", location,
			"records", res.Stats.Records,
		)

		serializer.RespondJSON(w, http.StatusCreated, UploadSummary{
			Location: location,
			Records:  res.Stats.Records,
			Stats:    res.Stats,
		})
	})
}

// HandleValidate runs the pipeline without storing anything.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	h.process(w, r, "validate", func(_ context.Context, _ *upload, res *normalizer.Result) {
		serializer.RespondJSON(w, http.StatusOK, NewValidationReport(res, nil, h.version))
	})
}

// process holds an admission slot while receiving, normalizing and
// delivering the document. The slot is released after done returns, so two
// persisting uploads never reach the export store at once. Every failure is
// answered here.
func (h *Handler) process(w http.ResponseWriter, r *http.Request, endpoint string,
	done func(ctx context.Context, u *upload, res *normalizer.Result)) {

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, cnserrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	release, ok := h.gate.TryAcquire()
	if !ok {
		uploadsTotal.WithLabelValues(endpoint, "busy").Inc()
		server.WriteError(w, r, http.StatusConflict, cnserrors.ErrCodeConflict,
			"Another document is being processed", true, nil)
		return
	}

	defer func() { release() }()

	ctx, cancel := context.WithTimeout(r.Context(), defaults.UploadHandlerTimeout)
	defer cancel()

	u, err := h.readUpload(w, r)
	if err != nil {
		uploadsTotal.WithLabelValues(endpoint, "rejected").Inc()
		server.WriteErrorFromErr(w, r, err, "Failed to read upload", nil)
		return
	}
	uploadBytes.Observe(float64(len(u.data)))

	var res *normalizer.Result
	res, release, err = h.normalize(ctx, u, release)
	if err != nil {
		uploadsTotal.WithLabelValues(endpoint, "rejected").Inc()
		slog.Info("upload rejected",
			"requestID", server.RequestIDFromContext(ctx),
			"endpoint", endpoint,
			"filename", u.filename,
			"code", cnserrors.CodeOf(err),
		)
		server.WriteErrorFromErr(w, r, err, "Failed to normalize document", nil)
		return
	}

	uploadsTotal.WithLabelValues(endpoint, "ok").Inc()
	slog.Info("upload normalized",
		"requestID", server.RequestIDFromContext(ctx),
		"endpoint", endpoint,
		"filename", u.filename,
		"bytes", len(u.data),
		"records", res.Stats.Records,
		"dropped", res.Stats.Dropped(),
	)

	done(ctx, u, res)
}

// normalize runs the pipeline within defaults.NormalizeTimeout and returns
// the release the caller is still responsible for. When the caller gives up
// on a running pipeline the slot stays with it, and the returned release is
// a no-op.
func (h *Handler) normalize(ctx context.Context, u *upload, release func()) (*normalizer.Result, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.NormalizeTimeout)
	defer cancel()

	n := h.normalizer
	if u.layout != "" && u.layout != n.Layout() {
		n = normalizer.New(normalizer.WithSchema(n.Schema()), normalizer.WithLayout(u.layout))
	}

	type outcome struct {
		res *normalizer.Result
		err error
	}
	done := make(chan outcome)
	abandoned := make(chan struct{})
	go func() {
		var o outcome
		func() {
			defer func() {
				if p := recover(); p != nil {
					o.err = cnserrors.New(cnserrors.ErrCodeInternal, fmt.Sprintf("normalizer panic: %v", p))
				}
			}()
			o.res, o.err = n.Normalize(u.data, u.input)
		}()
		select {
		case done <- o:
		case <-abandoned:
			release()
		}
	}()

	select {
	case <-ctx.Done():
		close(abandoned)
		return nil, func() {}, cnserrors.Wrap(cnserrors.ErrCodeTimeout, "Normalization timed out", ctx.Err())
	case o := <-done:
		return o.res, release, o.err
	}
}

// readUpload receives the document from a multipart "file" field or a raw
// body and collects the reading options from the form or query string.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	if r.ContentLength > h.maxBytes+multipartSlack {
		return nil, tooLarge(h.maxBytes)
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartSlack)
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	u := &upload{}
	var (
		body        io.Reader
		contentType string
	)

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(defaults.MultipartMemoryBytes); err != nil {
			if isMaxBytes(err) {
				return nil, tooLarge(h.maxBytes)
			}
			return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "Invalid multipart form", err)
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, fh, err := r.FormFile(formField)
		if err != nil {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("Missing %q form field", formField), err)
		}
		defer file.Close()

		body = file
		contentType = fh.Header.Get("Content-Type")
		u.filename = fh.Filename
	} else {
		body = r.Body
		contentType = r.Header.Get("Content-Type")
		u.filename = r.URL.Query().Get("filename")
	}

	format, err := formatFor(contentType, u.filename)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(body, h.maxBytes+1))
	if err != nil {
		if isMaxBytes(err) {
			return nil, tooLarge(h.maxBytes)
		}
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "Failed to read upload", err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, tooLarge(h.maxBytes)
	}
	u.data = data

	if err := parseOptions(r, u, format); err != nil {
		return nil, err
	}
	return u, nil
}

func parseOptions(r *http.Request, u *upload, format tabular.Format) error {
	delim, err := tabular.ParseDelimiter(r.FormValue("delimiter"))
	if err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "Invalid delimiter", err)
	}

	encoding := r.FormValue("encoding")
	if encoding == "" {
		encoding = "utf-8"
	}

	if v := r.FormValue("format"); v != "" {
		if format, err = tabular.ParseFormat(v); err != nil {
			return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "Invalid format", err)
		}
	}

	if v := r.FormValue("layout"); v != "" {
		if u.layout, err = normalizer.ParseLayout(v); err != nil {
			return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "Invalid layout", err)
		}
	}

	if v := r.FormValue("persist"); v != "" {
		if u.persist, err = strconv.ParseBool(v); err != nil {
			return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "Invalid persist flag", err)
		}
	}

	u.input = normalizer.Input{Encoding: encoding, Delimiter: delim, Format: format}
	return nil
}

// formatFor maps the declared media type, and for generic types the file
// extension, to a container format.
func formatFor(contentType, filename string) (tabular.Format, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	switch mediaType {
	case MediaTypeCSV:
		return tabular.FormatCSV, nil
	case MediaTypeExcel:
		// Browsers label csv files this way on some platforms.
		return tabular.FormatAuto, nil
	case MediaTypeXLSX:
		return tabular.FormatXLSX, nil
	case MediaTypeOctetStream, "":
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".csv":
			return tabular.FormatCSV, nil
		case ".xlsx":
			return tabular.FormatXLSX, nil
		}
	}

	return "", cnserrors.NewWithContext(cnserrors.ErrCodeUnsupportedMediaType,
		"Unsupported file type: upload a csv or xlsx document", map[string]any{
			"contentType": contentType,
			"filename":    filename,
			"accepted":    []string{MediaTypeCSV, MediaTypeExcel, MediaTypeXLSX},
		})
}

func tooLarge(limit int64) error {
	return cnserrors.New(cnserrors.ErrCodePayloadTooLarge,
		fmt.Sprintf("File too large (limit %d MiB)", limit>>20)).With("limitBytes", limit)
}

func isMaxBytes(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
