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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/NVIDIA/asset-intake/pkg/admission"
	"github.com/NVIDIA/asset-intake/pkg/tabular"
)

func TestUploadMultipart(t *testing.T) {
	h, _ := newTestHandler(t)

	req := multipartRequest(t, RouteUpload, part{filename: "assets.csv", contentType: "text/csv", data: sampleCSV}, nil)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="assets_transformed.json"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "2", rec.Header().Get("X-Intake-Records"))
	assert.Equal(t, "1", rec.Header().Get("X-Intake-Dropped-Rows"))

	assets := decodeAssets(t, rec.Body.Bytes())
	require.Len(t, assets, 2)
	assert.Equal(t, "S1", assets[0]["Serial"])
	assert.Equal(t, map[string]any{"HDD1": "d1"}, assets[0]["hdd"], "trailing empty slot trimmed")
	assert.Equal(t, map[string]any{"HDD1": "d2", "HDD2": "d3"}, assets[1]["hdd"])
}

func TestUploadRawBody(t *testing.T) {
	h, _ := newTestHandler(t)

	body := strings.ReplaceAll(sampleCSV, ",", ";")
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, rawRequest(RouteUpload+"?delimiter=semicolon", "text/csv; charset=utf-8", body))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeAssets(t, rec.Body.Bytes()), 2)
}

func TestUploadLatin1(t *testing.T) {
	h, _ := newTestHandler(t)

	body := "Serial,Model,HDD1\nS1,Caf\xe9,d1\n"
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, rawRequest(RouteUpload+"?encoding=latin-1", "text/csv", body))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Café", decodeAssets(t, rec.Body.Bytes())[0]["Model"])
}

func TestUploadLayoutOverride(t *testing.T) {
	h, _ := newTestHandler(t)

	req := multipartRequest(t, RouteUpload, part{filename: "assets.csv", data: sampleCSV},
		map[string]string{"layout": "declared"})
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assets := decodeAssets(t, rec.Body.Bytes())
	assert.Equal(t, map[string]any{"HDD1": "d1", "HDD2": nil}, assets[0]["hdd"])
}

func TestUploadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Serial", "Model", "HDD1"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"S1", "M1", "d1"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	h, _ := newTestHandler(t)
	req := multipartRequest(t, RouteUpload, part{filename: "assets.xlsx", contentType: MediaTypeXLSX, data: buf.String()}, nil)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assets := decodeAssets(t, rec.Body.Bytes())
	require.Len(t, assets, 1)
	assert.Equal(t, "M1", assets[0]["Model"])
}

func TestUploadPersistRoundTrip(t *testing.T) {
	h, store := newTestHandler(t)

	req := multipartRequest(t, RouteUpload, part{filename: "assets.csv", data: sampleCSV},
		map[string]string{"persist": "true"})
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var summary UploadSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, store.Location(), summary.Location)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 1, summary.Stats.BlankRows)

	onDisk, err := os.ReadFile(summary.Location)
	require.NoError(t, err)
	assert.Len(t, decodeAssets(t, onDisk), 2)

	get := httptest.NewRecorder()
	h.HandleJSON(get, httptest.NewRequest(http.MethodGet, RouteJSON, nil))
	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, string(onDisk), get.Body.String())

	del := httptest.NewRecorder()
	h.HandleJSON(del, httptest.NewRequest(http.MethodDelete, RouteJSON, nil))
	require.Equal(t, http.StatusOK, del.Code)

	missing := httptest.NewRecorder()
	h.HandleJSON(missing, httptest.NewRequest(http.MethodGet, RouteJSON, nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, missing).Code)
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		req    func(t *testing.T) *http.Request
		status int
		code   string
	}{
		{
			name:   "wrong method",
			req:    func(*testing.T) *http.Request { return httptest.NewRequest(http.MethodGet, RouteUpload, nil) },
			status: http.StatusMethodNotAllowed,
			code:   "METHOD_NOT_ALLOWED",
		},
		{
			name: "busy gate",
			opts: []Option{WithGate(busyGate{})},
			req: func(*testing.T) *http.Request {
				return rawRequest(RouteUpload, "text/csv", sampleCSV)
			},
			status: http.StatusConflict,
			code:   "CONFLICT",
		},
		{
			name: "unsupported media type",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, RouteUpload, part{filename: "assets.pdf", contentType: "application/pdf", data: sampleCSV}, nil)
			},
			status: http.StatusUnsupportedMediaType,
			code:   "UNSUPPORTED_MEDIA_TYPE",
		},
		{
			name: "octet stream without known extension",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, RouteUpload, part{filename: "assets.bin", data: sampleCSV}, nil)
			},
			status: http.StatusUnsupportedMediaType,
			code:   "UNSUPPORTED_MEDIA_TYPE",
		},
		{
			name: "too large",
			opts: []Option{WithMaxUploadBytes(16)},
			req: func(*testing.T) *http.Request {
				return rawRequest(RouteUpload, "text/csv", sampleCSV)
			},
			status: http.StatusRequestEntityTooLarge,
			code:   "PAYLOAD_TOO_LARGE",
		},
		{
			name: "missing file field",
			req: func(t *testing.T) *http.Request {
				req := multipartRequest(t, RouteUpload, part{filename: "assets.csv", data: sampleCSV}, nil)
				req.Header.Set("Content-Type", strings.Replace(req.Header.Get("Content-Type"), "boundary=", "boundary=x", 1))
				return req
			},
			status: http.StatusBadRequest,
			code:   "INVALID_REQUEST",
		},
		{
			name: "empty document",
			req: func(*testing.T) *http.Request {
				return rawRequest(RouteUpload, "text/csv", "")
			},
			status: http.StatusUnprocessableEntity,
			code:   "EMPTY_INPUT",
		},
		{
			name: "header violation",
			req: func(*testing.T) *http.Request {
				return rawRequest(RouteUpload, "text/csv", "Serial,HDD1,Extra\nS1,d1,x\n")
			},
			status: http.StatusUnprocessableEntity,
			code:   "SCHEMA_VALIDATION",
		},
		{
			name: "bad delimiter",
			req: func(*testing.T) *http.Request {
				return rawRequest(RouteUpload+"?delimiter=pipe", "text/csv", sampleCSV)
			},
			status: http.StatusBadRequest,
			code:   "INVALID_REQUEST",
		},
		{
			name: "bad encoding",
			req: func(*testing.T) *http.Request {
				return rawRequest(RouteUpload+"?encoding=klingon", "text/csv", sampleCSV)
			},
			status: http.StatusBadRequest,
			code:   "INVALID_REQUEST",
		},
		{
			name: "bad layout",
			req: func(*testing.T) *http.Request {
				return rawRequest(RouteUpload+"?layout=sparse", "text/csv", sampleCSV)
			},
			status: http.StatusBadRequest,
			code:   "INVALID_REQUEST",
		},
		{
			name: "bad persist flag",
			req: func(*testing.T) *http.Request {
				return rawRequest(RouteUpload+"?persist=maybe", "text/csv", sampleCSV)
			},
			status: http.StatusBadRequest,
			code:   "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, tt.opts...)
			rec := httptest.NewRecorder()
			h.HandleUpload(rec, tt.req(t))

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestUploadViolationDetails(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, rawRequest(RouteUpload, "text/csv", "Serial,Serial,HDD9\nS1,S1,x\n"))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.False(t, resp.Retryable)

	violations, ok := resp.Details["violations"].([]any)
	require.True(t, ok, "violations present: %#v", resp.Details)

	var kinds []string
	for _, v := range violations {
		kinds = append(kinds, v.(map[string]any)["kind"].(string))
	}
	assert.Equal(t, []string{"duplicate_columns", "missing_columns", "uncovered_groups", "index_out_of_range"}, kinds)
}

func TestUploadGateReleased(t *testing.T) {
	h, _ := newTestHandler(t, WithGate(nil))
	// WithGate(nil) keeps the single-flight default.
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.HandleUpload(rec, rawRequest(RouteUpload, "text/csv", sampleCSV))
		require.Equal(t, http.StatusOK, rec.Code, "attempt %d: %s", i, rec.Body.String())
	}

	rec := httptest.NewRecorder()
	h.HandleUpload(rec, rawRequest(RouteUpload, "application/pdf", sampleCSV))
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleUpload(rec, rawRequest(RouteUpload, "text/csv", sampleCSV))
	assert.Equal(t, http.StatusOK, rec.Code, "slot released after a rejected read")
}

// blockingStore parks every Put until unblock is closed.
type blockingStore struct {
	entered chan struct{}
	unblock chan struct{}
}

func (b *blockingStore) Put(ctx context.Context, _ []byte) (string, error) {
	b.entered <- struct{}{}
	select {
	case <-b.unblock:
		return "blocking", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (b *blockingStore) Get(context.Context) ([]byte, error) { return nil, nil }
func (b *blockingStore) Delete(context.Context) error        { return nil }
func (b *blockingStore) Location() string                    { return "blocking" }

func TestUploadGateHeldDuringPersist(t *testing.T) {
	store := &blockingStore{entered: make(chan struct{}, 2), unblock: make(chan struct{})}
	h, _ := newTestHandler(t, WithStore(store), WithGate(admission.NewSingleFlight()))

	persist := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.HandleUpload(rec, rawRequest(RouteUpload+"?persist=true", "text/csv", sampleCSV))
		return rec
	}

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- persist() }()
	<-store.entered

	second := persist()
	assert.Equal(t, http.StatusConflict, second.Code, second.Body.String())
	assert.Equal(t, "CONFLICT", decodeError(t, second).Code)
	assert.Empty(t, store.entered, "second upload reached the store")

	close(store.unblock)
	rec := <-first
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	third := persist()
	assert.Equal(t, http.StatusCreated, third.Code, "slot released after the store returned")
}

func TestValidate(t *testing.T) {
	h, store := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleValidate(rec, rawRequest(RouteValidate, "text/csv", sampleCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report ValidationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Valid)
	require.NotNil(t, report.Stats)
	assert.Equal(t, 2, report.Stats.Records)
	assert.Equal(t, "ValidationReport", string(report.Kind))

	_, err := os.Stat(store.Location())
	assert.True(t, os.IsNotExist(err), "validate stores nothing")

	rec = httptest.NewRecorder()
	h.HandleValidate(rec, rawRequest(RouteValidate, "text/csv", "Model\nM1\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		contentType string
		filename    string
		want        tabular.Format
		wantErr     bool
	}{
		{contentType: "text/csv", want: tabular.FormatCSV},
		{contentType: "text/csv; charset=latin-1", want: tabular.FormatCSV},
		{contentType: MediaTypeExcel, filename: "a.csv", want: tabular.FormatAuto},
		{contentType: MediaTypeXLSX, want: tabular.FormatXLSX},
		{contentType: MediaTypeOctetStream, filename: "A.CSV", want: tabular.FormatCSV},
		{contentType: MediaTypeOctetStream, filename: "a.xlsx", want: tabular.FormatXLSX},
		{contentType: "", filename: "a.csv", want: tabular.FormatCSV},
		{contentType: MediaTypeOctetStream, filename: "a.txt", wantErr: true},
		{contentType: "application/json", filename: "a.csv", wantErr: true},
		{contentType: "", filename: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.contentType+"|"+tt.filename, func(t *testing.T) {
			got, err := formatFor(tt.contentType, tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
