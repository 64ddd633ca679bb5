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
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/asset-intake/pkg/admission"
	"github.com/NVIDIA/asset-intake/pkg/export"
	"github.com/NVIDIA/asset-intake/pkg/normalizer"
	"github.com/NVIDIA/asset-intake/pkg/schema"
	"github.com/NVIDIA/asset-intake/pkg/server"
)

const sampleCSV = "Serial,Model,HDD1,HDD2\nS1,M1,d1,\n,,,\nS2,M2,d2,d3\n"

// busyGate never admits.
type busyGate struct{}

func (busyGate) TryAcquire() (func(), bool) { return nil, false }

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New([]string{"Serial", "Model"}, []schema.Group{{Name: "HDD", Max: 3}})
	require.NoError(t, err)
	return s
}

func newTestHandler(t *testing.T, opts ...Option) (*Handler, *export.FileStore) {
	t.Helper()
	store, err := export.NewFileStore(filepath.Join(t.TempDir(), "assets.json"))
	require.NoError(t, err)

	base := []Option{
		WithNormalizer(normalizer.New(normalizer.WithSchema(testSchema(t)))),
		WithStore(store),
		WithGate(admission.Unlimited()),
		WithVersion("test"),
	}
	return NewHandler(append(base, opts...)...), store
}

type part struct {
	filename    string
	contentType string
	data        string
}

// multipartRequest builds a POST with a "file" part and extra form fields.
func multipartRequest(t *testing.T, target string, p part, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+p.filename+`"`)
	if p.contentType != "" {
		hdr.Set("Content-Type", p.contentType)
	}
	w, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = w.Write([]byte(p.data))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func rawRequest(target, contentType, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) server.ErrorResponse {
	t.Helper()
	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeAssets(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}
