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
package serializer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("http://host/a.csv"))
	assert.True(t, IsURL("https://host/a.csv"))
	assert.False(t, IsURL("ftp://host/a.csv"))
	assert.False(t, IsURL("/tmp/a.csv"))
}

func TestReadSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.csv")
	require.NoError(t, os.WriteFile(path, []byte("Serial\nS1\n"), 0o600))

	data, err := ReadSource(context.Background(), " "+path+" ")
	require.NoError(t, err)
	assert.Equal(t, "Serial\nS1\n", string(data))
}

func TestReadSourceURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("remote"))
	}))
	defer srv.Close()

	data, err := ReadSource(context.Background(), srv.URL+"/assets.csv")
	require.NoError(t, err)
	assert.Equal(t, "remote", string(data))
}

func TestReadSourceMaxBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.csv")
	require.NoError(t, os.WriteFile(path, []byte("Serial\nS1\n"), 0o600))

	_, err := ReadSource(context.Background(), path, WithMaxBytes(4))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooLarge)

	data, err := ReadSource(context.Background(), path, WithMaxBytes(10))
	require.NoError(t, err)
	assert.Len(t, data, 10)
}

func TestReadSourceErrors(t *testing.T) {
	_, err := ReadSource(context.Background(), "")
	assert.Error(t, err)

	_, err = ReadSource(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
