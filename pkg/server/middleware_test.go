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
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestServer(limiter *rate.Limiter) *Server {
	if limiter == nil {
		limiter = rate.NewLimiter(100, 200)
	}
	return &Server{config: NewConfig(), rateLimiter: limiter}
}

func TestRequestIDMiddleware(t *testing.T) {
	provided := uuid.New().String()

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{"generates when absent", "", false},
		{"keeps valid uuid", provided, true},
		{"replaces invalid id", "invalid-not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(nil)

			var captured string
			handler := s.requestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
				captured = RequestIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-Id", tt.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			_, err := uuid.Parse(captured)
			require.NoError(t, err)
			assert.Equal(t, captured, rec.Header().Get("X-Request-Id"))
			if tt.wantSame {
				assert.Equal(t, tt.header, captured)
			} else {
				assert.NotEqual(t, tt.header, captured)
			}
		})
	}
}

func TestRequestIDFromContextOutsideChain(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}

func TestVersionMiddleware(t *testing.T) {
	s := newTestServer(nil)

	var captured any
	handler := s.versionMiddleware(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Context().Value(contextKeyAPIVersion)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Accept", "application/vnd.nvidia.intake.v1+json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
	assert.Equal(t, "v1", captured)
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("allows and sets headers", func(t *testing.T) {
		s := newTestServer(nil)
		called := false
		handler := s.rateLimitMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("rejects without capacity", func(t *testing.T) {
		s := newTestServer(rate.NewLimiter(0, 0))
		called := false
		handler := s.rateLimitMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			called = true
		})

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	})
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	s := newTestServer(nil)

	t.Run("recovers", func(t *testing.T) {
		handler := s.panicRecoveryMiddleware(func(http.ResponseWriter, *http.Request) {
			panic("test panic")
		})
		rec := httptest.NewRecorder()
		assert.NotPanics(t, func() { handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil)) })
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("passes normal requests", func(t *testing.T) {
		handler := s.panicRecoveryMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)
	})
}

func TestLoggingMiddlewareKeepsStatus(t *testing.T) {
	s := newTestServer(nil)

	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusBadRequest,
		http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			handler := s.requestIDMiddleware(s.loggingMiddleware(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			}))
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
			assert.Equal(t, status, rec.Code)
		})
	}
}

func TestMiddlewareChain(t *testing.T) {
	s := newTestServer(nil)

	var hasRequestID, hasAPIVersion bool
	handler := s.withMiddleware(func(w http.ResponseWriter, r *http.Request) {
		hasRequestID = RequestIDFromContext(r.Context()) != ""
		hasAPIVersion = r.Context().Value(contextKeyAPIVersion) != nil
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.True(t, hasRequestID)
	assert.True(t, hasAPIVersion)
	for _, header := range []string{"X-Request-Id", "X-RateLimit-Limit", "X-RateLimit-Remaining",
		"X-RateLimit-Reset", "X-API-Version"} {
		assert.NotEmpty(t, rec.Header().Get(header), header)
	}
}

func TestResponseWriterFirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusConflict)
	rw.WriteHeader(http.StatusOK)
	_, err := rw.Write([]byte("x"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, rw.Status())
	assert.Equal(t, int64(1), rw.Size())
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, rec, rw.Unwrap())
}
