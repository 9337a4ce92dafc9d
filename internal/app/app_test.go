// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/go-arcade/arcade-menu/internal/conf"
	"github.com/go-arcade/arcade-menu/internal/gateway"
	"github.com/go-arcade/arcade-menu/internal/store"
	"github.com/go-arcade/arcade-menu/pkg/metrics"
)

// flakyServer fails the first failures requests with a 503.
func flakyServer(t *testing.T, failures int32, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n <= failures {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"message":"unavailable"}`)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":[{"id":"1","name":"Root","children":[]}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestApp(baseURL string) *App {
	gw := gateway.New(gateway.Conf{BaseURL: baseURL}, gateway.WithMetrics(metrics.NewGatewayMetrics(prometheus.NewRegistry())))
	return NewApp(nil, conf.NewLoader(""), zap.NewNop(), gw, store.New(gw), nil, nil, nil,
		conf.RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond})
}

func TestLoad_RetriesRetryableErrors(t *testing.T) {
	srv, calls := flakyServer(t, 2, http.StatusServiceUnavailable)
	a := newTestApp(srv.URL)

	require.NoError(t, a.Load(context.Background(), "m1", true))
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, a.Store.Snapshot().Items, 1)
	assert.Empty(t, a.Store.Snapshot().Err)
}

func TestLoad_DoesNotRetryClientErrors(t *testing.T) {
	srv, calls := flakyServer(t, 5, http.StatusBadRequest)
	a := newTestApp(srv.URL)

	err := a.Load(context.Background(), "m1", true)
	assert.EqualError(t, err, "unavailable")
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoad_WithoutRetry(t *testing.T) {
	srv, calls := flakyServer(t, 1, http.StatusServiceUnavailable)
	a := newTestApp(srv.URL)

	assert.Error(t, a.Load(context.Background(), "m1", false))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "unavailable", a.Store.Snapshot().Err)
}
