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

package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arcade/arcade-menu/pkg/id"
)

func TestHttp_SetDefaults(t *testing.T) {
	h := Http{}
	h.SetDefaults()
	assert.Equal(t, "127.0.0.1:8080", h.Addr())
	assert.Equal(t, 10, h.ShutdownTimeout)
	assert.Equal(t, 1<<20, h.FiberConfig().BodyLimit)
}

func TestNewClient_StampsRequestID(t *testing.T) {
	var got string
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		got = r.Header.Get(id.RequestIDHeader)
		w.WriteHeader(nethttp.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(ClientConf{BaseURL: srv.URL, Timeout: time.Second})
	resp, err := c.R().Get("/")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode())
	assert.NotEmpty(t, got)
}

func TestNewApp_AppliesDefaults(t *testing.T) {
	app := NewApp(Http{})
	assert.Equal(t, "menuctl", app.Config().AppName)
	assert.Equal(t, 1<<20, app.Config().BodyLimit)
}
