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

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lastBody keeps the most recent update request body.
type lastBody struct {
	mu   sync.Mutex
	body map[string]any
}

func (l *lastBody) get() map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.body
}

func menuAPI(t *testing.T) (*httptest.Server, *lastBody) {
	t.Helper()
	updates := &lastBody{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/menu-items/u" && r.Method == http.MethodPatch:
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			updates.mu.Lock()
			updates.body = body
			updates.mu.Unlock()
			_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":{"id":"u","name":"People","path":"/users","isActive":true,"order":1}}`)
		case r.URL.Path == "/menus/active":
			_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":[{"id":"m1","name":"Main","isActive":true}]}`)
		case r.URL.Path == "/menu-items/menu/m1/hierarchy":
			_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":[
				{"id":"p","name":"System","isActive":true,"children":[
					{"id":"u","name":"Users","path":"/users","isActive":true,"order":1}
				]}
			]}`)
		case r.URL.Path == "/menu-items/p/children" && r.Method == http.MethodPost:
			_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":{"id":"n","name":"Roles","path":"/roles","isActive":true,"order":0}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"no such route"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, updates
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMenusCmd(t *testing.T) {
	srv, _ := menuAPI(t)
	out, err := run(t, "menus", "--base-url", srv.URL, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "m1")
	assert.Contains(t, out, "Main")
}

func TestTreeCmd(t *testing.T) {
	srv, _ := menuAPI(t)
	out, err := run(t, "tree", "m1", "--base-url", srv.URL, "--select", "u")
	require.NoError(t, err)
	assert.Contains(t, out, "System")
	assert.Contains(t, out, "Users")
	assert.Contains(t, out, "System / Users")
}

func TestCreateChildCmd(t *testing.T) {
	srv, _ := menuAPI(t)
	out, err := run(t, "create-child", "p", "--menu", "m1", "--name", "Roles", "--path", "/roles", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "created Roles (n)")
	assert.Less(t, strings.Index(out, "Roles /roles"), strings.Index(out, "Users /users"))
}

func TestDeleteCmd_RequiresMenu(t *testing.T) {
	_, err := run(t, "delete", "u")
	assert.EqualError(t, err, "--menu is required")
}

func TestTreeCmd_GatewayError(t *testing.T) {
	srv, _ := menuAPI(t)
	_, err := run(t, "tree", "missing", "--base-url", srv.URL)
	assert.EqualError(t, err, "no such route")
}

func TestUpdateCmd_SendsOnlyChangedFields(t *testing.T) {
	srv, updates := menuAPI(t)
	out, err := run(t, "update", "u", "--menu", "m1", "--name", "People", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "updated People (u)")

	body := updates.get()
	require.NotNil(t, body)
	assert.Equal(t, "People", body["name"])
	assert.Equal(t, "/users", body["path"])
	assert.EqualValues(t, 1, body["order"])
	assert.Equal(t, true, body["isActive"])
	assert.Equal(t, "m1", body["menuId"])
}

func TestUpdateCmd_OverlaysGivenFlags(t *testing.T) {
	srv, updates := menuAPI(t)
	_, err := run(t, "update", "u", "--menu", "m1", "--order", "4", "--active=false", "--base-url", srv.URL)
	require.NoError(t, err)

	body := updates.get()
	require.NotNil(t, body)
	assert.Equal(t, "Users", body["name"])
	assert.EqualValues(t, 4, body["order"])
	assert.Equal(t, false, body["isActive"])
}

func TestUpdateCmd_UnknownItem(t *testing.T) {
	srv, _ := menuAPI(t)
	_, err := run(t, "update", "nope", "--menu", "m1", "--name", "X", "--base-url", srv.URL)
	assert.EqualError(t, err, `menu item "nope" not found in menu m1`)
}
