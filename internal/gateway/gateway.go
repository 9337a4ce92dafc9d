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

// Package gateway translates calls to the remote menu HTTP API into typed
// results and a single *Error failure channel. It never retries and never caches.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-arcade/arcade-menu/internal/model"
	httpx "github.com/go-arcade/arcade-menu/pkg/http"
	"github.com/go-arcade/arcade-menu/pkg/log"
	"github.com/go-arcade/arcade-menu/pkg/metrics"
)

const tracerName = "github.com/go-arcade/arcade-menu/internal/gateway"

// Conf configures the remote menu service.
type Conf struct {
	BaseURL      string
	Timeout      int // seconds, 0 disables
	UpdateMethod string
	Headers      map[string]string
}

// Method returns the HTTP method used for item updates.
func (c Conf) Method() string {
	if strings.EqualFold(c.UpdateMethod, http.MethodPut) {
		return http.MethodPut
	}
	return http.MethodPatch
}

type Gateway struct {
	conf    Conf
	client  *resty.Client
	metrics *metrics.GatewayMetrics
	tracer  trace.Tracer
}

type Option func(*Gateway)

// WithClient replaces the resty client built from Conf.
func WithClient(c *resty.Client) Option {
	return func(g *Gateway) {
		if c != nil {
			g.client = c
		}
	}
}

func WithMetrics(m *metrics.GatewayMetrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

func New(conf Conf, opts ...Option) *Gateway {
	g := &Gateway{
		conf:   conf,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.client == nil {
		g.client = httpx.NewClient(httpx.ClientConf{
			BaseURL:   strings.TrimRight(conf.BaseURL, "/"),
			Timeout:   time.Duration(conf.Timeout) * time.Second,
			UserAgent: "menuctl",
			Headers:   conf.Headers,
		})
	}
	return g
}

// ListActiveMenus fetches the menus that are currently active.
func (g *Gateway) ListActiveMenus(ctx context.Context) ([]model.Menu, error) {
	var out []model.Menu
	if err := g.call(ctx, request{op: "list_active_menus", method: http.MethodGet, path: "/menus/active"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetHierarchy fetches the nested item forest of a menu.
func (g *Gateway) GetHierarchy(ctx context.Context, menuID string) ([]*model.MenuItem, error) {
	const op = "get_hierarchy"
	raw, status, err := g.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/menu-items/menu/{menuId}/hierarchy",
		params: map[string]string{"menuId": menuID},
	})
	if err != nil {
		return nil, err
	}
	if !isArray(raw) {
		return nil, applicationError(op, status, msgNoHierarchy, nil)
	}
	var items []*model.MenuItem
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, applicationError(op, status, msgInvalidBody, err)
	}
	return items, nil
}

// CreateItem creates a root item, or a child when input.ParentID is set server side.
func (g *Gateway) CreateItem(ctx context.Context, input *model.ItemInput) (*model.MenuItem, error) {
	return g.item(ctx, request{op: "create_item", method: http.MethodPost, path: "/menu-items", body: input})
}

// CreateChild creates an item under parentID.
func (g *Gateway) CreateChild(ctx context.Context, parentID string, input *model.ItemInput) (*model.MenuItem, error) {
	return g.item(ctx, request{
		op:     "create_child",
		method: http.MethodPost,
		path:   "/menu-items/{parentId}/children",
		params: map[string]string{"parentId": parentID},
		body:   input,
	})
}

func (g *Gateway) UpdateItem(ctx context.Context, id string, input *model.ItemInput) (*model.MenuItem, error) {
	return g.item(ctx, request{
		op:     "update_item",
		method: g.conf.Method(),
		path:   "/menu-items/{id}",
		params: map[string]string{"id": id},
		body:   input,
	})
}

// UpdateItemOrder moves an item within its sibling group.
func (g *Gateway) UpdateItemOrder(ctx context.Context, id string, order int) (*model.MenuItem, error) {
	return g.item(ctx, request{
		op:     "update_item_order",
		method: http.MethodPatch,
		path:   "/menu-items/{id}/order",
		params: map[string]string{"id": id},
		body:   map[string]int{"order": order},
	})
}

func (g *Gateway) DeleteItem(ctx context.Context, id string) error {
	_, _, err := g.do(ctx, request{
		op:     "delete_item",
		method: http.MethodDelete,
		path:   "/menu-items/{id}",
		params: map[string]string{"id": id},
	})
	return err
}

type request struct {
	op     string
	method string
	path   string
	params map[string]string
	body   any
}

func (g *Gateway) item(ctx context.Context, req request) (*model.MenuItem, error) {
	var out *model.MenuItem
	if err := g.call(ctx, req, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, applicationError(req.op, http.StatusOK, msgInvalidBody, nil)
	}
	return out, nil
}

// call performs req and decodes the envelope data into out.
func (g *Gateway) call(ctx context.Context, req request, out any) error {
	raw, status, err := g.do(ctx, req)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return applicationError(req.op, status, msgInvalidBody, err)
	}
	return nil
}

// do runs one round trip and returns the raw envelope data.
func (g *Gateway) do(ctx context.Context, req request) (json.RawMessage, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := g.tracer.Start(ctx, "menu."+req.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.method),
			attribute.String("http.route", req.path),
		),
	)
	defer span.End()

	start := time.Now()
	r := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")
	if len(req.params) > 0 {
		r.SetPathParams(req.params)
	}
	if req.body != nil {
		r.SetBody(req.body)
	}

	resp, err := r.Execute(req.method, req.path)
	status := 0
	var raw json.RawMessage
	if err != nil {
		err = transportError(req.op, err)
	} else {
		status = resp.StatusCode()
		raw, err = decode(req.op, status, resp.Body())
	}
	elapsed := time.Since(start)

	g.metrics.Observe(req.op, outcome(err), elapsed)
	span.SetAttributes(attribute.Int("http.status_code", status))
	logger := log.WithContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debugw("menu gateway call failed",
			"operation", req.op, "method", req.method, "path", req.path,
			"status", status, "duration", elapsed, "error", err, "cause", errorsCause(err))
		return nil, status, err
	}
	logger.Debugw("menu gateway call",
		"operation", req.op, "method", req.method, "path", req.path,
		"status", status, "duration", elapsed)
	return raw, status, nil
}

// decode maps a received response onto the envelope contract.
func decode(op string, status int, body []byte) (json.RawMessage, error) {
	if status < 200 || status > 299 {
		var errBody struct {
			Message string `json:"message"`
		}
		// an unparseable error body falls back to the status line
		_ = sonic.Unmarshal(body, &errBody)
		return nil, httpError(op, status, errBody.Message)
	}

	var env model.Envelope[json.RawMessage]
	if err := sonic.Unmarshal(body, &env); err != nil {
		return nil, applicationError(op, status, msgInvalidBody, err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = msgRequestFailed
		}
		return nil, applicationError(op, status, msg, nil)
	}
	if bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil, nil
	}
	return env.Data, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func outcome(err error) string {
	gerr, ok := err.(*Error)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case !ok:
		return metrics.OutcomeTransport
	case gerr.Kind == KindHTTP:
		return metrics.OutcomeHTTP
	case gerr.Kind == KindApplication:
		return metrics.OutcomeApplication
	default:
		return metrics.OutcomeTransport
	}
}

func errorsCause(err error) string {
	if gerr, ok := err.(*Error); ok && gerr.Err != nil {
		return gerr.Err.Error()
	}
	return ""
}
