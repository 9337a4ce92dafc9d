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

package router

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/go-arcade/arcade-menu/internal/model"
	"github.com/go-arcade/arcade-menu/internal/store"
	"github.com/go-arcade/arcade-menu/pkg/http"
	"github.com/go-arcade/arcade-menu/pkg/http/middleware"
	"github.com/go-arcade/arcade-menu/pkg/metrics"
	"github.com/go-arcade/arcade-menu/pkg/version"
)

// MenuLister lists the menus a hierarchy can be loaded for.
type MenuLister interface {
	ListActiveMenus(ctx context.Context) ([]model.Menu, error)
}

type Router struct {
	Http    http.Http
	Store   *store.Store
	Menus   MenuLister
	Metrics *metrics.Server
}

// NewRouter wires the presentation adapter. /metrics is mounted when
// metricsServer is enabled.
func NewRouter(httpConf http.Http, st *store.Store, menus MenuLister, metricsServer *metrics.Server) *Router {
	httpConf.SetDefaults()
	return &Router{
		Http:    httpConf,
		Store:   st,
		Menus:   menus,
		Metrics: metricsServer,
	}
}

func (rt *Router) Router() *fiber.App {
	app := http.NewApp(rt.Http)

	// 中间件
	app.Use(
		middleware.ExceptionMiddleware,
		middleware.RequestMiddleware(),
		middleware.TraceMiddleware(),
		middleware.AccessLogMiddleware(rt.Http.AccessLog),
		cors.New(),
	)

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// 版本信息
	app.Get("/version", func(c *fiber.Ctx) error {
		return http.WithRepJSON(c, version.GetVersion())
	})

	if rt.Metrics != nil && rt.Metrics.Enabled() {
		app.Get("/metrics", adaptor.HTTPHandler(rt.Metrics.Handler()))
	}

	rt.menuRouter(app.Group("/api/v1"))

	// 找不到路径时的处理 - 必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return http.WithRepErr(c, fiber.StatusNotFound, http.NotFound, "request path not found")
	})

	return app
}
