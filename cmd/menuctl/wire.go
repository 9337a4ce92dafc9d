//go:build wireinject
// +build wireinject

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
	"github.com/google/wire"

	"github.com/go-arcade/arcade-menu/internal/app"
	"github.com/go-arcade/arcade-menu/internal/conf"
	"github.com/go-arcade/arcade-menu/internal/gateway"
	"github.com/go-arcade/arcade-menu/internal/router"
	"github.com/go-arcade/arcade-menu/internal/store"
	"github.com/go-arcade/arcade-menu/pkg/log"
	"github.com/go-arcade/arcade-menu/pkg/metrics"
	"github.com/go-arcade/arcade-menu/pkg/trace"
)

func initApp(loader *conf.Loader) (*app.App, func(), error) {
	panic(wire.Build(
		// 配置层
		conf.ProviderSet,
		// 日志
		log.ProviderSet,
		// 指标
		metrics.ProviderSet,
		// 链路追踪
		trace.ProviderSet,
		// 远端菜单服务
		gateway.ProviderSet,
		// 状态
		store.ProviderSet,
		// 路由层
		router.ProviderSet,
		// 应用层
		app.NewApp,
	))
}
