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

package conf

import (
	"github.com/google/wire"

	"github.com/go-arcade/arcade-menu/internal/gateway"
	"github.com/go-arcade/arcade-menu/pkg/http"
	"github.com/go-arcade/arcade-menu/pkg/log"
	"github.com/go-arcade/arcade-menu/pkg/metrics"
	"github.com/go-arcade/arcade-menu/pkg/trace"
)

// ProviderSet 提供配置层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideLogConfig,
	ProvideHttpConfig,
	ProvideGatewayConfig,
	ProvideMetricsConfig,
	ProvideTraceConfig,
	ProvideRetryConfig,
)

// ProvideConf 提供应用配置
func ProvideConf(loader *Loader) (*AppConfig, error) {
	return loader.LoadConfigFile()
}

// ProvideLogConfig 提供日志配置
func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

// ProvideHttpConfig 提供 HTTP 配置
func ProvideHttpConfig(appConf *AppConfig) http.Http {
	httpConfig := appConf.Http
	httpConfig.SetDefaults()
	return httpConfig
}

func ProvideGatewayConfig(appConf *AppConfig) gateway.Conf {
	return appConf.Gateway
}

// ProvideMetricsConfig 提供 Metrics 配置
func ProvideMetricsConfig(appConf *AppConfig) metrics.MetricsConfig {
	return appConf.Metrics
}

// ProvideTraceConfig 提供 Trace 配置
func ProvideTraceConfig(appConf *AppConfig) trace.Conf {
	return appConf.Trace
}

func ProvideRetryConfig(appConf *AppConfig) RetryConfig {
	return appConf.Retry
}
