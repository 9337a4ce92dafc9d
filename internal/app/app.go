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
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/go-arcade/arcade-menu/internal/conf"
	"github.com/go-arcade/arcade-menu/internal/gateway"
	"github.com/go-arcade/arcade-menu/internal/router"
	"github.com/go-arcade/arcade-menu/internal/store"
	"github.com/go-arcade/arcade-menu/pkg/http"
	"github.com/go-arcade/arcade-menu/pkg/metrics"
	"github.com/go-arcade/arcade-menu/pkg/retry"
)

type App struct {
	Conf    *conf.AppConfig
	Loader  *conf.Loader
	Logger  *zap.Logger
	Gateway *gateway.Gateway
	Store   *store.Store
	Router  *router.Router
	Metrics *metrics.Server
	Tracer  trace.TracerProvider
	Retry   conf.RetryConfig
}

func NewApp(
	appConf *conf.AppConfig,
	loader *conf.Loader,
	logger *zap.Logger,
	gw *gateway.Gateway,
	st *store.Store,
	rt *router.Router,
	metricsServer *metrics.Server,
	tracer trace.TracerProvider,
	retryConf conf.RetryConfig,
) *App {
	return &App{
		Conf:    appConf,
		Loader:  loader,
		Logger:  logger,
		Gateway: gw,
		Store:   st,
		Router:  rt,
		Metrics: metricsServer,
		Tracer:  tracer,
		Retry:   retryConf,
	}
}

// Load loads menuID into the store. With withRetry, transport failures and
// retryable HTTP statuses are retried with exponential backoff; the store
// shows every attempt.
func (a *App) Load(ctx context.Context, menuID string, withRetry bool) error {
	if !withRetry {
		return a.Store.Load(ctx, menuID)
	}
	sugar := a.Logger.Sugar()
	return retry.Do(ctx, func(ctx context.Context) error {
		err := a.Store.Load(ctx, menuID)
		if err != nil && !gateway.IsRetryable(err) {
			return retry.Permanent(err)
		}
		return err
	},
		retry.WithMaxAttempts(a.Retry.MaxAttempts),
		retry.WithBackoff(retry.Exponential(a.Retry.Backoff, 10*a.Retry.Backoff)),
		retry.WithJitter(retry.FullJitter),
		retry.OnRetry(func(attempt int, err error, wait time.Duration) {
			sugar.Warnw("load menu hierarchy, retrying", "menuId", menuID, "attempt", attempt, "wait", wait, "error", err)
		}),
	)
}

// Serve runs the presentation adapter and the metrics server until ctx is
// done or one of them fails.
func (a *App) Serve(ctx context.Context) error {
	a.Loader.WatchConfig(nil)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return http.Serve(ctx, a.Router.Http, a.Router.Router())
	})
	g.Go(func() error {
		return a.Metrics.Serve(ctx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
