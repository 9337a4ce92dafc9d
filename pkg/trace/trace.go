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

package trace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/wire"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/go-arcade/arcade-menu/pkg/log"
	"github.com/go-arcade/arcade-menu/pkg/version"
)

// ProviderSet is the Wire provider set for tracing.
var ProviderSet = wire.NewSet(ProvideTracerProvider)

// Conf Trace 配置
type Conf struct {
	Enable bool
	// Protocol 协议类型：grpc、http 或 none（只在进程内记录）
	Protocol    string
	Endpoint    string
	Insecure    bool
	Headers     map[string]string
	ServiceName string
	// SampleRatio 采样率，0 表示全部采样
	SampleRatio float64
	// BatchTimeout 批量发送超时时间（秒）
	BatchTimeout int
	// ExportTimeout 导出超时时间（秒）
	ExportTimeout int
}

// SetDefaults 设置默认值
func (c *Conf) SetDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "menuctl"
	}
	if c.Protocol == "" {
		c.Protocol = "grpc"
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 5
	}
	if c.ExportTimeout <= 0 {
		c.ExportTimeout = 30
	}
}

func (c *Conf) sampler() sdktrace.Sampler {
	if c.SampleRatio <= 0 || c.SampleRatio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.SampleRatio))
}

// NewExporter returns the span exporter for the configured protocol, or nil
// for "none".
func NewExporter(ctx context.Context, c Conf) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(c.Protocol) {
	case "none":
		return nil, nil
	case "grpc":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(c.Endpoint)}
		if c.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		if len(c.Headers) > 0 {
			opts = append(opts, otlptracegrpc.WithHeaders(c.Headers))
		}
		return otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
	case "http":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(c.Endpoint)}
		if c.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(c.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(c.Headers))
		}
		return otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	default:
		return nil, fmt.Errorf("unsupported trace protocol: %s", c.Protocol)
	}
}

// NewTracerProvider builds an SDK tracer provider for c. Extra options are
// appended after the configured ones.
func NewTracerProvider(ctx context.Context, c Conf, extra ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	c.SetDefaults()

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(c.ServiceName),
		semconv.ServiceVersionKey.String(version.GetVersion().Version),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := NewExporter(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(c.sampler()),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(time.Duration(c.BatchTimeout)*time.Second),
			sdktrace.WithExportTimeout(time.Duration(c.ExportTimeout)*time.Second),
		))
	}
	return sdktrace.NewTracerProvider(append(opts, extra...)...), nil
}

// ProvideTracerProvider installs the global tracer provider and propagator.
// A disabled config yields a no-op provider and leaves the globals alone.
func ProvideTracerProvider(c Conf) (trace.TracerProvider, func(), error) {
	if !c.Enable {
		return noop.NewTracerProvider(), func() {}, nil
	}
	tp, err := NewTracerProvider(context.Background(), c)
	if err != nil {
		return nil, nil, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Infow("OpenTelemetry tracing initialized", "protocol", c.Protocol, "endpoint", c.Endpoint, "service", c.ServiceName)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warnw("shutdown tracer provider failed", "error", err)
		}
	}
	return tp, cleanup, nil
}
