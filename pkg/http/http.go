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
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"github.com/go-arcade/arcade-menu/pkg/log"
)

// Http holds the listen settings of the presentation server.
type Http struct {
	Host            string
	Port            int
	AccessLog       bool
	BodyLimit       int // bytes
	ReadTimeout     int // seconds
	WriteTimeout    int // seconds
	IdleTimeout     int // seconds
	ShutdownTimeout int // seconds
}

func (h Http) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// SetDefaults fills zero values.
func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "127.0.0.1"
	}
	if h.Port == 0 {
		h.Port = 8080
	}
	if h.BodyLimit <= 0 {
		h.BodyLimit = 1 << 20
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 30
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 30
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 60
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10
	}
}

// FiberConfig returns the fiber settings derived from h.
func (h Http) FiberConfig() fiber.Config {
	return fiber.Config{
		AppName:               "menuctl",
		DisableStartupMessage: true,
		BodyLimit:             h.BodyLimit,
		ReadTimeout:           time.Duration(h.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(h.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(h.IdleTimeout) * time.Second,
		ErrorHandler:          ErrorHandler,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
	}
}

// Serve runs app until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, cfg Http, app *fiber.App) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server started", "address", cfg.Addr())
		errCh <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("http server shutting down")
		if err := app.ShutdownWithTimeout(time.Duration(cfg.ShutdownTimeout) * time.Second); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		log.Info("http server shut down gracefully")
		return nil
	}
}

// NewApp builds an empty fiber app from the server settings.
func NewApp(h Http) *fiber.App {
	h.SetDefaults()
	return fiber.New(h.FiberConfig())
}
