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

package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/go-arcade/arcade-menu/pkg/log"
)

// excluded paths are matched exactly, or by prefix when they end in "/*".
var excludedPaths = []string{
	"/health",
	"/metrics",
}

func skipAccessLog(path string) bool {
	for _, rule := range excludedPaths {
		if prefix, ok := strings.CutSuffix(rule, "/*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		} else if path == rule {
			return true
		}
	}
	return false
}

// AccessLogMiddleware logs one structured line per request. It is a no-op
// when enabled is false.
func AccessLogMiddleware(enabled bool) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		if skipAccessLog(c.Path()) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		fields := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"ip", c.IP(),
			"latency", time.Since(start).String(),
		}
		if q := string(c.Request().URI().QueryString()); q != "" {
			fields = append(fields, "query", q)
		}
		if rid, ok := c.Locals(RequestIDKey).(string); ok {
			fields = append(fields, RequestIDKey, rid)
		}
		if err != nil {
			fields = append(fields, "error", err.Error())
		}
		log.WithContext(c.UserContext()).Infow("HTTP request", fields...)
		return err
	}
}
