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
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"

	"github.com/go-arcade/arcade-menu/pkg/id"
)

// ClientConf configures an outbound JSON client.
type ClientConf struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// NewClient returns a resty client that encodes JSON with sonic and stamps a
// request id on every call that does not carry one.
func NewClient(conf ClientConf) *resty.Client {
	c := resty.New().
		SetBaseURL(conf.BaseURL).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)
	if conf.Timeout > 0 {
		c.SetTimeout(conf.Timeout)
	}
	if conf.UserAgent != "" {
		c.SetHeader("User-Agent", conf.UserAgent)
	}
	if len(conf.Headers) > 0 {
		c.SetHeaders(conf.Headers)
	}
	c.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader(id.RequestIDHeader, id.RequestID(r.Header.Get(id.RequestIDHeader)))
		return nil
	})
	return c
}
