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
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/go-arcade/arcade-menu/pkg/log"
)

type ResponseErr struct {
	ErrCode int    `json:"code"`
	ErrMsg  any    `json:"errMsg"`
	Path    string `json:"path,omitempty"`
}

// WithRepErr writes a failure envelope with the given HTTP status.
func WithRepErr(c *fiber.Ctx, status int, code *Response, errMsg string) error {
	if errMsg == "" {
		errMsg = code.Msg
	}
	return c.Status(status).JSON(ResponseErr{
		ErrCode: code.Code,
		ErrMsg:  errMsg,
		Path:    c.Path(),
	})
}

// ErrorHandler renders errors that escape the handlers, including fiber's own 404/405.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return WithRepErr(c, fe.Code, NotFound, "")
		case fiber.StatusBadRequest:
			return WithRepErr(c, fe.Code, BadRequest, fe.Message)
		default:
			return WithRepErr(c, fe.Code, Failed, fe.Message)
		}
	}
	log.Errorw("unhandled request error", "path", c.Path(), "error", err)
	return WithRepErr(c, fiber.StatusInternalServerError, InternalError, "")
}
