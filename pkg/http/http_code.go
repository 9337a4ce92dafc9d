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

// Success is the code of every successful reply.
var Success = code(200, "Request Success")

// generic failures
var (
	Failed                        = code(500, "Request failed")
	BadRequest                    = code(4000, "Bad request")
	NotFound                      = code(4004, "Not found")
	InternalError                 = code(5000, "Internal error, please contact the administrator")
	RequestParameterParsingFailed = code(5001, "Request parameter parsing failed")
)

// menu and menu item failures
var (
	MenuIdIsEmpty        = code(5002, "Menu id is empty")
	MenuItemNotFound     = code(4101, "Menu item does not exist")
	MenuItemNotParent    = code(4102, "Menu item cannot have children")
	MenuItemInvalidInput = code(4103, "Menu item input is invalid")
)

// upstream menu service failures
var (
	UpstreamUnavailable = code(5021, "Menu service is unavailable")
	UpstreamRejected    = code(5022, "Menu service rejected the request")
)

func code(c int, msg string) *Response {
	return &Response{Code: c, Msg: msg}
}
