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

package model

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ItemInput 创建/更新菜单项的请求体
type ItemInput struct {
	Name               string `json:"name" validate:"required,max=100"`
	Code               string `json:"code,omitempty" validate:"omitempty,max=64"`
	Path               string `json:"path,omitempty" validate:"omitempty,max=255"`
	Icon               string `json:"icon,omitempty" validate:"omitempty,max=64"`
	IsActive           bool   `json:"isActive"`
	Order              int    `json:"order" validate:"gte=0"`
	ParentID           string `json:"parentId,omitempty"`
	MenuID             string `json:"menuId,omitempty"`
	RequiredPermission string `json:"requiredPermission,omitempty" validate:"omitempty,max=128"`
}

// Envelope is the {success, message, data} wrapper used by every menu API response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidationError lists every field of an ItemInput that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, "; ")
}

// Validate checks the input the way the create-child form does before submitting.
func (in *ItemInput) Validate() error {
	if in == nil {
		return &ValidationError{Fields: []string{"menu item input is required"}}
	}
	in.Name = strings.TrimSpace(in.Name)
	err := getValidator().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &ValidationError{Fields: msgs}
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
