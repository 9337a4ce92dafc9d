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
	"github.com/bytedance/sonic"
)

// Menu 菜单集合（一个菜单下挂一棵菜单项树）
type Menu struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// Kind identifies which of the two item shapes a MenuItem carries.
type Kind int

const (
	// KindParent items own an ordered (possibly empty) children sequence.
	KindParent Kind = iota
	// KindNavigable items carry a route path and never have children.
	KindNavigable
)

func (k Kind) String() string {
	switch k {
	case KindNavigable:
		return "navigable"
	case KindParent:
		return "parent"
	default:
		return "unknown"
	}
}

// shape is the closed set of item variants. Only navigable and parent implement it.
type shape interface {
	kind() Kind
}

type navigable struct {
	path string
}

func (navigable) kind() Kind { return KindNavigable }

type parent struct {
	children []*MenuItem
}

func (parent) kind() Kind { return KindParent }

// MenuItem 菜单项
//
// A MenuItem is immutable once built: every change produces a new value, so
// snapshots holding the old pointer never observe a mutation.
type MenuItem struct {
	ID                 string
	Name               string
	Code               string
	Depth              int
	Order              int
	IsActive           bool
	Icon               string
	ParentID           string
	ParentName         string
	MenuID             string
	RequiredPermission string
	HasNotification    bool

	shape shape
}

// NewNavigable builds a leaf item that links to path.
func NewNavigable(base MenuItem, path string) *MenuItem {
	base.shape = navigable{path: path}
	return &base
}

// NewParent builds an item that owns children. The slice is retained as is.
func NewParent(base MenuItem, children []*MenuItem) *MenuItem {
	if children == nil {
		children = []*MenuItem{}
	}
	base.shape = parent{children: children}
	return &base
}

// Kind reports the item variant. A zero MenuItem is an empty parent.
func (m *MenuItem) Kind() Kind {
	if m.shape == nil {
		return KindParent
	}
	return m.shape.kind()
}

func (m *MenuItem) IsParent() bool {
	return m.Kind() == KindParent
}

// Path returns the route of a navigable item, empty for parents.
func (m *MenuItem) Path() string {
	if n, ok := m.shape.(navigable); ok {
		return n.path
	}
	return ""
}

// Children returns the child sequence of a parent item, nil for navigable items.
// The returned slice is shared with the item and must not be modified.
func (m *MenuItem) Children() []*MenuItem {
	switch s := m.shape.(type) {
	case parent:
		return s.children
	case nil:
		return []*MenuItem{}
	default:
		return nil
	}
}

// WithChildren returns a copy of m as a parent item owning children.
func (m *MenuItem) WithChildren(children []*MenuItem) *MenuItem {
	base := *m
	return NewParent(base, children)
}

// WithParent returns a copy of m attached to p. Fields the server already
// filled in are kept.
func (m *MenuItem) WithParent(p *MenuItem) *MenuItem {
	c := *m
	if c.ParentID == "" {
		c.ParentID = p.ID
	}
	if c.ParentName == "" {
		c.ParentName = p.Name
	}
	return &c
}

// menuItemJSON is the wire form of MenuItem. Children is a pointer so that an
// explicit empty array can be told apart from an absent key.
type menuItemJSON struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Code               string       `json:"code,omitempty"`
	Depth              int          `json:"depth"`
	Order              int          `json:"order"`
	IsActive           bool         `json:"isActive"`
	Icon               string       `json:"icon,omitempty"`
	ParentID           string       `json:"parentId,omitempty"`
	ParentName         string       `json:"parentName,omitempty"`
	MenuID             string       `json:"menuId,omitempty"`
	RequiredPermission string       `json:"requiredPermission,omitempty"`
	HasNotification    bool         `json:"hasNotification,omitempty"`
	Path               string       `json:"path,omitempty"`
	Children           *[]*MenuItem `json:"children,omitempty"`
}

func (m *MenuItem) MarshalJSON() ([]byte, error) {
	w := menuItemJSON{
		ID:                 m.ID,
		Name:               m.Name,
		Code:               m.Code,
		Depth:              m.Depth,
		Order:              m.Order,
		IsActive:           m.IsActive,
		Icon:               m.Icon,
		ParentID:           m.ParentID,
		ParentName:         m.ParentName,
		MenuID:             m.MenuID,
		RequiredPermission: m.RequiredPermission,
		HasNotification:    m.HasNotification,
	}
	if m.IsParent() {
		children := m.Children()
		w.Children = &children
	} else {
		w.Path = m.Path()
	}
	return sonic.Marshal(w)
}

// UnmarshalJSON picks the variant from the payload: a children key makes a
// parent, otherwise a non-empty path makes a navigable item, otherwise the
// item is an empty parent.
func (m *MenuItem) UnmarshalJSON(data []byte) error {
	var w menuItemJSON
	if err := sonic.Unmarshal(data, &w); err != nil {
		return err
	}
	base := MenuItem{
		ID:                 w.ID,
		Name:               w.Name,
		Code:               w.Code,
		Depth:              w.Depth,
		Order:              w.Order,
		IsActive:           w.IsActive,
		Icon:               w.Icon,
		ParentID:           w.ParentID,
		ParentName:         w.ParentName,
		MenuID:             w.MenuID,
		RequiredPermission: w.RequiredPermission,
		HasNotification:    w.HasNotification,
	}
	switch {
	case w.Children != nil:
		*m = *NewParent(base, *w.Children)
	case w.Path != "":
		*m = *NewNavigable(base, w.Path)
	default:
		*m = *NewParent(base, nil)
	}
	return nil
}
