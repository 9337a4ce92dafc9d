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

package store

import (
	"sort"

	"github.com/bytedance/sonic"

	"github.com/go-arcade/arcade-menu/internal/model"
	"github.com/go-arcade/arcade-menu/internal/tree"
)

// ExpandSet is an immutable set of expanded item ids. Methods that change
// membership return a new set.
type ExpandSet struct {
	ids map[string]struct{}
}

func NewExpandSet(ids ...string) ExpandSet {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return ExpandSet{ids: m}
}

func (s ExpandSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s ExpandSet) Len() int {
	return len(s.ids)
}

// IDs returns the members in sorted order.
func (s ExpandSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Toggle removes id when present, else adds it.
func (s ExpandSet) Toggle(id string) ExpandSet {
	m := s.clone()
	if _, ok := m[id]; ok {
		delete(m, id)
	} else {
		m[id] = struct{}{}
	}
	return ExpandSet{ids: m}
}

func (s ExpandSet) With(id string) ExpandSet {
	if s.Has(id) {
		return s
	}
	m := s.clone()
	m[id] = struct{}{}
	return ExpandSet{ids: m}
}

func (s ExpandSet) Without(ids ...string) ExpandSet {
	m := s.clone()
	for _, id := range ids {
		delete(m, id)
	}
	return ExpandSet{ids: m}
}

func (s ExpandSet) clone() map[string]struct{} {
	m := make(map[string]struct{}, len(s.ids)+1)
	for id := range s.ids {
		m[id] = struct{}{}
	}
	return m
}

func (s ExpandSet) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(s.IDs())
}

func (s *ExpandSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := sonic.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewExpandSet(ids...)
	return nil
}

// State is one committed snapshot of the store. A *State handed out by the
// store is never modified afterwards.
type State struct {
	MenuID   string            `json:"menuId"`
	Items    []*model.MenuItem `json:"items"`
	Selected *model.MenuItem   `json:"selected"`
	Expanded ExpandSet         `json:"expanded"`
	Loading  bool              `json:"loading"`
	Err      string            `json:"error,omitempty"`
	Version  uint64            `json:"version"`

	// requests in flight; Loading mirrors pending > 0
	pending int
}

func initialState() *State {
	return &State{
		Items:    []*model.MenuItem{},
		Expanded: NewExpandSet(),
	}
}

// IsExpanded reports whether the node with id is open.
func (s *State) IsExpanded(id string) bool {
	return s.Expanded.Has(id)
}

// begin marks a request as started and clears the previous error.
func (s *State) begin() {
	s.pending++
	s.Loading = true
	s.Err = ""
}

func (s *State) end() {
	if s.pending > 0 {
		s.pending--
	}
	s.Loading = s.pending > 0
}

func (s *State) fail(msg string) {
	s.end()
	s.Err = msg
}

// setItems replaces the forest and re-points Selected at the node with the
// same id, clearing it when that node is gone.
func (s *State) setItems(items []*model.MenuItem) {
	s.Items = items
	if s.Selected != nil {
		s.Selected = tree.FindByID(items, s.Selected.ID)
	}
}
