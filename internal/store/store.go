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

// Package store owns the client-side copy of a menu hierarchy together with
// its selection and expand/collapse overlay. Every intent commits a new
// immutable State; readers only ever see whole snapshots.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-arcade/arcade-menu/internal/model"
	"github.com/go-arcade/arcade-menu/internal/tree"
	"github.com/go-arcade/arcade-menu/pkg/event"
	"github.com/go-arcade/arcade-menu/pkg/log"
	"github.com/go-arcade/arcade-menu/pkg/safe"
)

var (
	ErrEmptyMenuID    = errors.New("menu id is required")
	ErrParentNotFound = errors.New("parent menu item not found")
	ErrNotParent      = errors.New("menu item cannot have children")
)

// EventCommitted is published with every new snapshot.
const EventCommitted = "store.committed"

// Gateway is the remote side the store talks to.
type Gateway interface {
	GetHierarchy(ctx context.Context, menuID string) ([]*model.MenuItem, error)
	CreateItem(ctx context.Context, input *model.ItemInput) (*model.MenuItem, error)
	CreateChild(ctx context.Context, parentID string, input *model.ItemInput) (*model.MenuItem, error)
	UpdateItem(ctx context.Context, id string, input *model.ItemInput) (*model.MenuItem, error)
	UpdateItemOrder(ctx context.Context, id string, order int) (*model.MenuItem, error)
	DeleteItem(ctx context.Context, id string) error
}

type Store struct {
	gw    Gateway
	bus   *event.EventBus[*State]
	mu    sync.Mutex
	state atomic.Pointer[State]
}

type Option func(*Store)

// WithEventBus shares bus with other components instead of a private one.
func WithEventBus(bus *event.EventBus[*State]) Option {
	return func(s *Store) {
		if bus != nil {
			s.bus = bus
		}
	}
}

func New(gw Gateway, opts ...Option) *Store {
	s := &Store{
		gw:  gw,
		bus: event.NewEventBus[*State](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(initialState())
	return s
}

// Snapshot returns the current state. Callers must treat it as read-only.
func (s *Store) Snapshot() *State {
	return s.state.Load()
}

// Subscribe registers fn for every committed snapshot and returns a func
// that unregisters it. fn runs on the committing goroutine and must not call
// back into the store's intents.
func (s *Store) Subscribe(fn func(*State)) func() {
	return s.bus.RegisterHandler(EventCommitted, event.HandlerFunc[*State](func(e event.Event[*State]) {
		fn(e.Payload)
	}))
}

// Dispatch runs fn on its own goroutine. The channel yields fn's result once.
// Concurrent intents resolve in completion order: the last one to finish
// writes last.
func (s *Store) Dispatch(ctx context.Context, fn func(ctx context.Context) error) <-chan error {
	return safe.Async(func() error {
		return fn(ctx)
	})
}

// commit applies fn to a copy of the current state and publishes the result.
func (s *Store) commit(fn func(st *State)) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.state.Load()
	fn(&next)
	next.Version++
	s.state.Store(&next)
	s.bus.Publish(event.Event[*State]{Name: EventCommitted, Payload: &next})
	return &next
}

// Load replaces the forest with the hierarchy of menuID. On failure the
// previous items are kept and Err carries the message.
func (s *Store) Load(ctx context.Context, menuID string) error {
	menuID = strings.TrimSpace(menuID)
	if menuID == "" {
		return ErrEmptyMenuID
	}
	s.startLoad(menuID)
	return s.fetch(ctx, menuID)
}

// LoadAsync commits the loading state of menuID and fetches it on a
// background goroutine. The returned snapshot already shows Loading; the
// channel yields the result of the fetch.
func (s *Store) LoadAsync(ctx context.Context, menuID string) (*State, <-chan error, error) {
	menuID = strings.TrimSpace(menuID)
	if menuID == "" {
		return nil, nil, ErrEmptyMenuID
	}
	st := s.startLoad(menuID)
	errCh := s.Dispatch(ctx, func(ctx context.Context) error {
		return s.fetch(ctx, menuID)
	})
	return st, errCh, nil
}

func (s *Store) startLoad(menuID string) *State {
	return s.commit(func(st *State) {
		st.MenuID = menuID
		st.begin()
	})
}

func (s *Store) fetch(ctx context.Context, menuID string) error {
	items, err := s.gw.GetHierarchy(ctx, menuID)
	if err != nil {
		log.WithContext(ctx).Warnw("load menu hierarchy failed", "menuId", menuID, "error", err)
		s.commit(func(st *State) { st.fail(err.Error()) })
		return err
	}

	var forest []*model.MenuItem
	if tree.IsFlat(items) {
		forest = tree.BuildTree(items)
	} else {
		forest = tree.Normalize(items)
	}
	st := s.commit(func(st *State) {
		st.setItems(forest)
		st.Expanded = NewExpandSet(tree.ExpandLevels(forest, tree.DefaultExpandDepth)...)
		st.end()
	})
	log.WithContext(ctx).Infow("menu hierarchy loaded", "menuId", menuID, "roots", len(forest), "expanded", st.Expanded.Len())
	return nil
}

// Reload loads the last requested menu again.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx, s.Snapshot().MenuID)
}

// Select sets the selected node. The node is resolved by id against the
// current items; nil or an unknown node clears the selection.
func (s *Store) Select(item *model.MenuItem) {
	s.commit(func(st *State) {
		if item == nil {
			st.Selected = nil
			return
		}
		st.Selected = tree.FindByID(st.Items, item.ID)
	})
}

// SelectByID selects the node with id and reports whether it exists.
func (s *Store) SelectByID(id string) bool {
	st := s.commit(func(st *State) {
		st.Selected = tree.FindByID(st.Items, id)
	})
	return st.Selected != nil
}

func (s *Store) ToggleExpand(id string) {
	s.commit(func(st *State) {
		st.Expanded = st.Expanded.Toggle(id)
	})
}

// ExpandAll opens every node, leaves included.
func (s *Store) ExpandAll() {
	s.commit(func(st *State) {
		st.Expanded = NewExpandSet(tree.CollectIDs(st.Items)...)
	})
}

func (s *Store) CollapseAll() {
	s.commit(func(st *State) {
		st.Expanded = NewExpandSet()
	})
}

// SetExpanded replaces the expanded set.
func (s *Store) SetExpanded(ids []string) {
	s.commit(func(st *State) {
		st.Expanded = NewExpandSet(ids...)
	})
}

func (s *Store) ClearError() {
	s.commit(func(st *State) {
		st.Err = ""
	})
}

// CreateChild creates an item under parentID and inserts the server's
// answer into the forest, opening the parent. A failed call leaves the items
// untouched.
func (s *Store) CreateChild(ctx context.Context, parentID string, input *model.ItemInput) (*model.MenuItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := checkParent(s.Snapshot().Items, parentID); err != nil {
		s.commit(func(st *State) { st.Err = err.Error() })
		return nil, err
	}

	s.commit(func(st *State) { st.begin() })
	child, err := s.gw.CreateChild(ctx, parentID, input)
	if err != nil {
		log.WithContext(ctx).Warnw("create child menu item failed", "parentId", parentID, "error", err)
		s.commit(func(st *State) { st.fail(err.Error()) })
		return nil, err
	}

	var insertErr error
	s.commit(func(st *State) {
		items, err := insertChild(st.Items, parentID, child)
		if err != nil {
			insertErr = err
			st.fail(err.Error())
			return
		}
		st.setItems(items)
		st.Expanded = st.Expanded.With(parentID)
		st.end()
	})
	if insertErr != nil {
		return nil, insertErr
	}
	log.WithContext(ctx).Infow("menu item created", "id", child.ID, "parentId", parentID)
	return child, nil
}

// CreateItem creates an item and inserts it under input.ParentID when that
// parent is loaded, or as a root otherwise. A loaded parent that cannot own
// children is rejected before the call.
func (s *Store) CreateItem(ctx context.Context, input *model.ItemInput) (*model.MenuItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.ParentID != "" {
		if err := checkParent(s.Snapshot().Items, input.ParentID); errors.Is(err, ErrNotParent) {
			s.commit(func(st *State) { st.Err = err.Error() })
			return nil, err
		}
	}

	s.commit(func(st *State) { st.begin() })
	item, err := s.gw.CreateItem(ctx, input)
	if err != nil {
		log.WithContext(ctx).Warnw("create menu item failed", "error", err)
		s.commit(func(st *State) { st.fail(err.Error()) })
		return nil, err
	}

	parentID := input.ParentID
	if parentID == "" {
		parentID = item.ParentID
	}
	var insertErr error
	s.commit(func(st *State) {
		if parentID != "" {
			items, err := insertChild(st.Items, parentID, item)
			switch {
			case err == nil:
				st.setItems(items)
				st.Expanded = st.Expanded.With(parentID)
				st.end()
				return
			case errors.Is(err, ErrNotParent):
				// the server accepted a child the loaded tree cannot hold
				insertErr = err
				st.fail(err.Error())
				return
			}
		}
		st.setItems(tree.InsertRoot(st.Items, item))
		st.end()
	})
	if insertErr != nil {
		log.WithContext(ctx).Warnw("created menu item not inserted, parent cannot have children", "id", item.ID, "parentId", parentID)
		return item, insertErr
	}
	log.WithContext(ctx).Infow("menu item created", "id", item.ID, "parentId", parentID)
	return item, nil
}

// UpdateItem replaces the node with the server's answer. A parent keeps its
// loaded children.
func (s *Store) UpdateItem(ctx context.Context, id string, input *model.ItemInput) (*model.MenuItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.replace(ctx, id, func(ctx context.Context) (*model.MenuItem, error) {
		return s.gw.UpdateItem(ctx, id, input)
	})
}

// Reorder changes the Order of a node and re-sorts its siblings.
func (s *Store) Reorder(ctx context.Context, id string, order int) (*model.MenuItem, error) {
	if order < 0 {
		return nil, &model.ValidationError{Fields: []string{"order must be greater than or equal to 0"}}
	}
	return s.replace(ctx, id, func(ctx context.Context) (*model.MenuItem, error) {
		return s.gw.UpdateItemOrder(ctx, id, order)
	})
}

func (s *Store) replace(ctx context.Context, id string, call func(context.Context) (*model.MenuItem, error)) (*model.MenuItem, error) {
	s.commit(func(st *State) { st.begin() })
	updated, err := call(ctx)
	if err != nil {
		log.WithContext(ctx).Warnw("update menu item failed", "id", id, "error", err)
		s.commit(func(st *State) { st.fail(err.Error()) })
		return nil, err
	}
	if updated.ID == "" {
		updated.ID = id
	}

	s.commit(func(st *State) {
		items, err := tree.Replace(st.Items, updated)
		if err != nil {
			// not loaded here; nothing to refresh
			log.WithContext(ctx).Debugw("updated menu item not in loaded tree", "id", id)
		} else {
			st.setItems(items)
		}
		st.end()
	})
	return updated, nil
}

// DeleteItem removes the node and its subtree. The selection is cleared when
// it was inside the removed subtree.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	s.commit(func(st *State) { st.begin() })
	if err := s.gw.DeleteItem(ctx, id); err != nil {
		log.WithContext(ctx).Warnw("delete menu item failed", "id", id, "error", err)
		s.commit(func(st *State) { st.fail(err.Error()) })
		return err
	}

	s.commit(func(st *State) {
		items, removed, err := tree.Remove(st.Items, id)
		if err == nil {
			st.setItems(items)
			st.Expanded = st.Expanded.Without(tree.CollectIDs([]*model.MenuItem{removed})...)
		}
		st.end()
	})
	log.WithContext(ctx).Infow("menu item deleted", "id", id)
	return nil
}

func checkParent(items []*model.MenuItem, parentID string) error {
	p := tree.FindByID(items, parentID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrParentNotFound, parentID)
	}
	if !p.IsParent() {
		return fmt.Errorf("%w: %s", ErrNotParent, parentID)
	}
	return nil
}

func insertChild(items []*model.MenuItem, parentID string, child *model.MenuItem) ([]*model.MenuItem, error) {
	if err := checkParent(items, parentID); err != nil {
		return nil, err
	}
	return tree.AppendChild(items, parentID, child)
}
