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

package tree

import (
	"errors"
	"fmt"

	"github.com/go-arcade/arcade-menu/internal/model"
)

var (
	ErrNotFound  = errors.New("menu item not found")
	ErrNotParent = errors.New("menu item cannot have children")
)

// UpdateFunc rewrites a single node. Returning nil removes the node.
type UpdateFunc func(item *model.MenuItem) (*model.MenuItem, error)

// siblingFunc rewrites the sibling group holding the matched node at index i.
type siblingFunc func(siblings []*model.MenuItem, i int) ([]*model.MenuItem, error)

// Update applies fn to the first node with the given id. Only the ancestors of
// that node are copied; every other branch keeps its pointer identity. On
// error or when id is missing the original forest is returned.
func Update(forest []*model.MenuItem, id string, fn UpdateFunc) ([]*model.MenuItem, error) {
	return rewrite(forest, id, func(siblings []*model.MenuItem, i int) ([]*model.MenuItem, error) {
		repl, err := fn(siblings[i])
		if err != nil {
			return nil, err
		}
		return splice(siblings, i, repl), nil
	})
}

func rewrite(forest []*model.MenuItem, id string, fn siblingFunc) ([]*model.MenuItem, error) {
	out, found, err := rewriteLevel(forest, id, fn)
	if err != nil {
		return forest, err
	}
	if !found {
		return forest, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return out, nil
}

func rewriteLevel(items []*model.MenuItem, id string, fn siblingFunc) ([]*model.MenuItem, bool, error) {
	for i, item := range items {
		if item.ID == id {
			out, err := fn(items, i)
			return out, true, err
		}
		children := item.Children()
		if len(children) == 0 {
			continue
		}
		kids, found, err := rewriteLevel(children, id, fn)
		if err != nil {
			return nil, true, err
		}
		if found {
			return splice(items, i, item.WithChildren(kids)), true, nil
		}
	}
	return items, false, nil
}

// splice copies items with position i replaced by repl, or dropped when repl is nil.
func splice(items []*model.MenuItem, i int, repl *model.MenuItem) []*model.MenuItem {
	if repl == nil {
		out := make([]*model.MenuItem, 0, len(items)-1)
		out = append(out, items[:i]...)
		return append(out, items[i+1:]...)
	}
	out := make([]*model.MenuItem, len(items))
	copy(out, items)
	out[i] = repl
	return out
}

// AppendChild adds child under the node parentID and re-sorts that sibling group.
func AppendChild(forest []*model.MenuItem, parentID string, child *model.MenuItem) ([]*model.MenuItem, error) {
	return Update(forest, parentID, func(p *model.MenuItem) (*model.MenuItem, error) {
		if !p.IsParent() {
			return nil, fmt.Errorf("%w: %s", ErrNotParent, parentID)
		}
		kids := make([]*model.MenuItem, 0, len(p.Children())+1)
		kids = append(kids, p.Children()...)
		kids = append(kids, child.WithParent(p))
		return p.WithChildren(SortByOrder(kids)), nil
	})
}

// InsertRoot adds item as a root and re-sorts the roots.
func InsertRoot(forest []*model.MenuItem, item *model.MenuItem) []*model.MenuItem {
	out := make([]*model.MenuItem, 0, len(forest)+1)
	out = append(out, forest...)
	return SortByOrder(append(out, item))
}

// Replace swaps the node with the same id as item and re-sorts its siblings,
// since Order may have changed. A parent keeps its current children when the
// replacement carries none: update responses are not nested, and a parent
// that also has a path decodes as navigable.
func Replace(forest []*model.MenuItem, item *model.MenuItem) ([]*model.MenuItem, error) {
	return rewrite(forest, item.ID, func(siblings []*model.MenuItem, i int) ([]*model.MenuItem, error) {
		old := siblings[i]
		repl := item
		if keepsChildren(old, item) {
			repl = item.WithChildren(old.Children())
		}
		return SortByOrder(splice(siblings, i, repl)), nil
	})
}

// keepsChildren reports whether repl must inherit the children of old. An
// empty parent may turn navigable.
func keepsChildren(old, repl *model.MenuItem) bool {
	if !old.IsParent() || len(repl.Children()) > 0 {
		return false
	}
	return repl.IsParent() || len(old.Children()) > 0
}

// Remove drops the node and its subtree, returning the removed node.
func Remove(forest []*model.MenuItem, id string) ([]*model.MenuItem, *model.MenuItem, error) {
	var removed *model.MenuItem
	out, err := Update(forest, id, func(old *model.MenuItem) (*model.MenuItem, error) {
		removed = old
		return nil, nil
	})
	if err != nil {
		return forest, nil, err
	}
	return out, removed, nil
}
