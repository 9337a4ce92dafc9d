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

// Package tree holds pure functions over menu item forests. None of them
// modify their input; results share untouched nodes with the input.
package tree

import (
	"sort"

	"github.com/go-arcade/arcade-menu/internal/model"
	"github.com/go-arcade/arcade-menu/pkg/log"
)

// DefaultExpandDepth is the number of tree levels open after a fresh load.
const DefaultExpandDepth = 2

// BuildTree 构建菜单树
// Items whose ParentID does not resolve are promoted to roots. Every sibling
// group, roots included, is sorted by Order with ties kept in input order.
func BuildTree(items []*model.MenuItem) []*model.MenuItem {
	byID := make(map[string]*model.MenuItem, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if _, dup := byID[item.ID]; dup {
			log.Warnw("duplicate menu item id ignored", "id", item.ID)
			continue
		}
		byID[item.ID] = item
		ids = append(ids, item.ID)
	}

	childIDs := make(map[string][]string, len(ids))
	var rootIDs []string
	for _, id := range ids {
		item := byID[id]
		if _, ok := byID[item.ParentID]; ok && item.ParentID != id {
			childIDs[item.ParentID] = append(childIDs[item.ParentID], id)
			continue
		}
		if item.ParentID != "" && item.ParentID != id {
			log.Debugw("parent menu item not found, treating as root", "id", id, "parentId", item.ParentID)
		}
		rootIDs = append(rootIDs, id)
	}

	built := make(map[string]bool, len(ids))
	var build func(id string) *model.MenuItem
	build = func(id string) *model.MenuItem {
		built[id] = true
		item := byID[id]
		kids := childIDs[id]
		if len(kids) == 0 {
			if item.IsParent() {
				return item.WithChildren([]*model.MenuItem{})
			}
			return item
		}
		children := make([]*model.MenuItem, 0, len(kids))
		for _, cid := range kids {
			if built[cid] {
				continue
			}
			children = append(children, build(cid))
		}
		return item.WithChildren(SortByOrder(children))
	}

	roots := make([]*model.MenuItem, 0, len(rootIDs))
	for _, id := range rootIDs {
		roots = append(roots, build(id))
	}
	// parent links that form a cycle never reach a root; break the cycle at
	// the first member in input order
	for _, id := range ids {
		if !built[id] {
			log.Warnw("menu item is part of a parent cycle, treating as root", "id", id, "parentId", byID[id].ParentID)
			roots = append(roots, build(id))
		}
	}
	return SortByOrder(roots)
}

// SortByOrder returns a copy of items stably sorted by ascending Order.
func SortByOrder(items []*model.MenuItem) []*model.MenuItem {
	sorted := make([]*model.MenuItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// Flatten lists every node once, parents before their children.
func Flatten(forest []*model.MenuItem) []*model.MenuItem {
	var out []*model.MenuItem
	Walk(forest, func(item *model.MenuItem, _ int) bool {
		out = append(out, item)
		return true
	})
	return out
}

// Walk visits the forest in pre-order. level is 0 for roots. Returning false
// from fn skips the children of that node.
func Walk(forest []*model.MenuItem, fn func(item *model.MenuItem, level int) bool) {
	var walk func(items []*model.MenuItem, level int)
	walk = func(items []*model.MenuItem, level int) {
		for _, item := range items {
			if fn(item, level) {
				walk(item.Children(), level+1)
			}
		}
	}
	walk(forest, 0)
}

// FindByID returns the first node with the given id in depth-first order, or nil.
func FindByID(forest []*model.MenuItem, id string) *model.MenuItem {
	for _, item := range forest {
		if item.ID == id {
			return item
		}
		if found := FindByID(item.Children(), id); found != nil {
			return found
		}
	}
	return nil
}

// PathOf returns the names from a root down to the target, inclusive.
// The result is empty when id is not in the forest.
func PathOf(forest []*model.MenuItem, id string) []string {
	var find func(items []*model.MenuItem, prefix []string) []string
	find = func(items []*model.MenuItem, prefix []string) []string {
		for _, item := range items {
			path := append(prefix[:len(prefix):len(prefix)], item.Name)
			if item.ID == id {
				return path
			}
			if found := find(item.Children(), path); found != nil {
				return found
			}
		}
		return nil
	}
	if path := find(forest, nil); path != nil {
		return path
	}
	return []string{}
}

// CollectIDs returns every id in pre-order.
func CollectIDs(forest []*model.MenuItem) []string {
	items := Flatten(forest)
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// IsFlat reports whether items is a flat list carrying its structure in
// ParentID only: no item has children and at least one names a parent.
func IsFlat(items []*model.MenuItem) bool {
	linked := false
	for _, item := range items {
		if item == nil {
			continue
		}
		if len(item.Children()) > 0 {
			return false
		}
		if item.ParentID != "" {
			linked = true
		}
	}
	return linked
}

// ExpandLevels returns the ids of nodes sitting above the given tree level,
// i.e. roots have level 0 and are included whenever depth > 0.
func ExpandLevels(forest []*model.MenuItem, depth int) []string {
	var ids []string
	Walk(forest, func(item *model.MenuItem, level int) bool {
		if level >= depth {
			return false
		}
		ids = append(ids, item.ID)
		return true
	})
	return ids
}

// Normalize restores the sibling order of an already nested forest, such as
// a hierarchy response, and fills missing parent back-references.
func Normalize(forest []*model.MenuItem) []*model.MenuItem {
	var norm func(items []*model.MenuItem, p *model.MenuItem) []*model.MenuItem
	norm = func(items []*model.MenuItem, p *model.MenuItem) []*model.MenuItem {
		out := make([]*model.MenuItem, 0, len(items))
		for _, item := range items {
			if item == nil {
				continue
			}
			if p != nil {
				item = item.WithParent(p)
			}
			if item.IsParent() {
				item = item.WithChildren(norm(item.Children(), item))
			}
			out = append(out, item)
		}
		return SortByOrder(out)
	}
	return norm(forest, nil)
}
