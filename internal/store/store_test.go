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
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arcade/arcade-menu/internal/model"
	"github.com/go-arcade/arcade-menu/internal/tree"
)

// fakeGateway returns canned answers and records the calls it receives.
type fakeGateway struct {
	mu sync.Mutex

	hierarchy []*model.MenuItem
	created   *model.MenuItem
	updated   *model.MenuItem
	err       error

	calls []string
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) GetHierarchy(_ context.Context, menuID string) ([]*model.MenuItem, error) {
	f.record("hierarchy:" + menuID)
	return f.hierarchy, f.err
}

func (f *fakeGateway) CreateItem(_ context.Context, _ *model.ItemInput) (*model.MenuItem, error) {
	f.record("create")
	return f.created, f.err
}

func (f *fakeGateway) CreateChild(_ context.Context, parentID string, _ *model.ItemInput) (*model.MenuItem, error) {
	f.record("create-child:" + parentID)
	return f.created, f.err
}

func (f *fakeGateway) UpdateItem(_ context.Context, id string, _ *model.ItemInput) (*model.MenuItem, error) {
	f.record("update:" + id)
	return f.updated, f.err
}

func (f *fakeGateway) UpdateItemOrder(_ context.Context, id string, _ int) (*model.MenuItem, error) {
	f.record("order:" + id)
	return f.updated, f.err
}

func (f *fakeGateway) DeleteItem(_ context.Context, id string) error {
	f.record("delete:" + id)
	return f.err
}

func parentItem(id string, order int, children ...*model.MenuItem) *model.MenuItem {
	return model.NewParent(model.MenuItem{ID: id, Name: "name-" + id, Order: order}, children)
}

func navItem(id string, order int) *model.MenuItem {
	return model.NewNavigable(model.MenuItem{ID: id, Name: "name-" + id, Order: order}, "/"+id)
}

// hierarchy:
//
//	r (level 0)
//	└── a (1)
//	    └── b (2)
//	        └── c (3)
//	    l (nav, 2)
//	s (0)
func hierarchy() []*model.MenuItem {
	return []*model.MenuItem{
		parentItem("r", 0,
			parentItem("a", 0,
				parentItem("b", 1, parentItem("c", 0)),
				navItem("l", 0),
			),
		),
		parentItem("s", 1),
	}
}

func loadedStore(t *testing.T) (*Store, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{hierarchy: hierarchy()}
	s := New(gw)
	require.NoError(t, s.Load(context.Background(), "m1"))
	gw.calls = nil
	return s, gw
}

func TestLoad_ExpandsFirstTwoLevels(t *testing.T) {
	s, _ := loadedStore(t)
	st := s.Snapshot()

	assert.Equal(t, "m1", st.MenuID)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
	assert.True(t, st.IsExpanded("r"))
	assert.True(t, st.IsExpanded("s"))
	assert.True(t, st.IsExpanded("a"))
	assert.False(t, st.IsExpanded("b"))
	assert.False(t, st.IsExpanded("c"), "depth-3 node must start collapsed")
	assert.Nil(t, st.Selected)
}

func TestLoad_SortsChildren(t *testing.T) {
	s, _ := loadedStore(t)
	a := tree.FindByID(s.Snapshot().Items, "a")
	require.NotNil(t, a)
	assert.Equal(t, "l", a.Children()[0].ID)
	assert.Equal(t, "b", a.Children()[1].ID)
	assert.Equal(t, "a", a.Children()[0].ParentID)
}

func TestLoad_FlatResponseIsBuilt(t *testing.T) {
	gw := &fakeGateway{hierarchy: []*model.MenuItem{
		model.NewNavigable(model.MenuItem{ID: "k", Name: "Kid", ParentID: "top", Order: 0}, "/kid"),
		model.NewParent(model.MenuItem{ID: "top", Name: "Top"}, nil),
		model.NewNavigable(model.MenuItem{ID: "z", Name: "Orphan", ParentID: "gone", Order: 1}, "/z"),
	}}
	s := New(gw)
	require.NoError(t, s.Load(context.Background(), "m1"))

	st := s.Snapshot()
	require.Len(t, st.Items, 2)
	assert.Equal(t, "top", st.Items[0].ID)
	assert.Equal(t, "z", st.Items[1].ID)
	assert.Equal(t, []string{"Top", "Kid"}, tree.PathOf(st.Items, "k"))
	assert.True(t, st.IsExpanded("top"))
}

func TestLoad_EmptyMenuID(t *testing.T) {
	gw := &fakeGateway{}
	s := New(gw)
	before := s.Snapshot()

	assert.ErrorIs(t, s.Load(context.Background(), "  "), ErrEmptyMenuID)
	assert.Same(t, before, s.Snapshot())
	assert.Empty(t, gw.calls)
}

func TestLoad_FailureKeepsItems(t *testing.T) {
	s, gw := loadedStore(t)
	items := s.Snapshot().Items
	gw.err = errors.New("boom")

	require.EqualError(t, s.Load(context.Background(), "m2"), "boom")
	st := s.Snapshot()
	assert.Equal(t, "boom", st.Err)
	assert.False(t, st.Loading)
	assert.Equal(t, items, st.Items)
}

func TestLoad_ClearsErrorOnStart(t *testing.T) {
	s, gw := loadedStore(t)
	gw.err = errors.New("boom")
	_ = s.Load(context.Background(), "m1")

	gw.err = nil
	var seen []*State
	unsubscribe := s.Subscribe(func(st *State) { seen = append(seen, st) })
	defer unsubscribe()
	require.NoError(t, s.Load(context.Background(), "m1"))

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.Empty(t, seen[0].Err)
	assert.False(t, seen[1].Loading)
}

func TestLoad_RepointsSelection(t *testing.T) {
	s, gw := loadedStore(t)
	require.True(t, s.SelectByID("b"))
	old := s.Snapshot().Selected

	gw.hierarchy = hierarchy()
	require.NoError(t, s.Load(context.Background(), "m1"))
	st := s.Snapshot()
	require.NotNil(t, st.Selected)
	assert.NotSame(t, old, st.Selected)
	assert.Same(t, tree.FindByID(st.Items, "b"), st.Selected)

	gw.hierarchy = []*model.MenuItem{parentItem("s", 0)}
	require.NoError(t, s.Load(context.Background(), "m1"))
	assert.Nil(t, s.Snapshot().Selected)
}

func TestToggleExpand_Involution(t *testing.T) {
	s, _ := loadedStore(t)
	before := s.Snapshot().Expanded.IDs()

	s.ToggleExpand("c")
	assert.True(t, s.Snapshot().IsExpanded("c"))
	s.ToggleExpand("c")
	assert.Equal(t, before, s.Snapshot().Expanded.IDs())

	s.ToggleExpand("r")
	s.ToggleExpand("r")
	assert.Equal(t, before, s.Snapshot().Expanded.IDs())
}

func TestExpandAllCollapseAll(t *testing.T) {
	s, _ := loadedStore(t)

	s.ExpandAll()
	assert.Equal(t, []string{"a", "b", "c", "l", "r", "s"}, s.Snapshot().Expanded.IDs())

	s.CollapseAll()
	assert.Equal(t, 0, s.Snapshot().Expanded.Len())

	s.SetExpanded([]string{"b", "zz"})
	assert.Equal(t, []string{"b", "zz"}, s.Snapshot().Expanded.IDs())
}

func TestSelect(t *testing.T) {
	s, _ := loadedStore(t)

	s.Select(navItem("l", 0))
	assert.Same(t, tree.FindByID(s.Snapshot().Items, "l"), s.Snapshot().Selected)

	s.Select(nil)
	assert.Nil(t, s.Snapshot().Selected)

	assert.False(t, s.SelectByID("missing"))
	assert.Nil(t, s.Snapshot().Selected)
}

func TestCreateChild_Success(t *testing.T) {
	s, gw := loadedStore(t)
	before := s.Snapshot()
	gw.created = navItem("n", 1)

	child, err := s.CreateChild(context.Background(), "b", &model.ItemInput{Name: "New", Order: 1})
	require.NoError(t, err)
	assert.Equal(t, "n", child.ID)

	st := s.Snapshot()
	b := tree.FindByID(st.Items, "b")
	assert.Equal(t, []string{"c", "n"}, []string{b.Children()[0].ID, b.Children()[1].ID})
	assert.Equal(t, "b", b.Children()[1].ParentID)
	assert.True(t, st.IsExpanded("b"))
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)

	// unrelated branch untouched, ancestors copied
	assert.Same(t, before.Items[1], st.Items[1])
	assert.NotSame(t, before.Items[0], st.Items[0])
}

func TestCreateChild_SortsByOrder(t *testing.T) {
	s, gw := loadedStore(t)
	gw.created = navItem("first", -1)

	_, err := s.CreateChild(context.Background(), "a", &model.ItemInput{Name: "First"})
	require.NoError(t, err)
	a := tree.FindByID(s.Snapshot().Items, "a")
	assert.Equal(t, "first", a.Children()[0].ID)
}

func TestCreateChild_GatewayFailure(t *testing.T) {
	s, gw := loadedStore(t)
	before := s.Snapshot()
	gw.err = errors.New("name taken")

	_, err := s.CreateChild(context.Background(), "b", &model.ItemInput{Name: "New"})
	require.Error(t, err)

	st := s.Snapshot()
	assert.Equal(t, "name taken", st.Err)
	assert.False(t, st.Loading)
	assert.Equal(t, before.Items, st.Items)
	assert.False(t, st.IsExpanded("b"))
}

func TestCreateChild_BadParent(t *testing.T) {
	s, gw := loadedStore(t)

	_, err := s.CreateChild(context.Background(), "l", &model.ItemInput{Name: "New"})
	assert.ErrorIs(t, err, ErrNotParent)
	_, err = s.CreateChild(context.Background(), "missing", &model.ItemInput{Name: "New"})
	assert.ErrorIs(t, err, ErrParentNotFound)

	assert.Empty(t, gw.calls)
	assert.NotEmpty(t, s.Snapshot().Err)
}

func TestCreateChild_InvalidInput(t *testing.T) {
	s, gw := loadedStore(t)
	before := s.Snapshot()

	_, err := s.CreateChild(context.Background(), "b", &model.ItemInput{Name: "  "})
	assert.EqualError(t, err, "name is required")
	assert.Empty(t, gw.calls)
	assert.Same(t, before, s.Snapshot())
}

func TestCreateItem(t *testing.T) {
	s, gw := loadedStore(t)

	gw.created = parentItem("root2", 5)
	_, err := s.CreateItem(context.Background(), &model.ItemInput{Name: "Root"})
	require.NoError(t, err)
	items := s.Snapshot().Items
	assert.Equal(t, "root2", items[len(items)-1].ID)

	gw.created = navItem("under-s", 0)
	_, err = s.CreateItem(context.Background(), &model.ItemInput{Name: "Under", ParentID: "s"})
	require.NoError(t, err)
	st := s.Snapshot()
	assert.Equal(t, "s", tree.FindByID(st.Items, "under-s").ParentID)
	assert.True(t, st.IsExpanded("s"))
}

func TestCreateItem_NavigableParent(t *testing.T) {
	s, gw := loadedStore(t)
	before := s.Snapshot().Items

	_, err := s.CreateItem(context.Background(), &model.ItemInput{Name: "Under", ParentID: "l"})
	require.ErrorIs(t, err, ErrNotParent)
	assert.Empty(t, gw.calls)
	st := s.Snapshot()
	assert.Equal(t, "menu item cannot have children: l", st.Err)
	assert.Equal(t, before, st.Items)
}

func TestCreateItem_ServerParentIsNavigable(t *testing.T) {
	s, gw := loadedStore(t)
	before := s.Snapshot().Items
	gw.created = model.NewNavigable(model.MenuItem{ID: "x", Name: "X", ParentID: "l"}, "/x")

	item, err := s.CreateItem(context.Background(), &model.ItemInput{Name: "X"})
	require.ErrorIs(t, err, ErrNotParent)
	require.NotNil(t, item)

	st := s.Snapshot()
	assert.False(t, st.Loading)
	assert.NotEmpty(t, st.Err)
	assert.Nil(t, tree.FindByID(st.Items, "x"))
	assert.Equal(t, before, st.Items)
}

func TestUpdateItem_RefreshesSelectionAndKeepsChildren(t *testing.T) {
	s, gw := loadedStore(t)
	require.True(t, s.SelectByID("b"))
	gw.updated = model.NewParent(model.MenuItem{ID: "b", Name: "Renamed", Order: 1}, nil)

	_, err := s.UpdateItem(context.Background(), "b", &model.ItemInput{Name: "Renamed", Order: 1})
	require.NoError(t, err)

	st := s.Snapshot()
	require.NotNil(t, st.Selected)
	assert.Equal(t, "Renamed", st.Selected.Name)
	assert.Equal(t, "c", st.Selected.Children()[0].ID)
	assert.Same(t, tree.FindByID(st.Items, "b"), st.Selected)
}

func TestUpdateItem_ParentAnsweredWithPathKeepsSubtree(t *testing.T) {
	s, gw := loadedStore(t)
	require.True(t, s.SelectByID("c"))
	gw.updated = model.NewNavigable(model.MenuItem{ID: "a", Name: "renamed"}, "/a")

	_, err := s.UpdateItem(context.Background(), "a", &model.ItemInput{Name: "renamed", Path: "/a"})
	require.NoError(t, err)

	st := s.Snapshot()
	a := tree.FindByID(st.Items, "a")
	require.NotNil(t, a)
	assert.True(t, a.IsParent())
	assert.Equal(t, "renamed", a.Name)
	assert.Len(t, a.Children(), 2)
	assert.NotNil(t, tree.FindByID(st.Items, "b"))
	assert.Same(t, tree.FindByID(st.Items, "c"), st.Selected)
}

func TestReorder(t *testing.T) {
	s, gw := loadedStore(t)
	gw.updated = model.NewParent(model.MenuItem{ID: "s", Name: "name-s", Order: -1}, nil)

	_, err := s.Reorder(context.Background(), "s", 0)
	require.NoError(t, err)
	assert.Equal(t, "s", s.Snapshot().Items[0].ID)
	assert.Equal(t, []string{"order:s"}, gw.calls)
}

func TestReorder_NegativeOrder(t *testing.T) {
	s, gw := loadedStore(t)
	before := s.Snapshot()

	_, err := s.Reorder(context.Background(), "s", -1)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, gw.calls)
	assert.Same(t, before, s.Snapshot())
}

func TestDeleteItem_ClearsSelectionInSubtree(t *testing.T) {
	s, _ := loadedStore(t)
	s.ExpandAll()
	require.True(t, s.SelectByID("c"))

	require.NoError(t, s.DeleteItem(context.Background(), "b"))
	st := s.Snapshot()
	assert.Nil(t, tree.FindByID(st.Items, "b"))
	assert.Nil(t, tree.FindByID(st.Items, "c"))
	assert.Nil(t, st.Selected)
	assert.False(t, st.IsExpanded("b"))
	assert.False(t, st.IsExpanded("c"))
	assert.True(t, st.IsExpanded("a"))
}

func TestDeleteItem_Failure(t *testing.T) {
	s, gw := loadedStore(t)
	gw.err = errors.New("API Error: 500 Internal Server Error")

	require.Error(t, s.DeleteItem(context.Background(), "b"))
	st := s.Snapshot()
	assert.NotNil(t, tree.FindByID(st.Items, "b"))
	assert.Equal(t, "API Error: 500 Internal Server Error", st.Err)
}

func TestClearError(t *testing.T) {
	s, gw := loadedStore(t)
	gw.err = errors.New("boom")
	_ = s.Load(context.Background(), "m1")
	require.NotEmpty(t, s.Snapshot().Err)

	s.ClearError()
	assert.Empty(t, s.Snapshot().Err)
}

func TestLoadAsync(t *testing.T) {
	s, gw := loadedStore(t)
	gw.hierarchy = []*model.MenuItem{parentItem("only", 0)}

	st, errCh, err := s.LoadAsync(context.Background(), " m2 ")
	require.NoError(t, err)
	assert.True(t, st.Loading)
	assert.Equal(t, "m2", st.MenuID)

	require.NoError(t, <-errCh)
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, "only", snap.Items[0].ID)

	_, _, err = s.LoadAsync(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyMenuID)
}

func TestDispatch(t *testing.T) {
	s, gw := loadedStore(t)
	gw.hierarchy = []*model.MenuItem{parentItem("only", 0)}

	err := <-s.Dispatch(context.Background(), func(ctx context.Context) error {
		return s.Load(ctx, "m9")
	})
	require.NoError(t, err)
	assert.Equal(t, "only", s.Snapshot().Items[0].ID)
}

func TestVersionIncreasesAndSnapshotsAreImmutable(t *testing.T) {
	s, _ := loadedStore(t)
	first := s.Snapshot()
	firstExpanded := first.Expanded.IDs()

	s.CollapseAll()
	second := s.Snapshot()

	assert.Greater(t, second.Version, first.Version)
	assert.Equal(t, firstExpanded, first.Expanded.IDs())
}

func TestState_JSON(t *testing.T) {
	s, _ := loadedStore(t)
	s.SetExpanded([]string{"s", "r"})

	data, err := sonic.Marshal(s.Snapshot())
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, sonic.Unmarshal(data, &out))
	assert.Equal(t, []any{"r", "s"}, out["expanded"])
	assert.Equal(t, "m1", out["menuId"])
	assert.NotContains(t, out, "error")
}
