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
	"testing"

	"github.com/go-arcade/arcade-menu/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendChild_CopiesOnlyTheAncestorPath(t *testing.T) {
	forest := sampleForest()
	a, f := forest[0], forest[1]
	b, c := a.Children()[0], a.Children()[1]

	out, err := AppendChild(forest, "b", item("n", "", 5))
	require.NoError(t, err)

	assert.NotSame(t, a, out[0], "ancestor a must be rebuilt")
	assert.NotSame(t, b, out[0].Children()[0], "parent b must be rebuilt")
	assert.Same(t, f, out[1], "unrelated root must be shared")
	assert.Same(t, c, out[0].Children()[1], "unrelated sibling must be shared")
	assert.Same(t, b.Children()[0], out[0].Children()[0].Children()[0], "existing child d must be shared")

	assert.Equal(t, []string{"d", "n"}, ids(out[0].Children()[0].Children()))
	assert.Equal(t, "b", out[0].Children()[0].Children()[1].ParentID)

	// the input is untouched
	assert.Equal(t, []string{"d"}, ids(b.Children()))
}

func TestAppendChild_ResortsSiblings(t *testing.T) {
	forest := sampleForest()

	out, err := AppendChild(forest, "a", item("first", "", -1))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "b", "c"}, ids(out[0].Children()))
}

func TestAppendChild_Errors(t *testing.T) {
	forest := sampleForest()

	out, err := AppendChild(forest, "missing", item("n", "", 0))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, forest, out)

	out, err = AppendChild(forest, "e", item("n", "", 0))
	assert.ErrorIs(t, err, ErrNotParent)
	assert.Equal(t, forest, out)
}

func TestReplace_KeepsChildrenAndResorts(t *testing.T) {
	forest := sampleForest()

	renamed := model.NewParent(model.MenuItem{ID: "b", Name: "renamed", ParentID: "a", Order: 9}, nil)
	out, err := Replace(forest, renamed)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "b"}, ids(out[0].Children()))
	b := FindByID(out, "b")
	assert.Equal(t, "renamed", b.Name)
	assert.Equal(t, []string{"d"}, ids(b.Children()))
}

func TestReplace_ParentAnsweredWithPath(t *testing.T) {
	forest := sampleForest()

	flat := model.NewNavigable(model.MenuItem{ID: "b", Name: "renamed", ParentID: "a", Order: 1}, "/b")
	out, err := Replace(forest, flat)
	require.NoError(t, err)

	b := FindByID(out, "b")
	require.NotNil(t, b)
	assert.True(t, b.IsParent())
	assert.Equal(t, "renamed", b.Name)
	assert.Equal(t, []string{"d"}, ids(b.Children()))
	assert.NotNil(t, FindByID(out, "d"))
}

func TestReplace_EmptyParentMayTurnNavigable(t *testing.T) {
	forest := []*model.MenuItem{model.NewParent(model.MenuItem{ID: "x"}, nil)}

	out, err := Replace(forest, model.NewNavigable(model.MenuItem{ID: "x"}, "/x"))
	require.NoError(t, err)
	assert.Equal(t, "/x", out[0].Path())
}

func TestReplace_Root(t *testing.T) {
	forest := sampleForest()

	out, err := Replace(forest, item("f", "", -3))
	require.NoError(t, err)
	assert.Equal(t, []string{"f", "a"}, ids(out))
}

func TestRemove(t *testing.T) {
	forest := sampleForest()

	out, removed, err := Remove(forest, "b")
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "b", removed.ID)
	assert.Equal(t, []string{"a", "c", "f"}, ids(Flatten(out)))

	_, _, err = Remove(forest, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertRoot(t *testing.T) {
	forest := sampleForest()

	out := InsertRoot(forest, item("z", "", 0))
	assert.Equal(t, []string{"a", "z", "f"}, ids(out))
	assert.Len(t, forest, 2)
}
