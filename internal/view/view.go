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

// Package view renders store snapshots as terminal text.
package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/go-arcade/arcade-menu/internal/model"
	"github.com/go-arcade/arcade-menu/internal/store"
	"github.com/go-arcade/arcade-menu/internal/tree"
)

type styles struct {
	branch    lipgloss.Style
	indicator lipgloss.Style
	name      lipgloss.Style
	selected  lipgloss.Style
	path      lipgloss.Style
	inactive  lipgloss.Style
	label     lipgloss.Style
	err       lipgloss.Style
}

// Renderer turns snapshots into text styled for the terminal behind w.
type Renderer struct {
	styles styles
}

// NewRenderer detects the color profile of w. plain forces output without
// escape sequences.
func NewRenderer(w io.Writer, plain bool) *Renderer {
	r := lipgloss.NewRenderer(w)
	if plain {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{styles: styles{
		branch:    r.NewStyle().Foreground(lipgloss.Color("241")),
		indicator: r.NewStyle().Foreground(lipgloss.Color("39")),
		name:      r.NewStyle(),
		selected:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		path:      r.NewStyle().Foreground(lipgloss.Color("245")),
		inactive:  r.NewStyle().Faint(true),
		label:     r.NewStyle().Bold(true),
		err:       r.NewStyle().Foreground(lipgloss.Color("196")),
	}}
}

// Tree renders the forest of st. Children of collapsed nodes are hidden
// unless expandAll is set.
func (v *Renderer) Tree(st *store.State, expandAll bool) string {
	var sb strings.Builder
	if st.Loading {
		sb.WriteString("loading...\n")
	}
	if st.Err != "" {
		sb.WriteString(v.styles.err.Render("error: "+st.Err) + "\n")
	}
	if len(st.Items) == 0 {
		sb.WriteString("(no menu items)\n")
		return sb.String()
	}
	open := func(id string) bool { return expandAll || st.IsExpanded(id) }
	v.renderLevel(&sb, st.Items, "", 0, open, st.Selected)
	return sb.String()
}

func (v *Renderer) renderLevel(sb *strings.Builder, items []*model.MenuItem, prefix string, level int, open func(string) bool, selected *model.MenuItem) {
	for i, item := range items {
		last := i == len(items)-1
		branch, next := "", ""
		if level > 0 {
			branch, next = "├── ", prefix+"│   "
			if last {
				branch, next = "└── ", prefix+"    "
			}
		}
		sb.WriteString(v.styles.branch.Render(prefix + branch))
		sb.WriteString(v.styles.indicator.Render(indicator(item, open(item.ID))))
		sb.WriteString(" ")
		sb.WriteString(v.renderName(item, selected))
		sb.WriteString("\n")

		if item.IsParent() && open(item.ID) {
			v.renderLevel(sb, item.Children(), next, level+1, open, selected)
		}
	}
}

func (v *Renderer) renderName(item *model.MenuItem, selected *model.MenuItem) string {
	name := v.styles.name.Render(item.Name)
	if selected != nil && selected.ID == item.ID {
		name = v.styles.selected.Render(item.Name + " *")
	}
	if p := item.Path(); p != "" {
		name += " " + v.styles.path.Render(p)
	}
	if !item.IsActive {
		name += " " + v.styles.inactive.Render("(inactive)")
	}
	return name
}

func indicator(item *model.MenuItem, expanded bool) string {
	if len(item.Children()) == 0 {
		return "•"
	}
	if expanded {
		return "▾"
	}
	return "▸"
}

// Detail renders the fields of item and its breadcrumb within st.
func (v *Renderer) Detail(st *store.State, item *model.MenuItem) string {
	if item == nil {
		return "no menu item selected\n"
	}
	rows := [][2]string{
		{"Path", strings.Join(tree.PathOf(st.Items, item.ID), " / ")},
		{"ID", item.ID},
		{"Name", item.Name},
		{"Code", item.Code},
		{"Kind", item.Kind().String()},
		{"Route", item.Path()},
		{"Icon", item.Icon},
		{"Order", fmt.Sprint(item.Order)},
		{"Depth", fmt.Sprint(item.Depth)},
		{"Active", fmt.Sprint(item.IsActive)},
		{"Parent", item.ParentName},
		{"Permission", item.RequiredPermission},
	}
	if item.IsParent() {
		rows = append(rows, [2]string{"Children", fmt.Sprint(len(item.Children()))})
	}

	var sb strings.Builder
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		sb.WriteString(v.styles.label.Render(fmt.Sprintf("%-11s", row[0]+":")))
		sb.WriteString(" " + row[1] + "\n")
	}
	return sb.String()
}

// Menus renders one line per menu.
func (v *Renderer) Menus(menus []model.Menu) string {
	if len(menus) == 0 {
		return "(no active menus)\n"
	}
	var sb strings.Builder
	for _, m := range menus {
		sb.WriteString(v.styles.label.Render(m.ID) + "  " + m.Name)
		if m.Description != "" {
			sb.WriteString(" " + v.styles.path.Render("- "+m.Description))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
