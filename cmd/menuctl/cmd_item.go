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

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/go-arcade/arcade-menu/internal/app"
	"github.com/go-arcade/arcade-menu/internal/model"
	"github.com/go-arcade/arcade-menu/internal/tree"
	"github.com/go-arcade/arcade-menu/internal/view"
)

// itemFlags binds the ItemInput fields shared by create and update.
type itemFlags struct {
	menuID string
	input  model.ItemInput
}

func (f *itemFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.menuID, "menu", "", "menu id whose tree is loaded before the change (required)")
	fs.StringVar(&f.input.Name, "name", "", "display name")
	fs.StringVar(&f.input.Code, "code", "", "short machine identifier")
	fs.StringVar(&f.input.Path, "path", "", "route path, makes the item navigable")
	fs.StringVar(&f.input.Icon, "icon", "", "icon identifier")
	fs.IntVar(&f.input.Order, "order", 0, "sibling sort key")
	fs.BoolVar(&f.input.IsActive, "active", true, "whether the item is active")
	fs.StringVar(&f.input.RequiredPermission, "permission", "", "permission required to see the item")
}

// prepare wires the app and loads the menu so the change lands in a known tree.
func (f *itemFlags) prepare(cmd *cobra.Command, opts *rootOptions) (*app.App, func(), error) {
	if f.menuID == "" {
		return nil, nil, errors.New("--menu is required")
	}
	f.input.MenuID = f.menuID
	a, cleanup, err := opts.buildApp()
	if err != nil {
		return nil, nil, err
	}
	if err := a.Store.Load(cmd.Context(), f.menuID); err != nil {
		cleanup()
		return nil, nil, err
	}
	return a, cleanup, nil
}

// seed returns the input describing item as loaded, with the flags the user
// set on fs laid over it. Flags left alone keep the loaded values.
func (f *itemFlags) seed(fs *pflag.FlagSet, item *model.MenuItem) model.ItemInput {
	in := model.ItemInput{
		Name:               item.Name,
		Code:               item.Code,
		Path:               item.Path(),
		Icon:               item.Icon,
		IsActive:           item.IsActive,
		Order:              item.Order,
		ParentID:           item.ParentID,
		MenuID:             f.menuID,
		RequiredPermission: item.RequiredPermission,
	}
	set := map[string]func(){
		"name":       func() { in.Name = f.input.Name },
		"code":       func() { in.Code = f.input.Code },
		"path":       func() { in.Path = f.input.Path },
		"icon":       func() { in.Icon = f.input.Icon },
		"order":      func() { in.Order = f.input.Order },
		"active":     func() { in.IsActive = f.input.IsActive },
		"permission": func() { in.RequiredPermission = f.input.RequiredPermission },
	}
	fs.Visit(func(fl *pflag.Flag) {
		if apply, ok := set[fl.Name]; ok {
			apply()
		}
	})
	return in
}

func printTree(cmd *cobra.Command, a *app.App) error {
	out := cmd.OutOrStdout()
	_, err := fmt.Fprint(out, view.NewRenderer(out, false).Tree(a.Store.Snapshot(), false))
	return err
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	f := &itemFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a menu item, as a root or under --parent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := f.prepare(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			item, err := a.Store.CreateItem(cmd.Context(), &f.input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", item.Name, item.ID)
			return printTree(cmd, a)
		},
	}
	f.bind(cmd.Flags())
	cmd.Flags().StringVar(&f.input.ParentID, "parent", "", "parent item id")
	return cmd
}

func newCreateChildCmd(opts *rootOptions) *cobra.Command {
	f := &itemFlags{}
	cmd := &cobra.Command{
		Use:   "create-child <parentId>",
		Short: "Create a menu item under an existing parent item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := f.prepare(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			f.input.ParentID = args[0]
			item, err := a.Store.CreateChild(cmd.Context(), args[0], &f.input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", item.Name, item.ID)
			return printTree(cmd, a)
		},
	}
	f.bind(cmd.Flags())
	return cmd
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	f := &itemFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a menu item, changing only the fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := f.prepare(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			current := tree.FindByID(a.Store.Snapshot().Items, args[0])
			if current == nil {
				return fmt.Errorf("menu item %q not found in menu %s", args[0], f.menuID)
			}
			input := f.seed(cmd.Flags(), current)
			item, err := a.Store.UpdateItem(cmd.Context(), args[0], &input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s)\n", item.Name, item.ID)
			return printTree(cmd, a)
		},
	}
	f.bind(cmd.Flags())
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var menuID string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a menu item and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &itemFlags{menuID: menuID}
			a, cleanup, err := f.prepare(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Store.DeleteItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return printTree(cmd, a)
		},
	}
	cmd.Flags().StringVar(&menuID, "menu", "", "menu id whose tree is loaded before the change (required)")
	return cmd
}
