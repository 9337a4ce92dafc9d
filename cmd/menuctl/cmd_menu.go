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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-arcade/arcade-menu/internal/view"
)

func newMenusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menus",
		Short: "List the active menus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := opts.buildApp()
			if err != nil {
				return err
			}
			defer cleanup()

			menus, err := a.Gateway.ListActiveMenus(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), view.NewRenderer(cmd.OutOrStdout(), false).Menus(menus))
			return err
		},
	}
}

func newTreeCmd(opts *rootOptions) *cobra.Command {
	var (
		expandAll bool
		withRetry bool
		selectID  string
	)
	cmd := &cobra.Command{
		Use:   "tree <menuId>",
		Short: "Print the item tree of a menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := opts.buildApp()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Load(cmd.Context(), args[0], withRetry); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			r := view.NewRenderer(out, false)
			if selectID != "" && !a.Store.SelectByID(selectID) {
				return fmt.Errorf("menu item %q not found", selectID)
			}
			st := a.Store.Snapshot()
			if _, err := fmt.Fprint(out, r.Tree(st, expandAll)); err != nil {
				return err
			}
			if st.Selected != nil {
				_, err = fmt.Fprint(out, "\n"+r.Detail(st, st.Selected))
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "show every level instead of the first two")
	cmd.Flags().BoolVar(&withRetry, "retry", false, "retry the load with backoff on transient failures")
	cmd.Flags().StringVar(&selectID, "select", "", "select an item and print its details")
	return cmd
}
