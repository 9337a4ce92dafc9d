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
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		menuID    string
		withRetry bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the menu state and intents over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := opts.buildApp()
			if err != nil {
				return err
			}
			defer cleanup()

			if menuID != "" {
				if err := a.Load(cmd.Context(), menuID, withRetry); err != nil {
					a.Logger.Sugar().Warnw("preload menu failed, serving empty state", "menuId", menuID, "error", err)
				}
			}
			return a.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&menuID, "menu", "", "menu id to load before serving")
	cmd.Flags().BoolVar(&withRetry, "retry", false, "retry the preload with backoff on transient failures")
	return cmd
}
