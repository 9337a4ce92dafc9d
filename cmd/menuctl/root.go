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

	"github.com/go-arcade/arcade-menu/internal/app"
	"github.com/go-arcade/arcade-menu/internal/conf"
	"github.com/go-arcade/arcade-menu/pkg/version"
)

type rootOptions struct {
	confPath string
	baseURL  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "menuctl",
		Short:         "menuctl manages hierarchical navigation menus",
		Long:          "menuctl browses and edits the menu item trees served by the menu API.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.confPath, "conf", "", "conf file path, e.g. --conf ./conf.d/menuctl.toml")
	flags.StringVar(&opts.baseURL, "base-url", "", "menu API base url, overrides gateway.baseURL")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level, overrides log.level")

	cmd.AddCommand(
		newMenusCmd(opts),
		newTreeCmd(opts),
		newCreateCmd(opts),
		newCreateChildCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newServeCmd(opts),
		version.VersionCmd,
	)
	return cmd
}

// buildApp loads the configuration and wires the application.
func (o *rootOptions) buildApp() (*app.App, func(), error) {
	loader := conf.NewLoader(o.confPath,
		conf.WithOverride("gateway.baseurl", o.baseURL),
		conf.WithOverride("log.level", o.logLevel),
	)
	return initApp(loader)
}
