// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package cli

import (
	"github.com/iph0/vaultconf/envconf"
	"github.com/iph0/vaultconf/fileconf"
	"github.com/spf13/cobra"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print merged configuration as JSON",
		Long: `Config reads the default and the environment-specific sources from the
directory, merges them and prints the result as JSON. Environment variables
matching the overlay pattern are merged on top.

Example:
  vaultconf config --dir /etc/myapp --env staging
  vaultconf config --format yaml --env production --overlay '^MYAPP_' --strip-prefix`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfig(cmd)
		},
	}

	flags := cmd.Flags()
	flags.String("dir", ".", "directory with source files")
	flags.String("env", "", "environment name")
	flags.String("format", string(fileconf.Dotenv), "source format: dotenv, json, yaml or toml")
	flags.String("overlay", "", "pattern of environment variables merged on top")
	flags.Bool("strip-prefix", false, "strip literal prefix of the overlay pattern from keys")
	flags.StringSlice("require", nil, "keys that must be present")

	return cmd
}

func (a *app) runConfig(cmd *cobra.Command) error {
	format, err := fileconf.ParseFormat(a.v.GetString("format"))

	if err != nil {
		return err
	}

	opts := fileconf.Options{
		Dir:    a.v.GetString("dir"),
		Env:    a.v.GetString("env"),
		Format: format,
		Logger: a.logger,
	}

	if pattern := a.v.GetString("overlay"); pattern != "" {
		loader := envconf.NewLoader()
		loader.StripPrefix = a.v.GetBool("strip-prefix")

		opts.Overlay, err = loader.Load(pattern)

		if err != nil {
			return err
		}
	}

	config, err := fileconf.Load(opts, requiredKeys(a.v.GetStringSlice("require")))

	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), config)
}
