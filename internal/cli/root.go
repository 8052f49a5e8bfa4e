// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

// Package cli implements the vaultconf command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iph0/vaultconf"
	"github.com/iph0/vaultconf/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "VAULTCONF"

type app struct {
	v      *viper.Viper
	logger *zap.Logger
}

// NewRootCommand function creates the root command. Flags can also be set by
// VAULTCONF_ prefixed environment variables, e.g. VAULTCONF_LOG_LEVEL.
func NewRootCommand(version string) *cobra.Command {
	a := &app{
		v:      newViper(),
		logger: zap.NewNop(),
	}

	rootCmd := &cobra.Command{
		Use:   "vaultconf",
		Short: "Resolve layered configuration and vault secrets",
		Long: `vaultconf merges default and environment-specific configuration sources,
and reads secrets from a vault-style secret store.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			err := a.bind(cmd.Flags())

			if err != nil {
				return err
			}

			log, err := logger.New(
				logger.Config{
					Level:  a.v.GetString("log-level"),
					Format: logger.Format(a.v.GetString("log-format")),
				},
				cmd.ErrOrStderr(),
			)

			if err != nil {
				return err
			}

			a.logger = log

			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-format", string(logger.TextFormat), "log format: text or json")

	rootCmd.AddCommand(
		newConfigCommand(a),
		newSecretsCommand(a),
	)

	return rootCmd
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

func (a *app) bind(flags *pflag.FlagSet) error {
	err := a.v.BindPFlags(flags)

	if err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	return nil
}

// requiredKeys returns schema, that fails for each missing key.
func requiredKeys(keys []string) vaultconf.Schema[map[string]any] {
	return vaultconf.SchemaFunc[map[string]any](
		func(raw map[string]any) (map[string]any, error) {
			var issues []vaultconf.Issue

			for _, key := range keys {
				if _, ok := raw[key]; ok {
					continue
				}

				issues = append(issues,
					vaultconf.Issue{
						Path:     []string{key},
						Code:     vaultconf.CodeRequired,
						Received: "undefined",
						Message:  "Required",
					},
				)
			}

			if len(issues) > 0 {
				return nil, vaultconf.NewValidationError(issues...)
			}

			return raw, nil
		},
	)
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(value)

	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	return nil
}
