// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package cli

import (
	"github.com/iph0/vaultconf/vault"
	"github.com/spf13/cobra"
)

func newSecretsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets PATH",
		Short: "Print secret payload as JSON",
		Long: `Secrets resolves the vault token from the local token file or the local
agent, reads the secret at PATH and prints the unwrapped payload as JSON.
Client parameters are read from VAULT_* environment variables and can be
overridden by flags.

Example:
  VAULT_ADDR=https://vault.example.com vaultconf secrets dev/myapp/kv/data/api`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSecrets(cmd, args[0])
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "vault address")
	flags.String("token-path", "", "path of the local token file")
	flags.String("agent-addr", "", "URL of the local agent")
	flags.String("work-dir", "", "directory to resolve relative token path against")
	flags.String("auth-header", "", "header carrying the token")
	flags.Duration("timeout", 0, "request timeout")
	flags.Bool("skip-verify", false, "skip TLS certificate verification")
	flags.StringSlice("require", nil, "keys that must be present")

	return cmd
}

func (a *app) runSecrets(cmd *cobra.Command, path string) error {
	cfg, err := vault.ConfigFromEnv()

	if err != nil {
		return err
	}

	a.override(&cfg)

	client, err := vault.New(cmd.Context(), cfg, vault.WithLogger(a.logger))

	if err != nil {
		return err
	}

	secrets, err := vault.GetSecrets(cmd.Context(), client, path,
		requiredKeys(a.v.GetStringSlice("require")),
	)

	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), secrets)
}

// override applies flags and VAULTCONF_ environment variables on top of the
// configuration.
func (a *app) override(cfg *vault.Config) {
	for key, field := range map[string]*string{
		"addr":        &cfg.Address,
		"token-path":  &cfg.TokenPath,
		"agent-addr":  &cfg.AgentAddress,
		"work-dir":    &cfg.WorkDir,
		"auth-header": &cfg.AuthHeader,
	} {
		if a.v.IsSet(key) {
			*field = a.v.GetString(key)
		}
	}

	if a.v.IsSet("timeout") {
		cfg.Timeout = a.v.GetDuration("timeout")
	}

	if a.v.IsSet("skip-verify") {
		cfg.InsecureSkipVerify = a.v.GetBool("skip-verify")
	}
}
