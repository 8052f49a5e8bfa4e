// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package vault

import (
	"fmt"
	"net/url"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/go-resty/resty/v2"
)

// Config is a structure with vault client parameters.
type Config struct {
	// Address of the vault server, e.g. "https://vault.example.com:8200".
	Address string `env:"VAULT_ADDR"`

	// TokenPath is a path of the local token file. Relative paths are resolved
	// against WorkDir.
	TokenPath string `env:"VAULT_TOKEN_PATH"`

	// AgentAddress is a URL of the local agent, that returns token in the
	// response body.
	AgentAddress string `env:"VAULT_AGENT_ADDR"`

	// WorkDir defaults to the current working directory.
	WorkDir string `env:"VAULT_WORKDIR"`

	AuthHeader         string        `env:"VAULT_AUTH_HEADER"`
	APIVersion         string        `env:"VAULT_API_VERSION"`
	Timeout            time.Duration `env:"VAULT_TIMEOUT"`
	InsecureSkipVerify bool          `env:"VAULT_SKIP_VERIFY"`
}

var defaultConfig = Config{
	AuthHeader: "X-Vault-Token",
	APIVersion: "v1",
	Timeout:    10 * time.Second,
}

// ConfigFromEnv function reads configuration from environment variables.
// Defaults are applied to unset parameters.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)

	if err != nil {
		return Config{}, fmt.Errorf("%s: error getting env configs: %w", errPref, err)
	}

	return cfg.WithDefaults()
}

// WithDefaults method returns copy of the configuration with defaults applied
// to zero fields.
func (c Config) WithDefaults() (Config, error) {
	err := mergo.Merge(&c, defaultConfig)

	if err != nil {
		return Config{}, fmt.Errorf("%s: %s", errPref, err)
	}

	return c, nil
}

// Validate method checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("%s: vault address must be specified", errPref)
	}

	u, err := url.Parse(c.Address)

	if err != nil {
		return fmt.Errorf("%s: invalid vault address: %s", errPref, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s: invalid vault address: %q", errPref, c.Address)
	}

	if c.AuthHeader == "" {
		return fmt.Errorf("%s: auth header must be specified", errPref)
	}

	return nil
}

// TokenSources method returns token sources in resolution order: the local
// token file, then the local agent.
func (c Config) TokenSources(client *resty.Client) []TokenSource {
	return []TokenSource{
		&FileSource{
			Path: c.TokenPath,
			Dir:  c.WorkDir,
		},
		&AgentSource{
			URL:    c.AgentAddress,
			Client: client,
		},
	}
}
