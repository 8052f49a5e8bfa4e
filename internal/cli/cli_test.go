package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/iph0/vaultconf"
	"github.com/iph0/vaultconf/internal/cli"
	"github.com/iph0/vaultconf/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCommand("test")
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())

	if err != nil {
		return nil, err
	}

	var result map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result), "output: %s", stdout.String())

	return result, nil
}

func createTemporaryFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o600))
	}

	return dir
}

func TestConfigCommand(t *testing.T) {
	dir := createTemporaryFiles(t, map[string]string{
		".env":         "HELLO=WORLD\nKEEP=default\n",
		".env.test":    "HELLO=TEST\n",
		"default.yaml": "HELLO: YAML\n",
	})

	t.Run("dotenv",
		func(t *testing.T) {
			result, err := execute(t, "config", "--dir", dir, "--env", "test")

			require.NoError(t, err)
			assert.Equal(t, map[string]any{"HELLO": "TEST", "KEEP": "default"}, result)
		},
	)

	t.Run("yaml",
		func(t *testing.T) {
			result, err := execute(t, "config", "--dir", dir, "--format", "yml")

			require.NoError(t, err)
			assert.Equal(t, map[string]any{"HELLO": "YAML"}, result)
		},
	)

	t.Run("overlay",
		func(t *testing.T) {
			t.Setenv("CLITEST_HELLO", "OVERLAY")

			result, err := execute(t, "config", "--dir", dir, "--env", "test",
				"--overlay", "^CLITEST_", "--strip-prefix")

			require.NoError(t, err)
			assert.Equal(t, "OVERLAY", result["HELLO"])
		},
	)

	t.Run("env_variable_flags",
		func(t *testing.T) {
			t.Setenv("VAULTCONF_DIR", dir)
			t.Setenv("VAULTCONF_ENV", "test")

			result, err := execute(t, "config")

			require.NoError(t, err)
			assert.Equal(t, "TEST", result["HELLO"])
		},
	)

	t.Run("required_keys",
		func(t *testing.T) {
			_, err := execute(t, "config", "--dir", dir, "--require", "HELLO,MISSING")

			var vErr *vaultconf.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, []string{"MISSING"}, vErr.Paths())
		},
	)

	t.Run("unknown_format",
		func(t *testing.T) {
			_, err := execute(t, "config", "--format", "ini")

			assert.ErrorContains(t, err, "unknown format")
		},
	)

	t.Run("invalid_overlay",
		func(t *testing.T) {
			_, err := execute(t, "config", "--overlay", "^(")

			assert.ErrorContains(t, err, "envconf:")
		},
	)
}

func TestSecretsCommand(t *testing.T) {
	agent := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "abc123")
		}),
	)

	defer agent.Close()

	store := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Vault-Token") != "abc123" {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			if r.URL.Path != "/v1/dev/some-service/kv/data/api" {
				w.WriteHeader(http.StatusNotFound)
				return
			}

			_, _ = io.WriteString(w, `{"data": {"data": {"gautocomplete": "key1"}}}`)
		}),
	)

	defer store.Close()

	t.Setenv("VAULT_ADDR", store.URL)
	t.Setenv("VAULT_AGENT_ADDR", agent.URL)
	t.Setenv("VAULT_TOKEN_PATH", "")
	t.Setenv("VAULT_AUTH_HEADER", "")

	t.Run("payload",
		func(t *testing.T) {
			result, err := execute(t, "secrets", "dev/some-service/kv/data/api")

			require.NoError(t, err)
			assert.Equal(t, map[string]any{"gautocomplete": "key1"}, result)
		},
	)

	t.Run("missing_path",
		func(t *testing.T) {
			_, err := execute(t, "secrets", "dev/other")

			assert.ErrorIs(t, err, vault.ErrFetch)
		},
	)

	t.Run("flag_overrides_env",
		func(t *testing.T) {
			_, err := execute(t, "secrets", "--auth-header", "X-Other-Token",
				"dev/some-service/kv/data/api")

			var fErr *vault.FetchError
			require.ErrorAs(t, err, &fErr)
			assert.Equal(t, http.StatusForbidden, fErr.StatusCode)
		},
	)

	t.Run("no_token",
		func(t *testing.T) {
			_, err := execute(t, "secrets", "--agent-addr", "", "dev/some-service/kv/data/api")

			assert.ErrorIs(t, err, vault.ErrBootstrap)
		},
	)

	t.Run("arguments",
		func(t *testing.T) {
			_, err := execute(t, "secrets")

			assert.Error(t, err)
		},
	)
}
