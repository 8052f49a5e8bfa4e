// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package vault

//go:generate mockgen -source=source.go -destination=mock/source_mock.go -package=mock

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/iph0/vaultconf/fileconf"
)

// Method identifies a token source.
type Method string

// Token source methods.
const (
	MethodLocalFile Method = "local-file"
	MethodAgent     Method = "agent"
)

var errEmptyToken = errors.New("empty token")

// Credential is a resolved vault token.
type Credential struct {
	Token  string
	Method Method
}

// TokenSource is an interface for token sources. A source with an empty
// address is not configured and is skipped by the resolver.
type TokenSource interface {
	Method() Method
	Address() string
	Token(ctx context.Context) (string, error)
}

// SecretReader is an interface for secret readers.
type SecretReader interface {
	Read(ctx context.Context, path string) (map[string]any, error)
}

// FileSource reads token from the local token file.
type FileSource struct {
	Path string

	// Dir is used to resolve relative Path. Defaults to the current working
	// directory.
	Dir string

	FS fileconf.FileSystem
}

func (s *FileSource) Method() Method {
	return MethodLocalFile
}

func (s *FileSource) Address() string {
	return s.Path
}

// Token method reads the token file and trims surrounding whitespace. An
// empty token is an error.
func (s *FileSource) Token(context.Context) (string, error) {
	path, err := s.fullPath()

	if err != nil {
		return "", err
	}

	fs := s.FS

	if fs == nil {
		fs = fileconf.OSFileSystem{}
	}

	data, err := fs.ReadFile(path)

	if err != nil {
		return "", fmt.Errorf("%s: %w", errPref, err)
	}

	token := strings.TrimSpace(string(data))

	if token == "" {
		return "", fmt.Errorf("%s: %w in %s", errPref, errEmptyToken, path)
	}

	return token, nil
}

func (s *FileSource) fullPath() (string, error) {
	if filepath.IsAbs(s.Path) {
		return s.Path, nil
	}

	dir := s.Dir

	if dir == "" {
		var err error
		dir, err = os.Getwd()

		if err != nil {
			return "", fmt.Errorf("%s: %s", errPref, err)
		}
	}

	return filepath.Join(dir, s.Path), nil
}

// AgentSource requests token from the local agent.
type AgentSource struct {
	URL    string
	Client *resty.Client
}

func (s *AgentSource) Method() Method {
	return MethodAgent
}

func (s *AgentSource) Address() string {
	return s.URL
}

// Token method requests the agent. Only the status 200 with a non-empty body
// is a success.
func (s *AgentSource) Token(ctx context.Context) (string, error) {
	client := s.Client

	if client == nil {
		client = resty.New()
	}

	resp, err := client.R().
		SetContext(ctx).
		Get(s.URL)

	if err != nil {
		return "", fmt.Errorf("%s: %w", errPref, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%s: agent responded with status %d", errPref, resp.StatusCode())
	}

	token := strings.TrimSpace(resp.String())

	if token == "" {
		return "", fmt.Errorf("%s: %w from %s", errPref, errEmptyToken, s.URL)
	}

	return token, nil
}
