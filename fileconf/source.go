// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package fileconf

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a source file format.
type Format string

// Supported formats.
const (
	Dotenv Format = "dotenv"
	JSON   Format = "json"
	YAML   Format = "yaml"
	TOML   Format = "toml"
)

// Role is a logical role of a source in the layered merge.
type Role int

// Source roles. Environment-specific sources override default ones.
const (
	RoleDefault Role = iota
	RoleEnvironment
)

func (r Role) String() string {
	switch r {
	case RoleDefault:
		return "default"
	case RoleEnvironment:
		return "environment"
	}

	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseFormat function converts a format name to Format. File extensions
// "env" and "yml" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "dotenv", "env":
		return Dotenv, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}

	return "", fmt.Errorf("%s: unknown format: %s", errPref, name)
}

// Spec identifies one physical source.
type Spec struct {
	Dir    string
	Role   Role
	Env    string
	Format Format
}

// Specs function returns default and environment-specific source specs for
// the directory, environment and format.
func Specs(dir, env string, format Format) (Spec, Spec) {
	return Spec{Dir: dir, Role: RoleDefault, Format: format},
		Spec{Dir: dir, Role: RoleEnvironment, Env: env, Format: format}
}

// Path method resolves the source into a file path:
//
//	dotenv: <dir>/.env and <dir>/.env.<env>
//	json:   <dir>/default.json and <dir>/<env>.json
//	yaml:   <dir>/default.yaml and <dir>/<env>.yaml
//	toml:   <dir>/default.toml and <dir>/<env>.toml
func (s Spec) Path() string {
	dir := s.Dir

	if dir == "" {
		dir = "."
	}

	var name string

	if s.Format == Dotenv {
		name = ".env"

		if s.Role == RoleEnvironment {
			name += "." + s.Env
		}
	} else {
		name = "default"

		if s.Role == RoleEnvironment {
			name = s.Env
		}

		name += "." + string(s.Format)
	}

	return filepath.Join(dir, name)
}

func (s Spec) String() string {
	return fmt.Sprintf("%s:%s", s.Role, s.Path())
}
