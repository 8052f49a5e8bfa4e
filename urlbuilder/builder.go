// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

/*
Package urlbuilder composes URLs from parts and renders URL templates.

	u, err := urlbuilder.New().
	  Protocol("https").
	  Domain("vault.example.com").
	  Path("v1").
	  Path("secret/data/api").
	  Build()

For templates, {} placeholders are substituted with values, and query
parameters with nil, "null", "undefined" or empty values are dropped:

	u, err := urlbuilder.Interpolate("https://site.com/path?q={}&user={}", "my search", nil)
	// https://site.com/path?q=my+search
*/
package urlbuilder

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const errPref = "urlbuilder"

var trailingSlashProtocols = map[string]struct{}{
	"http":  {},
	"https": {},
	"ftp":   {},
	"ws":    {},
	"wss":   {},
	"file":  {},
}

// Builder is a fluent URL builder. The zero value is not usable, create it
// with New.
type Builder struct {
	protocol string
	domain   string
	username string
	password string
	port     string
	segments []string
	keys     []string
	params   map[string]string
	hash     string
}

// New method creates builder with the "http" protocol.
func New() *Builder {
	return &Builder{
		protocol: "http",
		params:   make(map[string]string),
	}
}

// Protocol method sets protocol. A trailing colon is removed.
func (b *Builder) Protocol(protocol string) *Builder {
	b.protocol = strings.TrimSuffix(protocol, ":")
	return b
}

// Domain method sets domain. Leading and trailing slashes are removed.
func (b *Builder) Domain(domain string) *Builder {
	b.domain = strings.Trim(domain, "/")
	return b
}

// Path method appends path segment. Leading and trailing slashes are removed.
func (b *Builder) Path(path string) *Builder {
	b.segments = append(b.segments, strings.Trim(path, "/"))
	return b
}

// Param method sets query parameter. Parameters keep the order they were
// first set in. A nil value is omitted.
func (b *Builder) Param(key string, value any) *Builder {
	if value == nil {
		return b
	}

	if _, ok := b.params[key]; !ok {
		b.keys = append(b.keys, key)
	}

	b.params[key] = fmt.Sprint(value)

	return b
}

// Hash method appends fragment. Repeated calls concatenate fragments.
func (b *Builder) Hash(hash string) *Builder {
	b.hash += "#" + strings.TrimLeft(hash, "#")
	return b
}

// Username method sets username.
func (b *Builder) Username(username string) *Builder {
	b.username = username
	return b
}

// Password method sets password.
func (b *Builder) Password(password string) *Builder {
	b.password = password
	return b
}

// Port method sets port.
func (b *Builder) Port(port int) *Builder {
	b.port = strconv.Itoa(port)
	return b
}

// Build method renders URL. Domain is required.
func (b *Builder) Build() (string, error) {
	if b.domain == "" {
		return "", fmt.Errorf("%s: domain is required to build the URL", errPref)
	}

	var sb strings.Builder

	sb.WriteString(b.protocol)
	sb.WriteString("://")

	if b.username != "" || b.password != "" {
		sb.WriteString(b.username)

		if b.password != "" {
			sb.WriteString(":")
			sb.WriteString(b.password)
		}

		sb.WriteString("@")
	}

	sb.WriteString(b.domain)

	if b.port != "" {
		sb.WriteString(":")
		sb.WriteString(b.port)
	}

	if len(b.segments) > 0 {
		sb.WriteString("/")
		sb.WriteString(strings.Join(b.segments, "/"))
	} else if _, ok := trailingSlashProtocols[b.protocol]; ok {
		sb.WriteString("/")
	}

	if len(b.keys) > 0 {
		pairs := make([]string, 0, len(b.keys))

		for _, key := range b.keys {
			pairs = append(pairs, encodeComponent(key)+"="+encodeComponent(b.params[key]))
		}

		sb.WriteString("?")
		sb.WriteString(strings.Join(pairs, "&"))
	}

	sb.WriteString(b.hash)

	return sb.String(), nil
}

// URL method renders and parses URL.
func (b *Builder) URL() (*url.URL, error) {
	raw, err := b.Build()

	if err != nil {
		return nil, err
	}

	u, err := url.Parse(raw)

	if err != nil {
		return nil, fmt.Errorf("%s: %s", errPref, err)
	}

	return u, nil
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
