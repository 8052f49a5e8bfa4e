// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package urlbuilder

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const placeholder = "{}"

// ErrNotTemplate is returned if the number of placeholders doesn't match the
// number of values.
var ErrNotTemplate = errors.New("function must be used as template string")

// InvalidURLError is returned if a rendered template is not an absolute URL.
type InvalidURLError struct {
	Input string
}

func (e *InvalidURLError) Error() string {
	return `Invalid URL: "` + e.Input + `"`
}

var droppedValues = map[string]struct{}{
	"":          {},
	"null":      {},
	"undefined": {},
}

// Interpolate function substitutes {} placeholders in the template with values
// and normalizes the result. Values in the query are query-escaped and nil
// renders as "null". Query parameters with empty, "null" or "undefined" values
// are dropped, and the "?" is removed when no parameters remain.
func Interpolate(template string, values ...any) (string, error) {
	parts := strings.Split(template, placeholder)

	if len(parts)-1 != len(values) {
		return "", ErrNotTemplate
	}

	var sb strings.Builder
	inQuery, inHash := false, false

	for i, part := range parts {
		sb.WriteString(part)

		inQuery = inQuery || strings.IndexByte(part, '?') >= 0
		inHash = inHash || strings.IndexByte(part, '#') >= 0

		if i == len(values) {
			break
		}

		value := "null"

		if values[i] != nil {
			value = fmt.Sprint(values[i])
		}

		if inQuery && !inHash {
			value = url.QueryEscape(value)
		}

		sb.WriteString(value)
	}

	return normalize(sb.String())
}

func normalize(raw string) (string, error) {
	u, err := url.Parse(raw)

	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return "", &InvalidURLError{Input: raw}
	}

	query, err := filterQuery(u.RawQuery)

	if err != nil {
		return "", &InvalidURLError{Input: raw}
	}

	u.RawQuery = query
	u.ForceQuery = false

	if _, ok := trailingSlashProtocols[u.Scheme]; ok && u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

func filterQuery(rawQuery string) (string, error) {
	if rawQuery == "" {
		return "", nil
	}

	var pairs []string

	for _, pair := range strings.Split(rawQuery, "&") {
		rawKey, rawValue, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(rawKey)

		if err != nil {
			return "", err
		}

		value, err := url.QueryUnescape(rawValue)

		if err != nil {
			return "", err
		}

		if _, ok := droppedValues[value]; ok {
			continue
		}

		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}

	return strings.Join(pairs, "&"), nil
}
