// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

/*
Package envconf imports environment variables into a record, that can be
merged on top of file sources as the last layer. Variables are selected by a
regular expression:

	overlay, err := envconf.NewLoader().Load("^MYAPP_")
*/
package envconf

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/iph0/vaultconf"
)

const errPref = "envconf"

// Loader loads environment variables. Environ returns variables in
// "key=value" form; if nil, process environment is used.
type Loader struct {
	Environ func() []string

	// StripPrefix removes the literal prefix of the pattern (e.g. "MYAPP_" for
	// "^MYAPP_") from keys.
	StripPrefix bool
}

// NewLoader method creates loader for the process environment.
func NewLoader() *Loader {
	return &Loader{Environ: os.Environ}
}

// Load method imports environment variables matching the pattern.
func (l *Loader) Load(pattern string) (vaultconf.Record, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%s: empty pattern specified", errPref)
	}

	re, err := regexp.Compile(pattern)

	if err != nil {
		return nil, fmt.Errorf("%s: %s", errPref, err)
	}

	var prefix string

	if l.StripPrefix {
		prefix, _ = re.LiteralPrefix()
	}

	environ := l.Environ

	if environ == nil {
		environ = os.Environ
	}

	record := make(vaultconf.Record)

	for _, pairRaw := range environ() {
		key, value, ok := strings.Cut(pairRaw, "=")

		if !ok || !re.MatchString(key) {
			continue
		}

		if prefix != "" {
			key = strings.TrimPrefix(key, prefix)

			if key == "" {
				continue
			}
		}

		record[key] = value
	}

	return record, nil
}
