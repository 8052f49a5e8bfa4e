// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

// Package merger merges configuration layers into new one. Value from the
// rightmost layer has precedence, even if it is an empty string: empty string
// is a valid override, distinct from absent key. Layers are never modified.
package merger

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/iph0/vaultconf"
)

const errPref = "merger"

// Merge function merges layers into new record. Nil layers are skipped.
func Merge(layers ...vaultconf.Record) vaultconf.Record {
	result := make(vaultconf.Record)

	for _, layer := range layers {
		if layer == nil {
			continue
		}

		err := mergo.Merge(&result, layer, mergo.WithOverride)

		if err != nil {
			// Both sides are of the same map type, so mergo can't reject them.
			panic(fmt.Errorf("%s: %s", errPref, err))
		}
	}

	return result
}
