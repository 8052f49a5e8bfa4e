// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package vaultconf

import "sort"

const errPref = "vaultconf"

// Record is a flat mapping of string keys to string values. Records produced
// by loaders are treated as immutable: merging creates a new Record.
type Record map[string]string

// Clone method returns a copy of the record. Clone of a nil record is an empty
// record.
func (r Record) Clone() Record {
	clone := make(Record, len(r))

	for key, value := range r {
		clone[key] = value
	}

	return clone
}

// Keys method returns sorted keys of the record.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))

	for key := range r {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// Map method converts the record to the generic map accepted by schemas.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r))

	for key, value := range r {
		m[key] = value
	}

	return m
}
