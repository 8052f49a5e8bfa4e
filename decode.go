// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package vaultconf

import mapstruct "github.com/mitchellh/mapstructure"

const decoderTagName = "json"

// Decode function decodes raw configuration data into structure. Fields are
// mapped by json tags, so the same struct can be used for schema inference and
// decoding. Numbers convert between numeric kinds; strings are never coerced to
// numbers or booleans.
func Decode(raw, target any) error {
	decoder, err := mapstruct.NewDecoder(
		&mapstruct.DecoderConfig{
			Result:  target,
			TagName: decoderTagName,
		},
	)

	if err != nil {
		return err
	}

	err = decoder.Decode(raw)

	if err != nil {
		return err
	}

	return nil
}
