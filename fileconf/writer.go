// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package fileconf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/iph0/vaultconf"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Marshal function encodes the record in the native format of the source.
func Marshal(record vaultconf.Record, format Format) ([]byte, error) {
	m := map[string]string(record)

	if m == nil {
		m = map[string]string{}
	}

	switch format {
	case Dotenv:
		str, err := godotenv.Marshal(m)

		if err != nil {
			return nil, fmt.Errorf("%s: %s", errPref, err)
		}

		return []byte(str + "\n"), nil
	case JSON:
		return json.MarshalIndent(m, "", "  ")
	case YAML:
		return yaml.Marshal(m)
	case TOML:
		var buf bytes.Buffer
		err := toml.NewEncoder(&buf).Encode(m)

		if err != nil {
			return nil, fmt.Errorf("%s: %s", errPref, err)
		}

		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("%s: %w: %s", errPref, errUnknownFormat, format)
}

// Write function writes the record to the file at path in the given format.
func Write(path string, format Format, record vaultconf.Record) error {
	data, err := Marshal(record, format)

	if err != nil {
		return err
	}

	err = os.WriteFile(path, data, 0o600)

	if err != nil {
		return fmt.Errorf("%s: %s", errPref, err)
	}

	return nil
}
