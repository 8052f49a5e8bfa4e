// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

package fileconf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/iph0/merger"
	"github.com/iph0/vaultconf"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Reason tells why a source could not be read.
type Reason string

// Read failure reasons.
const (
	ReasonIO    Reason = "io-error"
	ReasonEmpty Reason = "empty-contents"
	ReasonParse Reason = "parse-error"
)

const keySep = "."

var (
	parsers = map[Format]func(data []byte) (vaultconf.Record, error){
		Dotenv: unmarshalDotenv,
		JSON:   unmarshalJSON,
		YAML:   unmarshalYAML,
		TOML:   unmarshalTOML,
	}

	errUnknownFormat = errors.New("unknown format")
)

// FileSystem is an interface for file reading primitive.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// OSFileSystem reads files from the local filesystem.
type OSFileSystem struct{}

// ReadFile method reads the named file.
func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// ReadError describes a failed source read.
type ReadError struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *ReadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", errPref, e.Reason, e.Path)
	}

	return fmt.Sprintf("%s: %s: %s: %s", errPref, e.Reason, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NotFound method reports whether the source file does not exist.
func (e *ReadError) NotFound() bool {
	return e.Reason == ReasonIO && errors.Is(e.Err, os.ErrNotExist)
}

// Outcome is a result of one source read: either a record or a failure.
type Outcome struct {
	Record vaultconf.Record
	Err    *ReadError
}

// OK method reports whether the read succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Reader reads single source files into records.
type Reader struct {
	FS FileSystem
}

// NewReader method creates reader for the local filesystem.
func NewReader() *Reader {
	return &Reader{FS: OSFileSystem{}}
}

// Read function reads the file from the local filesystem.
func Read(path string, format Format) Outcome {
	return NewReader().Read(path, format)
}

// Read method reads the file at path and parses it according to the format.
// It never panics; every failure is returned as Outcome.Err.
func (r *Reader) Read(path string, format Format) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = failure(path, ReasonParse, fmt.Errorf("%v", rec))
		}
	}()

	parser, ok := parsers[format]

	if !ok {
		return failure(path, ReasonParse, fmt.Errorf("%w: %s", errUnknownFormat, format))
	}

	fsys := r.FS

	if fsys == nil {
		fsys = OSFileSystem{}
	}

	data, err := fsys.ReadFile(path)

	if err != nil {
		return failure(path, ReasonIO, err)
	}

	if len(data) == 0 {
		if format == Dotenv {
			return failure(path, ReasonEmpty, nil)
		}

		return failure(path, ReasonParse, errors.New("no contents"))
	}

	record, err := parser(data)

	if err != nil {
		return failure(path, ReasonParse, err)
	}

	return Outcome{Record: record}
}

func failure(path string, reason Reason, err error) Outcome {
	return Outcome{
		Err: &ReadError{
			Path:   path,
			Reason: reason,
			Err:    err,
		},
	}
}

func unmarshalDotenv(data []byte) (vaultconf.Record, error) {
	m, err := godotenv.Unmarshal(string(data))

	if err != nil {
		return nil, err
	}

	return vaultconf.Record(m), nil
}

func unmarshalJSON(data []byte) (vaultconf.Record, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var iData any
	err := decoder.Decode(&iData)

	if err != nil {
		return nil, err
	}

	if decoder.More() {
		return nil, errors.New("unexpected data after top-level object")
	}

	m, ok := iData.(map[string]any)

	if !ok {
		return nil, fmt.Errorf("top-level value must be an object, but got: %T", iData)
	}

	return flatten(m)
}

func unmarshalYAML(data []byte) (vaultconf.Record, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	var config any

	for {
		var doc any
		err := decoder.Decode(&doc)

		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		if doc == nil {
			continue
		}

		m, err := convertMap(doc)

		if err != nil {
			return nil, err
		}

		config = merger.Merge(config, m)
	}

	if config == nil {
		return nil, errors.New("no document found")
	}

	return flatten(config.(map[string]any))
}

func unmarshalTOML(data []byte) (vaultconf.Record, error) {
	var m map[string]any
	err := toml.Unmarshal(data, &m)

	if err != nil {
		return nil, err
	}

	return flatten(m)
}

// convertMap converts YAML mappings with non-string keys to maps with string
// keys.
func convertMap(from any) (map[string]any, error) {
	switch m := from.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		to := make(map[string]any, len(m))

		for key, value := range m {
			to[fmt.Sprintf("%v", key)] = value
		}

		return to, nil
	}

	return nil, fmt.Errorf("top-level value must be a mapping, but got: %T", from)
}

func flatten(m map[string]any) (vaultconf.Record, error) {
	record := make(vaultconf.Record)
	err := flattenInto(record, "", m)

	if err != nil {
		return nil, err
	}

	return record, nil
}

func flattenInto(record vaultconf.Record, prefix string, m map[string]any) error {
	for key, value := range m {
		if prefix != "" {
			key = prefix + keySep + key
		}

		if value == nil {
			continue
		}

		switch v := value.(type) {
		case map[string]any:
			err := flattenInto(record, key, v)

			if err != nil {
				return err
			}

			continue
		case map[any]any:
			sm, _ := convertMap(v)
			err := flattenInto(record, key, sm)

			if err != nil {
				return err
			}

			continue
		}

		str, err := scalarString(value)

		if err != nil {
			return fmt.Errorf("%s at %s", err, key)
		}

		record[key] = str
	}

	return nil
}

func scalarString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	if kind := reflect.ValueOf(value).Kind(); kind == reflect.Slice || kind == reflect.Array {
		return "", errors.New("arrays are not supported")
	}

	return "", fmt.Errorf("unsupported value of type %T", value)
}
