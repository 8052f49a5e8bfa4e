// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

/*
Package fileconf loads configuration from a default source file and an
environment-specific source file and merges them, so environment-specific
values override defaults. Source files are resolved from the directory,
environment name and format:

	dotenv: .env and .env.<env>
	json:   default.json and <env>.json
	yaml:   default.yaml and <env>.yaml
	toml:   default.toml and <env>.toml

A missing or unparsable source is not an error: it contributes nothing to the
result. The merged record is then validated by the caller's schema, and
schema failures are always returned.

	config, err := fileconf.ParseDotenvFiles(
	  fileconf.Options{Dir: "/etc/myapp", Env: "staging"},
	  vaultconf.StructSchema[Config](),
	)
*/
package fileconf

import (
	"fmt"
	"sync"

	"github.com/iph0/vaultconf"
	"github.com/iph0/vaultconf/merger"
	"go.uber.org/zap"
)

const errPref = "fileconf"

// Resolver reads and merges default and environment-specific sources.
type Resolver struct {
	Reader *Reader
	Logger *zap.Logger
}

// NewResolver method creates resolver for the local filesystem.
func NewResolver() *Resolver {
	return &Resolver{
		Reader: NewReader(),
		Logger: zap.NewNop(),
	}
}

// Resolve function resolves sources from the local filesystem.
func Resolve(dir, env string, format Format) vaultconf.Record {
	return NewResolver().Resolve(dir, env, format)
}

// Resolve method reads both sources concurrently and merges them: values from
// the environment-specific source override defaults. Sources that can't be
// read are skipped, so the result is empty if both are absent. If env is
// empty, only the default source is read.
func (r *Resolver) Resolve(dir, env string, format Format) vaultconf.Record {
	defSpec, envSpec := Specs(dir, env, format)
	specs := []Spec{defSpec}

	if env != "" {
		specs = append(specs, envSpec)
	}

	outcomes := make([]Outcome, len(specs))
	var wg sync.WaitGroup

	for i, spec := range specs {
		wg.Add(1)

		go func() {
			defer wg.Done()
			outcomes[i] = r.reader().Read(spec.Path(), spec.Format)
		}()
	}

	wg.Wait()

	layers := make([]vaultconf.Record, 0, len(outcomes))

	for i, outcome := range outcomes {
		if !outcome.OK() {
			r.logger().Debug("source skipped",
				zap.String("role", specs[i].Role.String()),
				zap.String("path", outcome.Err.Path),
				zap.String("reason", string(outcome.Err.Reason)),
				zap.Error(outcome.Err.Err),
			)

			continue
		}

		r.logger().Debug("source loaded",
			zap.String("role", specs[i].Role.String()),
			zap.String("path", specs[i].Path()),
			zap.Int("keys", len(outcome.Record)),
		)

		layers = append(layers, outcome.Record)
	}

	return merger.Merge(layers...)
}

func (r *Resolver) reader() *Reader {
	if r.Reader == nil {
		return NewReader()
	}

	return r.Reader
}

func (r *Resolver) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}

	return r.Logger
}

// Options is a structure with parameters for typed loaders.
type Options struct {
	// Dir specifies directory with source files. Defaults to ".".
	Dir string

	// Env specifies environment name, e.g. "production".
	Env string

	// Format specifies the source format. ParseDotenvFiles and ParseConfigFiles
	// set it when empty.
	Format Format

	// Overlay is merged on top of loaded sources, e.g. a record from envconf.
	Overlay vaultconf.Record

	// Reader overrides the source reader.
	Reader *Reader

	// Logger receives debug messages about skipped sources.
	Logger *zap.Logger
}

// Load function resolves sources described by options, merges the overlay on
// top and validates the result with the schema.
func Load[T any](opts Options, schema vaultconf.Schema[T]) (T, error) {
	if _, ok := parsers[opts.Format]; !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w: %q", errPref, errUnknownFormat, opts.Format)
	}

	resolver := &Resolver{
		Reader: opts.Reader,
		Logger: opts.Logger,
	}

	record := resolver.Resolve(opts.Dir, opts.Env, opts.Format)

	if opts.Overlay != nil {
		record = merger.Merge(record, opts.Overlay)
	}

	return vaultconf.Validate(record.Map(), schema)
}

// ParseDotenvFiles function loads .env and .env.<env> files.
func ParseDotenvFiles[T any](opts Options, schema vaultconf.Schema[T]) (T, error) {
	opts.Format = Dotenv

	return Load(opts, schema)
}

// ParseConfigFiles function loads default.<ext> and <env>.<ext> files. Format
// defaults to JSON.
func ParseConfigFiles[T any](opts Options, schema vaultconf.Schema[T]) (T, error) {
	if opts.Format == "" {
		opts.Format = JSON
	}

	return Load(opts, schema)
}
