// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

// Package logger builds zap loggers for command line tools.
package logger

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const errPref = "logger"

// Format is an output format of logs.
type Format string

// Log formats.
const (
	JSONFormat Format = "json"
	TextFormat Format = "text"
)

// Config is a structure with logger parameters.
type Config struct {
	Level  string
	Format Format
}

// DefaultConfig function returns configuration for info level text logs.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: TextFormat,
	}
}

// New function creates logger writing to w.
func New(cfg Config, w io.Writer) (*zap.Logger, error) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}

	level, err := zapcore.ParseLevel(cfg.Level)

	if err != nil {
		return nil, fmt.Errorf("%s: %s", errPref, err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	var encoder zapcore.Encoder

	switch cfg.Format {
	case JSONFormat:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case TextFormat, "":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("%s: unknown format: %s", errPref, cfg.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)

	return zap.New(core), nil
}
