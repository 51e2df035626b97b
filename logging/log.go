// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// A Level is a logging priority. Higher levels are more important.
type Level int8

// Logging levels (matching zap core internals).
const (
	// DebugLevel logs are typically voluminous, and are usually disabled in
	// production.
	DebugLevel Level = -1
	// InfoLevel is the default logging priority.
	InfoLevel Level = 0
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel Level = 1
	// ErrorLevel logs are high-priority.
	ErrorLevel Level = 2
	// PanicLevel logs a message, then panics.
	PanicLevel Level = 4
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel Level = 5
)

// ParseLevel parse a log level from a string.
func ParseLevel(l string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warning", "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "panic":
		return PanicLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return Level(100), fmt.Errorf("log level \"%s\" is not supported", l)
	}
}

// String converts a log level to its string representation.
func (l Level) String() string {
	return zapcore.Level(l).String()
}

// ZapLevel returns the zapcore level for the logging level.
func (l Level) ZapLevel() zapcore.Level {
	return zapcore.Level(l)
}

// Logger is an abstraction on top of zap logger.
type Logger struct {
	*zap.Logger
	config *zap.Config
	name   string
}

func newLogger(config zap.Config) *Logger {
	zaplogger, err := config.Build()
	if err != nil {
		panic(err)
	}
	return &Logger{
		Logger: zaplogger,
		config: &config,
	}
}

// Clone will clone the internal logger.
func (log *Logger) Clone() *Logger {
	newConfig := cloneConfig(log.config)
	newLogger, err := newConfig.Build()
	if err != nil {
		panic(err)
	}
	return &Logger{
		Logger: newLogger,
		config: newConfig,
		name:   log.name,
	}
}

// GetLevel returns the log level.
func (log *Logger) GetLevel() Level {
	return (Level)(log.config.Level.Level())
}

// GetName return the name of this logger.
func (log *Logger) GetName() string {
	return log.name
}

// Named instantiate a new logger by cloning it first
// and name it with the string specified.
func (log *Logger) Named(name string) *Logger {
	c := log.Clone()
	newName := name
	if log.name != "" {
		newName = fmt.Sprintf("%s.%s", log.name, name)
	}
	return &Logger{
		Logger: c.Logger.Named(name),
		config: c.config,
		name:   newName,
	}
}

// SetLevel change the level of this logger.
func (log *Logger) SetLevel(level Level) {
	lvl := (zapcore.Level)(level)
	if log.config.Level.Level() == lvl {
		return
	}
	log.config.Level.SetLevel(lvl)
}

// With will add default field to each logs.
func (log *Logger) With(fields ...zap.Field) *Logger {
	c := log.Clone()
	return &Logger{
		Logger: c.Logger.With(fields...),
		config: c.config,
		name:   c.name,
	}
}

// AtExit flushes the logs before exiting the process. Useful when an
// app shuts down so we store all logging possible. This is meant to be used
// with defer when initializing your logger.
func (log *Logger) AtExit() {
	if log.Logger != nil {
		_ = log.Logger.Sync()
	}
}

func cloneConfig(cfg *zap.Config) *zap.Config {
	c := zap.Config{
		Level:             zap.NewAtomicLevelAt(cfg.Level.Level()),
		Development:       cfg.Development,
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: cfg.DisableStacktrace,
		Encoding:          cfg.Encoding,
		EncoderConfig:     cfg.EncoderConfig,
		OutputPaths:       cfg.OutputPaths,
		ErrorOutputPaths:  cfg.ErrorOutputPaths,
		InitialFields:     make(map[string]interface{}, len(cfg.InitialFields)),
	}
	for k, v := range cfg.InitialFields {
		c.InitialFields[k] = v
	}
	if cfg.Sampling != nil {
		c.Sampling = &zap.SamplingConfig{
			Initial:    cfg.Sampling.Initial,
			Thereafter: cfg.Sampling.Thereafter,
		}
	}
	return &c
}

// NewDevLogger creates a new logger suitable for development environments.
func NewDevLogger() *Logger {
	return newLogger(newDevConfig())
}

// NewTestLogger creates a new logger suitable for golang unit test
// environments, ie when running "go test ./...".
func NewTestLogger() *Logger {
	cfg := newDevConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(WarnLevel))
	return newLogger(cfg)
}

// NewProdLogger creates a new logger suitable for production environments,
// including sending logs to ElasticSearch.
func NewProdLogger() *Logger {
	return newLogger(newProdConfig())
}

// NewLoggerFromConfig creates a logger according to the given custom config.
func NewLoggerFromConfig(config Config) *Logger {
	var cfg zap.Config
	switch config.Environment {
	case "dev":
		cfg = newDevConfig()
	case "test":
		return NewTestLogger()
	default:
		cfg = newProdConfig()
	}
	if config.Level != nil {
		cfg.Level = zap.NewAtomicLevelAt(config.Level.ZapLevel())
	}
	return newLogger(cfg)
}

func newDevConfig() zap.Config {
	return zap.Config{
		Level:       zap.NewAtomicLevelAt(zapcore.Level(DebugLevel)),
		Development: true,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			CallerKey:      "C",
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeName:     zapcore.FullNameEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "L",
			LineEnding:     "\n",
			MessageKey:     "M",
			NameKey:        "N",
			TimeKey:        "T",
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

func newProdConfig() zap.Config {
	return zap.Config{
		Level:       zap.NewAtomicLevelAt(zapcore.Level(InfoLevel)),
		Development: false,
		Encoding:    "json",
		EncoderConfig: zapcore.EncoderConfig{
			CallerKey:      "caller",
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeName:     zapcore.FullNameEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "level",
			LineEnding:     "\n",
			MessageKey:     "message",
			NameKey:        "logger",
			StacktraceKey:  "stacktrace",
			TimeKey:        "@timestamp",
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
}
