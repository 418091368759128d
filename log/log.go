// Package log is a thin wrapper around zap.
// It provides a default logger which may be replaced by ResetDefault
// and re-exports the field constructors used throughout the project.
package log

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

type (
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

// field constructors
var (
	Skip       = zap.Skip
	Binary     = zap.Binary
	Bool       = zap.Bool
	Float64    = zap.Float64
	Int        = zap.Int
	Int64      = zap.Int64
	Uint       = zap.Uint
	String     = zap.String
	Strings    = zap.Strings
	Time       = zap.Time
	Duration   = zap.Duration
	Any        = zap.Any
	ErrorField = zap.Error

	WithCaller    = zap.WithCaller
	AddCallerSkip = zap.AddCallerSkip
)

type Logger struct {
	l     *zap.Logger
	level zap.AtomicLevel
}

var (
	mu  sync.RWMutex
	std = New(os.Stderr, InfoLevel)
)

// config for logger creation
type config struct {
	filter string
}

type ConfigOption func(*config)

// WithFilter applies zapfilter rules (e.g. "debug:processing.* info:*")
// on top of the level restriction.
// Invalid rules are ignored.
func WithFilter(rules string) ConfigOption {
	return func(c *config) {
		c.filter = rules
	}
}

// New creates a logger which writes JSON records
func New(writer io.Writer, level Level, opts ...Option) *Logger {
	return NewWithConfig(writer, level, nil, opts...)
}

// DevLogger creates a logger with human readable console output
func DevLogger(writer io.Writer, level Level, opts ...Option) *Logger {
	return NewDevWithConfig(writer, level, nil, opts...)
}

//nolint:whitespace // readability
func NewWithConfig(
	writer io.Writer, level Level, cfgOpts []ConfigOption, opts ...Option,
) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	return build(zapcore.NewJSONEncoder(encCfg), writer, level, cfgOpts, opts...)
}

//nolint:whitespace // readability
func NewDevWithConfig(
	writer io.Writer, level Level, cfgOpts []ConfigOption, opts ...Option,
) *Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return build(zapcore.NewConsoleEncoder(encCfg), writer, level, cfgOpts, opts...)
}

//nolint:whitespace // readability
func build(
	enc zapcore.Encoder,
	writer io.Writer,
	level Level,
	cfgOpts []ConfigOption,
	opts ...Option,
) *Logger {
	if writer == nil {
		panic("the writer is nil")
	}
	c := &config{}
	for _, opt := range cfgOpts {
		opt(c)
	}
	atomicLevel := zap.NewAtomicLevelAt(level)
	var core zapcore.Core = zapcore.NewCore(enc, zapcore.AddSync(writer), atomicLevel)
	if c.filter != "" {
		if filterFunc, err := zapfilter.ParseRules(c.filter); err == nil {
			core = zapfilter.NewFilteringCore(core, filterFunc)
		}
	}
	return &Logger{l: zap.New(core, opts...), level: atomicLevel}
}

// Default returns the current default logger
func Default() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// ResetDefault replaces the default logger.
// Not safe to call while other goroutines log via the package functions.
func ResetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	std = l
}

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) WithOptions(opts ...Option) *Logger {
	return &Logger{l: l.l.WithOptions(opts...), level: l.level}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l: l.l.With(fields...), level: l.level}
}

func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level)
}

func (l *Logger) Level() Level {
	return l.level.Level()
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.l.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.l.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.l.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.l.Error(msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...Field) {
	l.l.Fatal(msg, fields...)
}

func (l *Logger) Debugw(msg string, keysAndValues ...any) {
	l.l.Sugar().Debugw(msg, keysAndValues...)
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

// package level functions use the default logger

func Debug(msg string, fields ...Field) {
	Default().l.WithOptions(AddCallerSkip(1)).Debug(msg, fields...)
}

func Info(msg string, fields ...Field) {
	Default().l.WithOptions(AddCallerSkip(1)).Info(msg, fields...)
}

func Warn(msg string, fields ...Field) {
	Default().l.WithOptions(AddCallerSkip(1)).Warn(msg, fields...)
}

func Error(msg string, fields ...Field) {
	Default().l.WithOptions(AddCallerSkip(1)).Error(msg, fields...)
}

func Fatal(msg string, fields ...Field) {
	Default().l.WithOptions(AddCallerSkip(1)).Fatal(msg, fields...)
}

func Sync() error {
	return Default().Sync()
}
