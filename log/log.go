package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	Logger = zap.Logger
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Bool     = zap.Bool
	Duration = zap.Duration
	Time     = zap.Time
	Any      = zap.Any

	WithCaller    = zap.WithCaller
	AddCallerSkip = zap.AddCallerSkip
)

var std = New(os.Stderr, InfoLevel)

// ErrorField is the field used for errors throughout the code base.
func ErrorField(err error) Field {
	return zap.Error(err)
}

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

// New creates a json logger writing to w.
func New(w io.Writer, level Level, opts ...Option) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(w), level)
	return zap.New(core, opts...)
}

// DevLogger creates a human readable console logger writing to w.
func DevLogger(w io.Writer, level Level, opts ...Option) *Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), level)
	return zap.New(core, opts...)
}

func Default() *Logger {
	return std
}

// ResetDefault replaces the logger used by the package level functions.
// Not safe for concurrent use, call it once during startup.
func ResetDefault(l *Logger) {
	std = l
}

func Debug(msg string, fields ...Field) { std.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { std.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { std.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { std.Error(msg, fields...) }

func Sync() error {
	return std.Sync()
}
