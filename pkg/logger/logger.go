package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel string

const (
	DEBUG LogLevel = "debug"
	INFO  LogLevel = "info"
	WARN  LogLevel = "warn"
	ERROR LogLevel = "error"
)

// Logger is a thin facade over zap's sugared logger so call sites log
// event-style messages with key/value context.
type Logger struct {
	sugar *zap.SugaredLogger
}

var (
	mu     sync.Mutex
	global *Logger
)

// Init configures the global logger. jsonFormat selects JSON output over
// console encoding; w defaults to stdout when nil.
func Init(level LogLevel, jsonFormat bool, w io.Writer) {
	l := newLogger(level, jsonFormat, w)
	mu.Lock()
	global = l
	mu.Unlock()
}

func newLogger(level LogLevel, jsonFormat bool, w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if jsonFormat {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), parseLevel(level))
	return &Logger{sugar: zap.New(core).Sugar()}
}

func parseLevel(level LogLevel) zapcore.Level {
	switch LogLevel(strings.ToLower(string(level))) {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// GetLogger returns the global logger, initializing a default one if Init
// was never called.
func GetLogger() *Logger {
	mu.Lock()
	if global == nil {
		global = newLogger(INFO, false, os.Stdout)
	}
	l := global
	mu.Unlock()
	return l
}

// WithContext returns a logger that tags every entry with the given
// key/value pairs.
func (l *Logger) WithContext(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Debug(event string, keysAndValues ...interface{}) {
	l.sugar.Debugw(event, keysAndValues...)
}

func (l *Logger) Info(event string, keysAndValues ...interface{}) {
	l.sugar.Infow(event, keysAndValues...)
}

func (l *Logger) Warn(event string, keysAndValues ...interface{}) {
	l.sugar.Warnw(event, keysAndValues...)
}

func (l *Logger) Error(event string, keysAndValues ...interface{}) {
	l.sugar.Errorw(event, keysAndValues...)
}

// Package-level shortcuts on the global logger.

func Info(event string, keysAndValues ...interface{}) {
	GetLogger().Info(event, keysAndValues...)
}

func Warn(event string, keysAndValues ...interface{}) {
	GetLogger().Warn(event, keysAndValues...)
}

func Error(event string, keysAndValues ...interface{}) {
	GetLogger().Error(event, keysAndValues...)
}
