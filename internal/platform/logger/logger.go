package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base *zap.SugaredLogger

func init() {
	base = New(os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL"))
}

// New builds a sugared logger. format is "json" or "console" (default), level
// is any zap level name and falls back to info.
func New(format, level string) *zap.SugaredLogger {
	lvl := zapcore.InfoLevel
	if level != "" {
		if parsed, err := zapcore.ParseLevel(strings.ToLower(level)); err == nil {
			lvl = parsed
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(format, "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= lvl && l < zapcore.ErrorLevel
		})),
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= lvl && l >= zapcore.ErrorLevel
		})),
	)
	// Skip one frame so the caller of Info/Warn/Error is reported.
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// SetOutput replaces the package logger, mostly for tests and the terminal
// front end, which must keep stdout clean.
func SetOutput(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	base = l
}

func Info(msg string, v ...interface{}) {
	base.Info(format(msg, v...))
}

func Warn(msg string, v ...interface{}) {
	base.Warn(format(msg, v...))
}

func Error(msg string, err error, v ...interface{}) {
	if err != nil {
		base.Errorw(format(msg, v...), "error", err)
		return
	}
	base.Error(format(msg, v...))
}

func Sync() {
	_ = base.Sync()
}

// format keeps the printf-style call sites working. Trailing nil arguments,
// which some call sites pass for "no extra context", are dropped.
func format(msg string, v ...interface{}) string {
	args := make([]interface{}, 0, len(v))
	for _, a := range v {
		if a != nil {
			args = append(args, a)
		}
	}
	if len(args) == 0 {
		return msg
	}
	if strings.Contains(msg, "%") {
		return fmt.Sprintf(msg, args...)
	}
	return msg + " " + fmt.Sprint(args...)
}
