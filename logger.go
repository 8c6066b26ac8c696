package timelinez

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a logr.Logger writing human-readable console lines
// to w, enabled from level upwards. It is a convenient sink for the
// diagnostics reported by Collect.
func NewLogger(w io.Writer, level zapcore.Level) logr.Logger {
	return newZapLogger(w, level, zapcore.NewConsoleEncoder)
}

// NewJSONLogger is like NewLogger but writes one JSON object per line.
func NewJSONLogger(w io.Writer, level zapcore.Level) logr.Logger {
	return newZapLogger(w, level, zapcore.NewJSONEncoder)
}

func newZapLogger(w io.Writer, level zapcore.Level, enc func(zapcore.EncoderConfig) zapcore.Encoder) logr.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	// Timestamps make log output unusable in golden files.
	cfg.TimeKey = ""
	core := zapcore.NewCore(enc(cfg), zapcore.AddSync(w), level)
	return zapr.NewLogger(zap.New(core))
}
