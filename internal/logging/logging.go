package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Structured field names shared by every log line of a run.
const (
	FieldRecord   = "record"
	FieldField    = "field"
	FieldTarget   = "target"
	FieldFile     = "file"
	FieldCount    = "count"
	FieldPatterns = "patterns"
)

// New returns a console logger writing to stderr. Warnings and errors are
// always shown; verbose adds info and debug lines.
func New(verbose bool) *zap.SugaredLogger {
	return zap.New(zapcore.NewCore(encoder(), zapcore.Lock(os.Stderr), Level(verbose))).Sugar()
}

// Level maps the verbose flag to the minimum enabled level.
func Level(verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

func encoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.NameKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}
