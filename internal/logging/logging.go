// Package logging builds the zap logger used by the CLI and the gateway.
package logging

import (
	"fmt"
	"io"

	"github.com/samber/oops"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the encoder.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// New builds a logger at level ("debug", "info", "warn", "error"). The JSON format uses
// the production config; the console format uses the development config.
func New(level string, format Format) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	var config zap.Config
	switch format {
	case FormatJSON, "":
		config = zap.NewProductionConfig()
	case FormatConsole:
		config = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// NewWriter logs JSON at level to w.
func NewWriter(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// LogError logs err at error level. An oops error contributes its code and context.
func LogError(logger *zap.Logger, msg string, err error) {
	if logger == nil || err == nil {
		return
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		fields := []zap.Field{zap.String("error", oopsErr.Error())}
		if code := oopsErr.Code(); code != nil {
			fields = append(fields, zap.Any("code", code))
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			fields = append(fields, zap.Any("context", ctx))
		}
		logger.Error(msg, fields...)
		return
	}
	logger.Error(msg, zap.Error(err))
}
