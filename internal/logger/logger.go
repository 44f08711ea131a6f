package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/lessonqa/internal/config"
)

// NewLogger builds the service logger from the logging section.
// The environment picks the base preset: prod writes JSON at info,
// local/dev/docker write colored console output at debug.
// Level, Format and Output in lc override the preset when set.
func NewLogger(env string, lc config.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	switch env {
	case "prod":
		zc = zap.NewProductionConfig()
	case "local", "dev", "docker":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	if lc.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	switch lc.Format {
	case "":
	case "json":
		zc.Encoding = "json"
		zc.EncoderConfig = zap.NewProductionEncoderConfig()
	case "console":
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q", lc.Format)
	}
	if env != "prod" && lc.Format == "" {
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if len(lc.Output) > 0 {
		zc.OutputPaths = lc.Output
	}

	l, err := zc.Build(
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", "lessonqa"), zap.String("env", env)),
	)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
