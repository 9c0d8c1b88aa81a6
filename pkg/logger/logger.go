// Package logger builds the service's zap logger.
package logger

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appConfig "github.com/festy23/league_engine/internal/config"
)

// ServiceName is attached to every log entry.
const ServiceName = "league_engine"

// New creates a logger from LOG_* variables.
func New() (*zap.SugaredLogger, error) {
	return NewWithConfig(appConfig.LoadLoggerConfigFromEnv())
}

// NewWithConfig creates a logger: production preset for json above debug,
// development preset otherwise. Unknown levels fall back to info.
func NewWithConfig(cfg appConfig.LoggerConfig) (*zap.SugaredLogger, error) {
	zapConfig := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	}

	level, _ := cfg.ZapLevel()
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	zapConfig.Encoding = "json"
	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
	}
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.OutputPaths = []string{outputPath(cfg.Output)}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	zapConfig.InitialFields = map[string]interface{}{"service": ServiceName}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// outputPath maps LOG_OUTPUT to a zap sink. Values that look like a file
// path (contain a separator or end in .log) are used as files; anything
// else unknown falls back to stdout.
func outputPath(output string) string {
	switch {
	case output == "stdout" || output == "stderr":
		return output
	case strings.ContainsRune(output, filepath.Separator) || strings.HasSuffix(output, ".log"):
		return output
	default:
		return "stdout"
	}
}
