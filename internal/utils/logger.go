package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Production gets JSON output, every other
// environment the console encoder.
func NewLogger(environment, level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if strings.EqualFold(strings.TrimSpace(environment), "production") {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

// LogEvent writes one standardized line with module/action/request_id.
// Avoid logging sensitive payload; pass summarized fields only.
func LogEvent(log *zap.Logger, requestID, module, action string, fields ...zap.Field) {
	if log == nil {
		return
	}
	base := []zap.Field{
		zap.String("module", strings.ToLower(module)),
		zap.String("action", action),
	}
	if req := strings.TrimSpace(requestID); req != "" {
		base = append(base, zap.String("request_id", req))
	}
	log.Info(action, append(base, fields...)...)
}
