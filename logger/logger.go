package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op until Initialize runs.
var Log = zap.NewNop()

// Initialize builds the logger for env ("production" gives JSON output).
func Initialize(env string) (*zap.Logger, error) {
	return InitializeWithWriter(env, nil)
}

// InitializeWithWriter is Initialize with an extra JSON sink, typically a
// CloudWatch Logs writer.
func InitializeWithWriter(env string, extra io.Writer) (*zap.Logger, error) {
	config := configFor(env)

	if extra == nil {
		l, err := config.Build()
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
		Log = l
		return l, nil
	}

	level := zap.NewAtomicLevelAt(config.Level.Level())
	console := zapcore.NewCore(encoderFor(env, config.EncoderConfig), zapcore.AddSync(os.Stdout), level)
	shipped := zapcore.NewCore(zapcore.NewJSONEncoder(config.EncoderConfig), zapcore.AddSync(extra), level)

	Log = zap.New(zapcore.NewTee(console, shipped), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return Log, nil
}

func configFor(env string) zap.Config {
	if env == "production" {
		c := zap.NewProductionConfig()
		c.EncoderConfig.TimeKey = "timestamp"
		c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return c
	}
	c := zap.NewDevelopmentConfig()
	c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return c
}

func encoderFor(env string, ec zapcore.EncoderConfig) zapcore.Encoder {
	if env == "production" {
		return zapcore.NewJSONEncoder(ec)
	}
	return zapcore.NewConsoleEncoder(ec)
}
