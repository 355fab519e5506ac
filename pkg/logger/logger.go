// Package logger builds zap loggers from command-line configuration.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// DevMode makes DPanic level logs panic.
	DevMode bool
	Level   zapcore.Level
	Mode    FileMode
	Path    string
}

// New returns a logger writing to conf.Path.  Logs to a terminal stream
// use the console encoding and logs to files use JSON.
func New(conf Config) (*zap.Logger, error) {
	w, err := OpenFile(conf.Path, conf.Mode)
	if err != nil {
		return nil, err
	}
	encConfig := zap.NewProductionEncoderConfig()
	encConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch conf.Path {
	case "", "stderr", "stdout":
		encConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encConfig)
	default:
		enc = zapcore.NewJSONEncoder(encConfig)
	}
	opts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if conf.DevMode {
		opts = append(opts, zap.Development(), zap.AddCaller())
	}
	return zap.New(zapcore.NewCore(enc, w, conf.Level), opts...), nil
}
