// Package logflags holds the -log.* flags shared by every command.
package logflags

import (
	"errors"
	"flag"

	"github.com/brimdata/car2pq/pkg/logger"
	"go.uber.org/zap"
)

type Flags struct {
	logger.Config
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.Level = zap.InfoLevel
	f.Mode = logger.FileModeTruncate
	fs.Var(&f.Level, "log.level", "minimum level of logged messages (debug, info, warn, error)")
	fs.StringVar(&f.Path, "log.path", "stderr", "log destination: stderr, stdout, or a file path")
	fs.Var(&f.Mode, "log.filemode", "how a log file is opened: append, truncate, or rotate")
	fs.BoolVar(&f.DevMode, "log.devmode", false, "panic on dpanic level messages")
}

// Init is called after flags have been parsed.
func (f *Flags) Init() error {
	if f.Mode == logger.FileModeRotate {
		switch f.Path {
		case "", "stderr", "stdout":
			return errors.New("-log.filemode rotate requires a file for -log.path")
		}
	}
	return nil
}

func (f *Flags) Open() (*zap.Logger, error) {
	return logger.New(f.Config)
}
