package logging

import (
	"io"
	"os"

	"crowdbot/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var activeWriter io.Writer = os.Stdout

func Init(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer = os.Stdout
	if cfg.File != "" {
		if fw, err := newTruncatingFileWriter(cfg.File, cfg.MaxMB); err == nil {
			output = fw
		}
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}
	activeWriter = output

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// Writer returns the writer the global logger emits to, so HTTP request
// logging can share the same destination.
func Writer() io.Writer {
	return activeWriter
}
