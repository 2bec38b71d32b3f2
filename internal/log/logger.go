package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger everything else hangs off. Development gets
// a console writer at debug level; production emits JSON at info so log
// shippers can parse it.
func New(environment string) zerolog.Logger {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if environment != "production" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).Level(level).With().
		Timestamp().
		Str("service", "pixvault-api").
		Logger()
}
