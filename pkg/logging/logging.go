// Package logging builds the service's zerolog loggers and carries
// request-scoped loggers through context.Context.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"

	// RequestIDField is the log field holding the correlation id
	RequestIDField = "request_id"
)

type Options struct {
	Level  string
	Format string
	Writer io.Writer // defaults to os.Stdout
}

// New builds the root logger. Unknown levels or formats are rejected.
func New(opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	out := opts.Writer
	if out == nil {
		out = os.Stdout
	}

	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", opts.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "userapi").Logger(), nil
}

// WithRequestID returns a child of base tagged with the correlation id,
// attached to ctx so code running for that request can log with it.
func WithRequestID(ctx context.Context, base zerolog.Logger, requestID string) (context.Context, *zerolog.Logger) {
	l := base.With().Str(RequestIDField, requestID).Logger()
	return l.WithContext(ctx), &l
}

// FromContext returns the logger attached to ctx, or a disabled logger
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
