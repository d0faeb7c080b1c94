package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/config"
)

// New constructs a slog.Logger configured according to the provided settings.
// Output goes to stdout; use NewWithWriter to redirect it in tests.
func New(cfg config.LoggingConfig) (*slog.Logger, error) {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit output writer.
func NewWithWriter(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	return slog.New(handler), nil
}
