package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// New создает логгер с уровнем из конфига
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "movies",
		ReportTimestamp: true,
	}), nil
}

