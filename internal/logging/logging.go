package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Open sets up a file-backed zerolog logger. Stdout is owned by the TUI, so a
// broken log path degrades to a disabled logger instead of failing startup.
func Open(path, level string) (zerolog.Logger, func()) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: log file unavailable: %v\n", err)
		return zerolog.Nop(), func() {}
	}

	logger := zerolog.New(f).
		With().
		Timestamp().
		Str("service", "clinicbook").
		Logger().
		Level(lvl)
	return logger, func() { _ = f.Close() }
}
