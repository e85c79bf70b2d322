package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// newLogger builds the text logger commands and components share. Level
// names are debug, info, warn and error; empty means warn.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func parseLogLevel(level string) (slog.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return slog.LevelWarn, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: use debug, info, warn or error", level)
	}
	return lvl, nil
}
