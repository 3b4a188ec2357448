package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup installs a JSON logger on stdout as the default and returns its
// handler so it can be fanned out later. Development environments log at
// debug level.
func Setup(appEnv string) slog.Handler {
	return SetupWriter(os.Stdout, appEnv)
}

func SetupWriter(w io.Writer, appEnv string) slog.Handler {
	level := slog.LevelInfo
	switch strings.ToLower(appEnv) {
	case "dev", "development", "local":
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return handler
}
