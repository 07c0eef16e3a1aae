package main

import (
	"log/slog"
	"os"
)

var (
	logLevel = new(slog.LevelVar)

	theLog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       logLevel,
		ReplaceAttr: quietAttrs,
	}))
)

// quietAttrs drops the time, and the level when it is INFO.
func quietAttrs(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		return slog.Attr{}
	case slog.LevelKey:
		if a.Value.String() == slog.LevelInfo.String() {
			return slog.Attr{}
		}
	}
	return a
}

func cmdLog(name string) *slog.Logger {
	return theLog.With("cmd", name)
}
