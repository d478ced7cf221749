package cli

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger writes JSON records to a rotating file. With verbose set the
// records are also copied to stderr.
func newLogger(path string, verbose bool, stderr io.Writer) (*slog.Logger, io.Closer) {
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	var w io.Writer = file
	level := slog.LevelInfo
	if verbose {
		w = io.MultiWriter(file, stderr)
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), file
}
