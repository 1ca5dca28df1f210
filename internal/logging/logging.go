// ABOUTME: Structured logger construction for the trainer binaries.
// ABOUTME: Writes to stderr, a rotating log file, or both.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	Level string
	JSON  bool

	// File enables a rotating log file. ".log" is appended when missing.
	File string
	// Stderr keeps writing to stderr when File is set.
	Stderr bool

	Prefix string

	// Output overrides stderr, mainly for tests.
	Output io.Writer
}

// New builds a logger. An unknown level falls back to info.
func New(opts Options) *log.Logger {
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		level = log.InfoLevel
	}

	formatter := log.TextFormatter
	if opts.JSON {
		formatter = log.JSONFormatter
	}

	return log.NewWithOptions(writer(opts), log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          opts.Prefix,
		Formatter:       formatter,
	})
}

func writer(opts Options) io.Writer {
	console := opts.Output
	if console == nil {
		console = os.Stderr
	}
	if opts.File == "" {
		return console
	}

	name := opts.File
	if !strings.HasSuffix(name, ".log") {
		name += ".log"
	}
	file := &lumberjack.Logger{
		Filename: name,
		MaxSize:  50, // megabytes
		Compress: true,
	}

	if opts.Stderr {
		return NewCombinedWriter(console, file)
	}
	return file
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
