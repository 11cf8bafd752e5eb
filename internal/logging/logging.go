package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultLogFilePath = "cassframe.log"
	DefaultMaxSizeMB   = 50
	DefaultMaxBackups  = 5
	DefaultMaxAgeDays  = 30
	DefaultCompress    = true

	timeFormat = "2006-01-02 15:04:05"
)

// Options controls where and how verbosely a logger writes.
type Options struct {
	// Verbosity is the -v count: 0 info, 1 debug, 2+ trace.
	Verbosity int
	// FilePath is the rotating log file. Empty disables file logging.
	FilePath string
	// Console receives human readable output. Defaults to stderr so stdout
	// stays free for command output.
	Console io.Writer

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultOptions returns options logging to stderr and DefaultLogFilePath.
func DefaultOptions() Options {
	return Options{
		FilePath:   DefaultLogFilePath,
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAgeDays: DefaultMaxAgeDays,
		Compress:   DefaultCompress,
	}
}

// New builds the process logger (console + rotating file). The returned
// closer flushes and closes the log file; call it on shutdown.
func New(opts Options) (zerolog.Logger, io.Closer) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	consoleOutput := zerolog.ConsoleWriter{Out: console, TimeFormat: timeFormat}
	level := Level(opts.Verbosity)

	if opts.FilePath == "" {
		return zerolog.New(consoleOutput).Level(level).With().Timestamp().Logger(), nopCloser{}
	}

	if err := ensureLogDir(opts.FilePath); err != nil {
		logger := zerolog.New(consoleOutput).Level(level).With().Timestamp().Logger()
		logger.Error().Err(err).Str("path", opts.FilePath).Msg("Failed to prepare log directory; logging to console only")
		return logger, nopCloser{}
	}

	fileWriter := &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    positiveOr(opts.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}

	fileConsole := zerolog.ConsoleWriter{
		Out:        fileWriter,
		TimeFormat: timeFormat,
		NoColor:    true,
	}

	multi := zerolog.MultiLevelWriter(consoleOutput, fileConsole)
	return zerolog.New(multi).Level(level).With().Timestamp().Logger(), fileWriter
}

// Level maps a -v count to a zerolog level.
func Level(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.InfoLevel
	case verbosity == 1:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// FilePathForLedger returns a log file path next to the ledger database.
func FilePathForLedger(ledgerPath string) string {
	if ledgerPath == "" {
		return DefaultLogFilePath
	}
	absPath, err := filepath.Abs(ledgerPath)
	if err != nil {
		return filepath.Join(filepath.Dir(ledgerPath), DefaultLogFilePath)
	}
	return filepath.Join(filepath.Dir(absPath), DefaultLogFilePath)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
