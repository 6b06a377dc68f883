package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const prefix = "kanso"

var (
	// Logger is the global logger instance. Until Init runs it writes
	// warnings and errors to stderr.
	Logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:  log.WarnLevel,
		Prefix: prefix,
	})
)

// Config holds logger configuration
type Config struct {
	Debug bool
	// Dir is the data directory; logs go to Dir/logs/kanso.log.
	Dir string
	// Quiet keeps the server from echoing logs to stderr.
	Quiet bool
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.Dir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "kanso.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	var writer io.Writer = fileWriter
	if !cfg.Quiet || cfg.Debug {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          prefix,
	})

	return nil
}

// SetOutput points the global logger at w. Used by tests to capture output.
func SetOutput(w io.Writer, level log.Level) {
	Logger = log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: prefix,
	})
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs a fatal error and exits
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
