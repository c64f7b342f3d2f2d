package internal

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var (
	logMu     sync.Mutex
	logLevel  = LogLevelInfo
	logOutput io.Writer = os.Stderr
	logger    = newZapLogger(logOutput, logLevel)
)

// zapLevel maps a LogLevel onto the zap level enabling it
func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelDebug:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLogLevel converts a config string ("error", "warn", "info", "debug") to a LogLevel.
// Unknown values fall back to info.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

func newZapLogger(w io.Writer, level LogLevel) *zap.SugaredLogger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		level.zapLevel(),
	)
	return zap.New(core).Sugar()
}

func rebuildLogger() {
	logger = newZapLogger(logOutput, logLevel)
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	logMu.Lock()
	defer logMu.Unlock()
	logLevel = level
	rebuildLogger()
}

// SetLogOutput redirects log output, mostly for tests
func SetLogOutput(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	logOutput = w
	rebuildLogger()
}

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLogLevel(LogLevelDebug)
	} else {
		SetLogLevel(LogLevelInfo)
	}
}

func currentLogger() *zap.SugaredLogger {
	logMu.Lock()
	defer logMu.Unlock()
	return logger
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	currentLogger().Errorf(format, args...)
}

// LogWarn logs a warning message
func LogWarn(format string, args ...interface{}) {
	currentLogger().Warnf(format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	currentLogger().Infof(format, args...)
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	currentLogger().Debugf(format, args...)
}

// SyncLogs flushes buffered log entries. Call before exit.
func SyncLogs() {
	_ = currentLogger().Sync()
}
