package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity level of log messages.
type LogLevel int

// Log level constants defining message severity.
const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

// String returns the upper-case name of the level.
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "INFO"
}

// ParseLogLevel converts a string log level to its LogLevel constant.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// Logger writes leveled messages to stdout and a rotating log file.
type Logger struct {
	loggers map[LogLevel]*log.Logger
	out     io.Writer
	level   LogLevel
	mu      sync.RWMutex
}

var (
	instance *Logger
	once     sync.Once
)

// Init initializes the global logger at INFO level with default rotation settings.
func Init(logPath string) {
	once.Do(func() {
		instance = NewLogger(logPath, INFO)
	})
}

// InitWithConfig initializes the global logger with custom rotation settings.
// Only the first call has any effect.
func InitWithConfig(logPath string, level LogLevel, maxSize, maxBackups, maxAge int, compress bool) {
	once.Do(func() {
		instance = NewLoggerWithConfig(logPath, level, maxSize, maxBackups, maxAge, compress)
	})
}

// NewLogger creates a logger with default rotation (10MB, 3 backups, 28 days, compressed).
func NewLogger(logPath string, level LogLevel) *Logger {
	return NewLoggerWithConfig(logPath, level, 10, 3, 28, true)
}

// NewLoggerWithConfig creates a logger writing to stdout and to logPath through lumberjack.
// An empty logPath logs to stdout only.
func NewLoggerWithConfig(logPath string, level LogLevel, maxSize, maxBackups, maxAge int, compress bool) *Logger {
	var out io.Writer = os.Stdout
	if logPath != "" {
		dir := filepath.Dir(logPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("cannot create directory log: %v", err)
		}

		logFile := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
			Compress:   compress,
		}
		out = io.MultiWriter(os.Stdout, logFile)
	}
	return newWithWriter(out, level)
}

func newWithWriter(out io.Writer, level LogLevel) *Logger {
	l := &Logger{
		loggers: make(map[LogLevel]*log.Logger, len(levelNames)),
		out:     out,
		level:   level,
	}
	flags := log.LstdFlags | log.Lshortfile
	for lvl, name := range levelNames {
		l.loggers[lvl] = log.New(out, "["+name+"] ", flags)
	}
	return l
}

// SetLevel changes the minimum log level for filtering messages.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current minimum log level.
func (l *Logger) GetLevel() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// Writer returns the underlying destination, used to route gin and gorm output.
func (l *Logger) Writer() io.Writer {
	return l.out
}

func (l *Logger) logf(level LogLevel, depth int, msg string) {
	l.mu.RLock()
	enabled := level >= l.level
	l.mu.RUnlock()
	if !enabled {
		return
	}
	l.loggers[level].Output(depth+1, msg)
	if level == FATAL {
		os.Exit(1)
	}
}

// Debugf logs a formatted debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logf(DEBUG, 2, fmt.Sprintf(format, v...))
}

// Infof logs a formatted info-level message.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.logf(INFO, 2, fmt.Sprintf(format, v...))
}

// Warnf logs a formatted warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logf(WARN, 2, fmt.Sprintf(format, v...))
}

// Errorf logs a formatted error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logf(ERROR, 2, fmt.Sprintf(format, v...))
}

// Fatalf logs a formatted fatal-level message and exits the program.
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.logf(FATAL, 2, fmt.Sprintf(format, v...))
}

// Printf satisfies gorm's logger.Writer so SQL logs share the same sinks.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.logf(INFO, 2, fmt.Sprintf(format, v...))
}

// Global convenience functions. All of them are no-ops until Init is called.

// Default returns the global logger, or nil before initialization.
func Default() *Logger {
	return instance
}

// Debugf logs a formatted debug-level message using the global logger instance.
func Debugf(format string, v ...interface{}) {
	if instance != nil {
		instance.logf(DEBUG, 2, fmt.Sprintf(format, v...))
	}
}

// Infof logs a formatted info-level message using the global logger instance.
func Infof(format string, v ...interface{}) {
	if instance != nil {
		instance.logf(INFO, 2, fmt.Sprintf(format, v...))
	}
}

// Warnf logs a formatted warning-level message using the global logger instance.
func Warnf(format string, v ...interface{}) {
	if instance != nil {
		instance.logf(WARN, 2, fmt.Sprintf(format, v...))
	}
}

// Errorf logs a formatted error-level message using the global logger instance.
func Errorf(format string, v ...interface{}) {
	if instance != nil {
		instance.logf(ERROR, 2, fmt.Sprintf(format, v...))
	}
}

// Fatalf logs a formatted fatal-level message and exits the program.
// Falls back to the standard logger when the global instance is not initialized yet.
func Fatalf(format string, v ...interface{}) {
	if instance != nil {
		instance.logf(FATAL, 2, fmt.Sprintf(format, v...))
		return
	}
	log.Fatalf(format, v...)
}

// SetLevel changes the minimum log level for the global logger instance.
func SetLevel(level LogLevel) {
	if instance != nil {
		instance.SetLevel(level)
	}
}

// GetLevel returns the current minimum log level of the global logger instance.
func GetLevel() LogLevel {
	if instance != nil {
		return instance.GetLevel()
	}
	return INFO
}
