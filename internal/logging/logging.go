package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ANSI color codes for terminal output
const (
	colorRed    = "\033[97;41m" // White text on red background
	colorGreen  = "\033[97;42m" // White text on green background
	colorYellow = "\033[90;43m" // Black text on yellow background
	colorBlue   = "\033[97;44m" // White text on blue background
	colorReset  = "\033[0m"
)

type Logger struct {
	*log.Logger
	writer *lumberjack.Logger
}

func NewLogger(config *Config) (*Logger, error) {
	// Expand home directory in log file path
	logFile := config.File
	if strings.HasPrefix(logFile, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		logFile = filepath.Join(homeDir, logFile[2:])
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Set up log rotation
	writer := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    config.MaxSize, // MB
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge, // days
		Compress:   true,
	}

	// Write to both the rotated file and stdout
	multiWriter := io.MultiWriter(writer, os.Stdout)

	logger := log.New(multiWriter, "", log.LstdFlags)

	return &Logger{
		Logger: logger,
		writer: writer,
	}, nil
}

func (l *Logger) Close() error {
	return l.writer.Close()
}

func (l *Logger) Debug(format string, v ...interface{}) {
	prefix := colorBlue + "[DEBUG]" + colorReset
	l.Printf(prefix+" "+format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	prefix := colorGreen + "[INFO]" + colorReset
	l.Printf(prefix+" "+format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	prefix := colorYellow + "[WARN]" + colorReset
	l.Printf(prefix+" "+format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	prefix := colorRed + "[ERROR]" + colorReset
	l.Printf(prefix+" "+format, v...)
}

// LogVersionCheck records a single update negotiation: which cohort asked,
// what was decided and how long the decision took.
func (l *Logger) LogVersionCheck(cohort, platform, latest string, hasUpdate, forced bool, latency time.Duration) {
	l.Printf("[VERSION-CHECK] cohort=%s | platform=%s | latest=%s | has_update=%v | forced=%v | %s",
		cohort, platform, latest, hasUpdate, forced, latency)
}

// LogHTTPError logs a request that ended in an error response
func (l *Logger) LogHTTPError(method, path, clientIP string, status int, message string, err error) {
	statusFormatted := l.formatHTTPStatus(status)

	l.Printf("[HTTP-ERROR] %s | %15s | %s %s | %s: %v",
		statusFormatted,
		clientIP,
		method,
		path,
		message,
		err,
	)
}

// formatHTTPStatus returns a colored string based on the status code
func (l *Logger) formatHTTPStatus(status int) string {
	var color string
	switch {
	case status >= 500:
		color = colorRed
	case status >= 400:
		color = colorYellow
	default:
		color = colorGreen
	}
	return fmt.Sprintf("%s %d %s", color, status, colorReset)
}
