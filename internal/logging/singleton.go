package logging

import (
	"sync"
)

var (
	instance *Logger
	mu       sync.Mutex
)

// InitLogger initializes the global logger with the given configuration.
// Safe to call more than once; later calls replace the instance.
func InitLogger(config *Config) error {
	mu.Lock()
	defer mu.Unlock()

	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	if instance != nil {
		instance.Close()
	}
	instance = logger
	return nil
}

// GetGlobalLogger returns the singleton logger instance.
// If InitLogger was never called it falls back to a logger writing to
// ./logs/update-server.log so library code and tests never nil-deref.
func GetGlobalLogger() *Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		logger, err := NewLogger(&Config{
			File:       "./logs/update-server.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
		})
		if err != nil {
			panic("failed to initialize fallback logger: " + err.Error())
		}
		instance = logger
	}

	return instance
}
