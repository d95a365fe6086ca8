package cache

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger      *logrus.Logger
	loggerMutex sync.RWMutex
)

func SetLogger(s *logrus.Logger) {
	loggerMutex.Lock()
	logger = s
	loggerMutex.Unlock()
}

// GetLogger returns the process logger, it panics if SetLogger was never called
func GetLogger() *logrus.Logger {
	loggerMutex.RLock()
	defer loggerMutex.RUnlock()

	if logger == nil {
		panic(errors.New("tried to get logger before cache#SetLogger() was called"))
	}

	return logger
}

// HasLogger returns true once a logger has been set
func HasLogger() bool {
	loggerMutex.RLock()
	defer loggerMutex.RUnlock()

	return logger != nil
}
