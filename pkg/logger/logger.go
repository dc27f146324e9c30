package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	l    *zap.Logger
	once sync.Once
)

// Init builds the process-wide logger. Development mode uses the console
// encoder; anything else gets production JSON output.
func Init(appEnv string) *zap.Logger {
	once.Do(func() {
		var err error
		if appEnv == "development" {
			l, err = zap.NewDevelopment()
		} else {
			l, err = zap.NewProduction()
		}
		if err != nil {
			l = zap.NewNop()
		}
	})
	return l
}

// L returns the process logger, initializing a default one if Init was not called.
func L() *zap.Logger {
	if l == nil {
		return Init("development")
	}
	return l
}
