package config

import (
	"os"

	"go.uber.org/zap"
)

// Log is the process-wide structured logger. InitLogger must run
// before anything logs; tests get a usable default via init.
var Log = zap.NewNop()

func InitLogger() {
	var (
		logger *zap.Logger
		err    error
	)
	if os.Getenv("APP_ENV") == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic("Failed to initialize logger")
	}
	Log = logger
}
