// Package logger holds the process-wide zap logger. Init must run before
// any other package logs; calling it twice is harmless.
package logger

import (
	"go.uber.org/zap"
)

var Log *zap.SugaredLogger

func Init() {
	if Log != nil {
		return
	}
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}
